package health_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opskit/actuator/health"
)

func Example() {
	engine := health.NewEngine(health.Config{
		Timeout: 2 * time.Second,
		Groups:  map[string][]string{"readiness": {"database", "cache"}},
	})

	_ = engine.AddIndicator(health.Registration{
		Name:     "database",
		Critical: true,
		Check: func(ctx context.Context) health.Result {
			return health.Up()
		},
	})
	_ = engine.AddIndicator(health.Registration{
		Name: "cache",
		Check: func(ctx context.Context) health.Result {
			return health.Down(errors.New("connection refused"))
		},
	})

	resp := engine.Deep(context.Background())
	fmt.Println(resp.Status)

	readiness, _ := engine.Group(context.Background(), "readiness")
	fmt.Println(readiness.Status)

	// Output:
	// DOWN
	// DOWN
}
