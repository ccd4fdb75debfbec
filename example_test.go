package actuator_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	actuator "github.com/opskit/actuator"
	"github.com/opskit/actuator/health"
)

func Example() {
	cfg := actuator.DefaultConfig()
	cfg.Metrics.Enabled = false
	cfg.Health.Groups = map[string][]string{"liveness": {"process"}}
	cfg.Health.Custom = []health.Registration{{
		Name:     "database",
		Critical: true,
		Check: func(ctx context.Context) health.Result {
			return health.Up()
		},
	}}

	act, err := actuator.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// A host with its own HTTP server mounts the subsystem directly;
	// otherwise act.Start(0) binds an ephemeral port.
	rec := httptest.NewRecorder()
	act.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actuator/health", nil))

	fmt.Println(rec.Code)
	// Output:
	// 200
}
