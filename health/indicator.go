package health

import "context"

// Result contains the outcome of a single indicator check.
type Result struct {
	// Status is the health status.
	Status Status `json:"status"`

	// Details contains arbitrary metadata about the check.
	Details map[string]any `json:"details,omitempty"`
}

// Up creates an UP result.
func Up() Result {
	return Result{Status: StatusUp}
}

// Down creates a DOWN result. A non-nil error is recorded under the
// "error" detail key.
func Down(err error) Result {
	r := Result{Status: StatusDown}
	if err != nil {
		r.Details = map[string]any{"error": err.Error()}
	}
	return r
}

// OutOfService creates an OUT_OF_SERVICE result.
func OutOfService() Result {
	return Result{Status: StatusOutOfService}
}

// Unknown creates an UNKNOWN result. A non-nil error is recorded under the
// "error" detail key.
func Unknown(err error) Result {
	r := Result{Status: StatusUnknown}
	if err != nil {
		r.Details = map[string]any{"error": err.Error()}
	}
	return r
}

// WithDetails returns a copy of the result carrying the given details.
// Existing details are merged; new keys win.
func (r Result) WithDetails(details map[string]any) Result {
	if r.Details == nil {
		r.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		r.Details[k] = v
	}
	return r
}

// Indicator is a named health check contributing one Result to an
// aggregation.
type Indicator interface {
	// Name returns the name of this indicator.
	Name() string

	// Check performs the health check. The context is cancelled when the
	// engine stops waiting for this check (timeout or caller cancellation);
	// well-behaved checks should return promptly once it is done.
	Check(ctx context.Context) Result
}

// CheckFunc is the signature of a bare health check function.
type CheckFunc func(ctx context.Context) Result

// IndicatorFunc is an adapter to allow ordinary functions to be used as
// Indicators.
type IndicatorFunc struct {
	name string
	fn   CheckFunc
}

// NewIndicatorFunc creates a new IndicatorFunc.
func NewIndicatorFunc(name string, fn CheckFunc) *IndicatorFunc {
	return &IndicatorFunc{name: name, fn: fn}
}

// Name returns the name of this indicator.
func (f *IndicatorFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *IndicatorFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}

// Registration describes one indicator to register. Both bare check
// functions and full Indicator implementations are accepted; they are
// normalized into this single form at the registry boundary.
//
// Exactly one of Indicator or Check must be set. Name is required with
// Check, and optional with Indicator (it overrides the indicator's own
// name when set).
type Registration struct {
	Name      string
	Check     CheckFunc
	Indicator Indicator
	Critical  bool
}

// normalize resolves a registration into its registry form.
func (r Registration) normalize() (string, Indicator, error) {
	switch {
	case r.Indicator != nil && r.Check != nil:
		return "", nil, ErrInvalidRegistration
	case r.Indicator != nil:
		name := r.Name
		if name == "" {
			name = r.Indicator.Name()
		}
		if name == "" {
			return "", nil, ErrInvalidRegistration
		}
		return name, r.Indicator, nil
	case r.Check != nil:
		if r.Name == "" {
			return "", nil, ErrInvalidRegistration
		}
		return r.Name, NewIndicatorFunc(r.Name, r.Check), nil
	default:
		return "", nil, ErrInvalidRegistration
	}
}
