package rng

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged randomness. Every roll is
// logged at debug level so combat resolution can be audited after the fact.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn returns a random int in [0, n), logging the result.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("roll",
		zap.Int("bound", n),
		zap.Int("value", v),
	)
	return v
}

// Chance rolls against probability p and reports success.
// p <= 0 never succeeds; p >= 1 always succeeds.
//
// Postcondition: result logged with the probability and outcome.
func (r *Roller) Chance(p float64) bool {
	ok := Chance(r.src, p)
	r.logger.Debug("chance roll",
		zap.Float64("probability", p),
		zap.Bool("success", ok),
	)
	return ok
}
