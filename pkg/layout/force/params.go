package force

import "fmt"

// Params holds the tunable strengths of the simulation. Everything else
// (drift amplitude, zone widths, force scales) is fixed by the algorithm.
type Params struct {
	// SpringStrength scales the pull of every node toward its target.
	SpringStrength float64 `json:"spring_strength" toml:"spring_strength"`
	// RepulsionStrength scales the push between nearby nodes.
	RepulsionStrength float64 `json:"repulsion_strength" toml:"repulsion_strength"`
	// Friction is the per-tick velocity retention factor, in (0, 1).
	Friction float64 `json:"friction" toml:"friction"`
	// BounceMargin is the inset used by the soft bounce after integration.
	BounceMargin float64 `json:"bounce_margin" toml:"bounce_margin"`
	// ContainmentMargin is the tighter inset used by the overlap pass.
	ContainmentMargin float64 `json:"containment_margin" toml:"containment_margin"`
}

// Default parameter values.
const (
	DefaultSpringStrength    = 0.02
	DefaultRepulsionStrength = 30.0
	DefaultFriction          = 0.95
	DefaultBounceMargin      = 40.0
	DefaultContainmentMargin = 50.0
)

// Fixed algorithm constants.
const (
	anchorStiffness   = 2.5  // anchor spring multiplier
	driftAmplitude    = 5.0  // px, horizontal wobble radius
	driftAspect       = 0.8  // vertical/horizontal wobble ratio
	strayLimit        = 1.5  // multiples of driftAmplitude before the strong pull
	strongPull        = 2.0  // spring multiplier when strayed
	gentlePull        = 0.4  // spring multiplier otherwise
	separation        = 1.2  // required distance = (rA + rB) * separation
	proximityReach    = 1.5  // soft zone outer edge, multiples of required distance
	hardRepulsion     = 0.02 // overlap force scale
	softRepulsion     = 0.01 // proximity force scale
	bounceRestitution = -0.5
)

// DefaultParams returns the parameters the engine is tuned for.
func DefaultParams() Params {
	return Params{
		SpringStrength:    DefaultSpringStrength,
		RepulsionStrength: DefaultRepulsionStrength,
		Friction:          DefaultFriction,
		BounceMargin:      DefaultBounceMargin,
		ContainmentMargin: DefaultContainmentMargin,
	}
}

// Validate reports parameters that would make the simulation unbounded.
func (p Params) Validate() error {
	switch {
	case p.SpringStrength <= 0:
		return fmt.Errorf("spring strength must be positive, got %g", p.SpringStrength)
	case p.RepulsionStrength < 0:
		return fmt.Errorf("repulsion strength must not be negative, got %g", p.RepulsionStrength)
	case p.Friction <= 0 || p.Friction >= 1:
		return fmt.Errorf("friction must be in (0, 1), got %g", p.Friction)
	case p.BounceMargin < 0 || p.ContainmentMargin < 0:
		return fmt.Errorf("margins must not be negative")
	}
	return nil
}
