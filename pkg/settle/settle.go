// Package settle runs a layout engine headlessly and renders the result.
//
// The engine is deterministic: the same snapshot, canvas, parameters, tick
// count and tick interval always produce the same positions. That makes a
// settled frame a pure function of its inputs, so the [Runner] caches frames
// and rendered artifacts under a hash of those inputs.
//
// # Stages
//
//  1. Settle: initialize an engine from a snapshot and tick it N times at a
//     fixed dt, capturing a [graph.Frame].
//  2. Render: draw the frame as SVG, PNG, PDF, DOT or JSON.
//
// # Usage
//
//	runner := settle.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, snapshot, settle.Options{
//	    Canvas:  force.Size{Width: 1600, Height: 1200},
//	    Formats: []string{settle.FormatSVG},
//	})
//	svg := result.Artifacts[settle.FormatSVG]
//
// Run one stage:
//
//	frame, err := runner.Settle(ctx, snapshot, opts)
//	artifacts, err := runner.Render(ctx, snapshot, frame, opts)
package settle

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultTicks is ten seconds of simulated time at the nominal rate.
	DefaultTicks = 600

	// DefaultDT is the fixed tick interval used for headless runs.
	DefaultDT = 1.0 / force.DefaultRate

	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1600.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 1200.0

	// MaxTicks bounds a single run.
	MaxTicks = 100_000
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a settle run. It supports JSON for API requests.
type Options struct {
	Canvas force.Size   `json:"canvas"`
	Ticks  int          `json:"ticks,omitempty"`
	DT     float64      `json:"dt,omitempty"`
	Params force.Params `json:"params"`

	Formats []string `json:"formats,omitempty"`
	Edges   bool     `json:"edges,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Refresh bool     `json:"refresh,omitempty"` // bypass cached results

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills zero values and rejects unusable settings.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Canvas == (force.Size{}) {
		o.Canvas = force.Size{Width: DefaultWidth, Height: DefaultHeight}
	}
	if err := errors.ValidateCanvas(o.Canvas.Width, o.Canvas.Height); err != nil {
		return err
	}
	if o.Ticks == 0 {
		o.Ticks = DefaultTicks
	}
	if o.Ticks < 0 || o.Ticks > MaxTicks {
		return errors.New(errors.ErrCodeInvalidInput, "ticks must be in [1, %d], got %d", MaxTicks, o.Ticks)
	}
	if o.DT == 0 {
		o.DT = DefaultDT
	}
	if o.DT < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dt must be positive, got %g", o.DT)
	}
	if o.Params == (force.Params{}) {
		o.Params = force.DefaultParams()
	}
	if err := o.Params.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "physics parameters")
	}
	return ValidateFormats(o.Formats)
}

// ValidateFormat checks that a single format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (valid: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a settle run.
type Result struct {
	// SnapshotHash is the content hash of the sorted snapshot.
	SnapshotHash string

	// Frame holds the settled positions.
	Frame graph.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics. Physics counters are zero when the frame
// came from the cache.
type Stats struct {
	Nodes       int
	Edges       int
	Ticks       int
	Corrections int // overlap corrections summed over all ticks
	Clamps      int // boundary clamps summed over all ticks
	SettleTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	SettleHit bool
	RenderHit bool
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d ticks, %d corrections, %d clamps", s.Nodes, s.Ticks, s.Corrections, s.Clamps)
}
