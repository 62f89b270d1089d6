package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
	"github.com/matzehuels/orbit/pkg/settle"
)

// settleFlags holds the flags shared by simulate and render.
type settleFlags struct {
	ticks   int
	dt      float64
	width   float64
	height  float64
	noCache bool
	refresh bool
}

func (f *settleFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.ticks, "ticks", settle.DefaultTicks, "number of ticks to run")
	cmd.Flags().Float64Var(&f.dt, "dt", settle.DefaultDT, "seconds per tick")
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// settleOptions merges the flags over the loaded config.
func (c *CLI) settleOptions(f *settleFlags) settle.Options {
	canvas := c.Config.CanvasSize()
	if f.width > 0 {
		canvas.Width = f.width
	}
	if f.height > 0 {
		canvas.Height = f.height
	}
	return settle.Options{
		Canvas:  canvas,
		Ticks:   f.ticks,
		DT:      f.dt,
		Params:  c.Config.Params(),
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
}

// simulateCommand creates the simulate command.
func (c *CLI) simulateCommand() *cobra.Command {
	var flags settleFlags
	var output string

	cmd := &cobra.Command{
		Use:   "simulate <snapshot>",
		Short: "Settle a snapshot and emit the resulting frame as JSON",
		Long: `Settle a snapshot headlessly and emit the resulting frame.

The snapshot is a JSON file or the name of a snapshot in the configured
source. The engine is deterministic, so settled frames are cached.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSnapshots,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), args[0], output, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, input, output string, flags *settleFlags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	snap, err := c.loadSnapshot(ctx, input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	opts := c.settleOptions(flags)
	frame, hit, err := runner.SettleWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return err
	}
	prog.done("Settled "+plural(len(frame.Positions), "node"), "ticks", frame.Tick, "cached", hit)

	if output == "" {
		return graph.WriteFrame(frame, os.Stdout)
	}
	if err := graph.WriteFrameFile(frame, output); err != nil {
		return err
	}
	printSuccess("Frame written")
	printStats(len(snap.Nodes), len(snap.Edges), hit)
	printFile(output)
	printCanvas(force.Size{Width: frame.Width, Height: frame.Height}, frame.Tick)
	return nil
}
