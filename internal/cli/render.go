package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/settle"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags settleFlags
	var output, formats string
	var edges, labels bool

	cmd := &cobra.Command{
		Use:               "render <snapshot>",
		Short:             "Settle a snapshot and render it to SVG, PNG, PDF, DOT or JSON",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSnapshots,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.settleOptions(&flags)
			opts.Formats = parseFormats(formats)
			opts.Edges = edges
			opts.Labels = labels
			if err := settle.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, flags.noCache, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&edges, "edges", true, "draw edges")
	cmd.Flags().BoolVar(&labels, "labels", true, "draw node labels")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, noCache bool, opts settle.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	snap, err := c.loadSnapshot(ctx, input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	result, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		return err
	}

	prog.done("Rendered "+plural(len(opts.Formats), "format"), "input", input)

	paths := outputPaths(output, input, opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Nodes, result.Stats.Edges, result.CacheInfo.SettleHit && result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	logger.Debug("render stats", "stats", result.Stats.String())
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output uses that path verbatim.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
