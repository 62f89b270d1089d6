package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots in the configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context())
		},
	}
}

func (c *CLI) runList(ctx context.Context) error {
	src, closeFn, err := c.newSource(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	names, err := src.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		printInfo("No snapshots in %s source", src.Name())
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		s, err := src.Load(ctx, name)
		if err != nil {
			rows = append(rows, []string{name, "-", "-", "invalid"})
			continue
		}
		anchor := s.Anchor
		if anchor == "" {
			anchor = "-"
		}
		rows = append(rows, []string{name, fmt.Sprint(len(s.Nodes)), fmt.Sprint(len(s.Edges)), anchor})
	}
	fmt.Println(renderTable([]string{"Snapshot", "Nodes", "Edges", "Anchor"}, rows))
	return nil
}
