package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chazu/thickview/pkg/field"
	"github.com/chazu/thickview/pkg/inspect"
	"github.com/spf13/cobra"
)

func newInspectCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect THICKNESS FACE...",
		Short: "Print the thickness of individual faces",
		Long: "Inspect prints the value and normalized log position of each face index. -1 means no face; " +
			"pass it after -- so it is not read as a flag.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			f, err := field.Load(ctx, args[0])
			if err != nil {
				return err
			}
			idx := inspect.New(f).WithUnit(s.cfg.Unit)
			for _, a := range args[1:] {
				face, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("face %q: %w", a, err)
				}
				res, ok, err := idx.Lookup(face)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "no face")
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), res)
			}
			return nil
		},
	}
}
