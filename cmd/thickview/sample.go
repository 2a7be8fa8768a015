package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chazu/thickview/pkg/field"
	"github.com/chazu/thickview/pkg/kernel"
	"github.com/chazu/thickview/pkg/kernel/sdfx"
	"github.com/chazu/thickview/pkg/measure"
	"github.com/chazu/thickview/pkg/snapshot"
	"github.com/spf13/cobra"
)

// shapes builds the sample parts. Dimensions are in millimeters.
var shapes = map[string]func(k kernel.Kernel) kernel.Solid{
	// Open box: 1.5 mm side walls, 4 mm floor.
	"tray": func(k kernel.Kernel) kernel.Solid {
		outer := k.Box(40, 30, 15)
		cavity := k.Translate(k.Box(37, 27, 15), 0, 0, 4)
		return k.Difference(outer, cavity)
	},
	// Plate with a boss and a through hole.
	"boss": func(k kernel.Kernel) kernel.Solid {
		plate := k.Box(40, 40, 3)
		boss := k.Translate(k.Cylinder(12, 8), 0, 0, 6)
		hole := k.Cylinder(40, 3)
		return k.Difference(k.Union(plate, boss), hole)
	},
	// Sphere with an off-center cavity, so the wall thickness varies
	// smoothly from 1 to 7 mm.
	"shell": func(k kernel.Kernel) kernel.Solid {
		return k.Difference(k.Sphere(12), k.Translate(k.Sphere(8), 3, 0, 0))
	},
}

func shapeNames() []string {
	names := make([]string, 0, len(shapes))
	for n := range shapes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func newSampleCmd(s *settings) *cobra.Command {
	var (
		dir   string
		shape string
		cells int
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a sample mesh and its measured thickness file",
		Long: "Sample builds a solid, tessellates it, measures the wall thickness behind every " +
			"triangle and writes NAME.stl and NAME.txt. Shapes: " + strings.Join(shapeNames(), ", ") + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			build, ok := shapes[shape]
			if !ok {
				return fmt.Errorf("unknown shape %q (want one of %s)", shape, strings.Join(shapeNames(), ", "))
			}
			stlPath, txtPath, err := writeSample(ctx, s, dir, shape, build, cells)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\nwrote %s\n", stlPath, txtPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&shape, "shape", "tray", "sample shape: "+strings.Join(shapeNames(), ", "))
	cmd.Flags().IntVar(&cells, "cells", 0, "marching cubes resolution (0 for the default)")
	return cmd
}

func writeSample(ctx context.Context, s *settings, dir, name string, build func(kernel.Kernel) kernel.Solid, cells int) (string, string, error) {
	k := sdfx.New()
	solid := build(k)
	mesh, err := k.ToMesh(solid, cells)
	if err != nil {
		return "", "", err
	}
	s.log.Debug(fmt.Sprintf("%s: %d triangles", name, mesh.TriangleCount()))

	values, err := measure.Thickness(ctx, solid, mesh, measure.Options{})
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	stlPath := filepath.Join(dir, name+".stl")
	if err := snapshot.SaveSTL(stlPath, mesh); err != nil {
		return "", "", err
	}

	txtPath := filepath.Join(dir, name+".txt")
	f, err := os.Create(txtPath)
	if err != nil {
		return "", "", err
	}
	if err := field.Write(f, values); err != nil {
		f.Close()
		return "", "", err
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}
	s.log.Info(fmt.Sprintf("%s: %d faces measured", name, len(values)))
	return stlPath, txtPath, nil
}
