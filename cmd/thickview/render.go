package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/chazu/thickview/pkg/colormap"
	"github.com/chazu/thickview/pkg/params"
	"github.com/chazu/thickview/pkg/preset"
	"github.com/chazu/thickview/pkg/snapshot"
	"github.com/chazu/thickview/pkg/viewer"
	"github.com/spf13/cobra"
)

// paramFlags are the visualization flags of render.
type paramFlags struct {
	start, end   string
	transparency float64
	bound        float64
	presetPath   string
}

func (f *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "gradient start color (#rrggbb)")
	cmd.Flags().StringVar(&f.end, "end", "", "gradient end color (#rrggbb)")
	cmd.Flags().Float64Var(&f.transparency, "transparency", 1, "hide faces whose normalized position exceeds this")
	cmd.Flags().Float64Var(&f.bound, "bound", 0, "threshold in raw units; 0 keeps the gradient")
	cmd.Flags().StringVar(&f.presetPath, "preset", "", "Lisp preset file applied before the flags")
}

// resolve folds config, preset and explicitly set flags, in that order.
func (f *paramFlags) resolve(ctx context.Context, cmd *cobra.Command, s *settings) (colormap.Params, error) {
	base, err := s.cfg.Params()
	if err != nil {
		return colormap.Params{}, err
	}
	store, err := params.NewWith(base)
	if err != nil {
		return colormap.Params{}, err
	}

	if f.presetPath != "" {
		p, evalErrs, err := preset.NewEngine().EvaluateFile(ctx, f.presetPath)
		if err != nil {
			return colormap.Params{}, err
		}
		if len(evalErrs) > 0 {
			return colormap.Params{}, fmt.Errorf("preset %s: %w", f.presetPath, evalErrs[0])
		}
		if err := p.Apply(store); err != nil {
			return colormap.Params{}, err
		}
		s.log.Debug(fmt.Sprintf("applied preset %s (%d ops)", p.Name, len(p.Ops)))
	}

	if cmd.Flags().Changed("start") {
		c, err := colormap.ParseHex(f.start)
		if err != nil {
			return colormap.Params{}, err
		}
		store.SetStartColor(c)
	}
	if cmd.Flags().Changed("end") {
		c, err := colormap.ParseHex(f.end)
		if err != nil {
			return colormap.Params{}, err
		}
		store.SetEndColor(c)
	}
	if cmd.Flags().Changed("transparency") {
		if err := store.SetTransparency(f.transparency); err != nil {
			return colormap.Params{}, err
		}
	}
	if cmd.Flags().Changed("bound") {
		if err := store.SetBound(f.bound); err != nil {
			return colormap.Params{}, err
		}
	}
	return store.Params(), nil
}

func newRenderCmd(s *settings) *cobra.Command {
	var (
		pf     paramFlags
		out    string
		width  int
		height int
		eye    []float64
		pick   []int
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "render MESH THICKNESS",
		Short: "Render a mesh colored by its thickness file to PNG",
		Long: "Render loads an STL or triangulated OBJ mesh and a thickness file with one value " +
			"per face, colors the faces and writes a PNG. With --pick it also reports the face " +
			"under a pixel. With --watch it keeps running and re-renders on every save of the " +
			"thickness file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			scene, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			cam := snapshot.CameraFromConfig(s.cfg.Camera)
			if cmd.Flags().Changed("width") {
				cam.Width = width
			}
			if cmd.Flags().Changed("height") {
				cam.Height = height
			}
			if cmd.Flags().Changed("eye") {
				if len(eye) != 3 {
					return fmt.Errorf("--eye needs 3 components, got %d", len(eye))
				}
				copy(cam.Eye[:], eye)
			}
			if err := scene.SetCamera(cam); err != nil {
				return err
			}

			p, err := pf.resolve(ctx, cmd, s)
			if err != nil {
				return err
			}
			store, err := params.NewWith(p)
			if err != nil {
				return err
			}
			ctl := viewer.New(scene, s.log,
				viewer.WithStore(store),
				viewer.WithUnit(s.cfg.Unit),
			)
			draw := func() error {
				if err := ctl.LoadFile(ctx, args[1]); err != nil {
					return err
				}
				s.log.Info(fmt.Sprintf("%d faces, %s", ctl.Field().Len(), p.Mode))
				if out == "" {
					return nil
				}
				if err := scene.SavePNG(out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
				return nil
			}
			if err := draw(); err != nil {
				return err
			}

			if cmd.Flags().Changed("pick") {
				if len(pick) != 2 {
					return fmt.Errorf("--pick needs x,y, got %d values", len(pick))
				}
				res, ok, err := ctl.PickAt(pick[0], pick[1])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "pixel (%d, %d): no face\n", pick[0], pick[1])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "pixel (%d, %d): %s\n", pick[0], pick[1], res)
				}
			}

			if watch {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()
				return watchFile(ctx, args[1], s.log, draw)
			}
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "thickview.png", "output PNG; empty skips rendering")
	cmd.Flags().IntVar(&width, "width", 0, "image width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "image height (default from config)")
	cmd.Flags().Float64SliceVar(&eye, "eye", nil, "camera position x,y,z in the unit cube")
	cmd.Flags().IntSliceVar(&pick, "pick", nil, "report the face under pixel x,y")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render whenever the thickness file changes")
	return cmd
}
