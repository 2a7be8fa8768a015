// Command thickview colors meshes by per-face wall thickness without a
// window: it renders snapshots, inspects faces, summarizes thickness
// files and generates sample parts.
package main

import (
	"fmt"
	"os"

	"github.com/chazu/thickview/pkg/config"
	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// settings is shared by every subcommand.
type settings struct {
	configPath string
	logLevel   string

	cfg config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	s := &settings{}
	root := &cobra.Command{
		Use:           "thickview",
		Short:         "Color meshes by per-face wall thickness",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&s.configPath, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "trace, debug, info, warning or error (overrides config)")

	root.AddCommand(
		newRenderCmd(s),
		newInspectCmd(s),
		newStatsCmd(s),
		newSampleCmd(s),
	)
	return root
}

func (s *settings) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if s.configPath != "" {
		var err error
		if cfg, err = config.Load(s.configPath); err != nil {
			return err
		}
	}
	if s.logLevel != "" {
		cfg.Log.Level = s.logLevel
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.log = &levelLogger{out: newWriterLogger(cmd.ErrOrStderr()), level: level}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
