package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chrisrosset/avro-playground/pkg/config"
	"github.com/chrisrosset/avro-playground/pkg/container"
	"github.com/chrisrosset/avro-playground/pkg/manifest"
	"github.com/chrisrosset/avro-playground/pkg/pipeline"
	"github.com/chrisrosset/avro-playground/pkg/workspace"
)

var (
	// Global flags
	verbose      bool
	dir          string
	configPath   string
	count        int
	manifestPath string

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "avro-playground",
	Short: "Generate, decode and compare Avro object container files",
	Long: `avro-playground writes the same synthesized record set into two
container files - one through the regular encoder, one through a
simulated append path that frames each block by hand - then decodes
them back to JSON and reports checksums and sizes so the two write
paths can be compared byte for byte.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write one record set as .real.avro and .fake.avro files",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		p := pipeline.New(ws, cfg, pipeline.WithLogger(logger))
		names, err := p.Generate()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode FILE",
	Short: "Decode a container file to JSON on standard output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return container.WriteJSON(args[0], os.Stdout)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean, generate, decode and print the checksum report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		opts := []pipeline.Option{pipeline.WithLogger(logger)}
		if manifestPath != "" {
			store, err := manifest.Open(manifestPath)
			if err != nil {
				return err
			}
			defer store.Close()
			opts = append(opts, pipeline.WithManifest(store))
		}

		return pipeline.New(ws, cfg, opts...).Run()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs and the latest content changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if manifestPath == "" {
			return fmt.Errorf("--manifest is required")
		}
		store, err := manifest.Open(manifestPath)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs()
		if err != nil {
			return err
		}
		for _, run := range runs {
			fmt.Printf("%s  %s  %d files\n",
				run.CreatedAt.Format(time.RFC3339), run.ID, len(run.Files))
		}

		changes, ok, err := store.DiffLatest()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if len(changes) == 0 {
			fmt.Println("no content changes since previous run")
			return nil
		}
		fmt.Println("changes since previous run:")
		for _, c := range changes {
			switch {
			case c.Before == "":
				fmt.Printf("  %s: added (%s)\n", c.Name, c.After)
			case c.After == "":
				fmt.Printf("  %s: removed (was %s)\n", c.Name, c.Before)
			default:
				fmt.Printf("  %s: %s -> %s\n", c.Name, c.Before, c.After)
			}
		}
		return nil
	},
}

// setup builds the workspace and generator settings shared by the
// generate and run commands.
func setup(cmd *cobra.Command) (*workspace.Workspace, config.Config, error) {
	ws, err := workspace.New(dir)
	if err != nil {
		return nil, config.Config{}, err
	}

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, config.Config{}, err
		}
	}
	if cmd.Flags().Changed("count") {
		cfg.Count = count
		if err := cfg.Validate(); err != nil {
			return nil, config.Config{}, err
		}
	}
	return ws, cfg, nil
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dir, "dir", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML generator config")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "path to the run-history database")

	generateCmd.Flags().IntVar(&count, "count", 0, "records per generation (overrides config)")
	runCmd.Flags().IntVar(&count, "count", 0, "records per generation (overrides config)")

	rootCmd.AddCommand(generateCmd, decodeCmd, runCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
