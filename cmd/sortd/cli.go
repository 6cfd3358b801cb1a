package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/sortd/internal/config"
	"github.com/hpungsan/sortd/internal/errors"
	"github.com/hpungsan/sortd/internal/index"
	"github.com/hpungsan/sortd/internal/organize"
	"github.com/hpungsan/sortd/internal/prefs"
	"github.com/hpungsan/sortd/internal/provider"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(baseDir string, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "sortd",
		Usage:   "AI-assisted file organizer",
		Version: Version,
		Commands: []*cli.Command{
			organizeCmd(baseDir, cfg),
			prefsCmd(baseDir),
			modelsCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// organizeCmd creates the organize command.
func organizeCmd(baseDir string, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "organize",
		Usage:     "Analyze files and organize them into suggested folders",
		ArgsUsage: "<paths...>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "execute", Aliases: []string{"e"}, Usage: "Actually move files (default is a dry run)"},
			&cli.BoolFlag{Name: "dry-run", Aliases: []string{"d"}, Usage: "Preview the plan without moving files"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Auto-select the best suggestion without prompting"},
			&cli.BoolFlag{Name: "copy", Aliases: []string{"c"}, Usage: "Copy files instead of moving them"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Base directory for the organized structure"},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Override the configured generation model"},
			&cli.BoolFlag{Name: "no-recursive", Usage: "Do not descend into subdirectories"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Suppress progress output"},
			&cli.IntFlag{Name: "preview-length", Aliases: []string{"p"}, Usage: "Characters of file content to read for analysis"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewNoInputPaths())
			}

			runCfg := cfg
			if model := c.String("model"); model != "" {
				copied := *cfg
				copied.Model = model
				runCfg = &copied
			}

			previewChars := runCfg.PreviewChars
			if c.IsSet("preview-length") {
				previewChars = c.Int("preview-length")
			}

			// Without --execute every run is a dry run.
			dryRun := c.Bool("dry-run") || !c.Bool("execute")

			reporter := organize.NewConsoleReporter(os.Stdout)
			if c.Bool("quiet") {
				reporter = organize.NewQuietReporter()
			}

			var idx *index.Store
			if !dryRun {
				if opened, err := index.Open(baseDir); err == nil {
					idx = opened
					defer idx.Close()
				}
			}

			p := &organize.Pipeline{
				Providers: provider.New(runCfg),
				Prefs:     prefs.Open(baseDir),
				Index:     idx,
				Reporter:  reporter,
				In:        os.Stdin,
				Out:       os.Stdout,
			}

			state := p.Run(c.Context, c.Args().Slice(), organize.Options{
				Recursive:    !c.Bool("no-recursive"),
				DryRun:       dryRun,
				Copy:         c.Bool("copy"),
				AutoYes:      c.Bool("yes"),
				OutputDir:    c.String("output"),
				PreviewChars: previewChars,
				MaxFileSize:  runCfg.MaxFileSizeBytes(),
			})

			if state.HasFatal() {
				return outputError(state.Fatal[0])
			}
			return nil
		},
	}
}

// prefsCmd creates the prefs command with its subcommands.
func prefsCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Inspect or reset learned organization preferences",
		Subcommands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show strategy scores, folder names, and usage counters",
				Action: func(c *cli.Context) error {
					store := prefs.Open(baseDir)
					doc := store.Preferences()
					return outputJSON(map[string]any{
						"strategy_scores":  doc.StrategyScores,
						"strategy_ranking": store.StrategyRanking(),
						"folder_names":     doc.FolderNames,
						"stats":            doc.Stats,
						"history_size":     len(doc.History),
					})
				},
			},
			{
				Name:  "reset",
				Usage: "Discard all learned preferences",
				Action: func(c *cli.Context) error {
					store := prefs.Open(baseDir)
					if err := store.Reset(); err != nil {
						return outputError(errors.NewInternal(err))
					}
					return outputJSON(map[string]any{"reset": true})
				},
			},
		},
	}
}

// modelsCmd creates the models command.
func modelsCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List models available from the configured provider",
		Action: func(c *cli.Context) error {
			models, err := provider.ListOllamaModels(c.Context, cfg.OllamaHost)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"host":   cfg.OllamaHost,
				"models": models,
			})
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.SortdError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
