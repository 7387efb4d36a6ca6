package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yildizm/Koryaku/internal/config"
	"github.com/yildizm/Koryaku/internal/emoji"
	"github.com/yildizm/Koryaku/internal/ui"
)

var (
	cfgFile       string
	verbose       bool
	noColor       bool
	noEmoji       bool
	outputFmt     string
	templatesPath string
	logFile       string
	seed          uint64

	globalConfig *config.Config
)

// tolerantConfigAnnotation marks commands that run with defaults when the
// configuration does not load
const tolerantConfigAnnotation = "koryaku/tolerant-config"

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "koryaku",
		Short: "Pachislot strategy generator",
		Long: `Koryaku hands out pachislot play strategies one at a time.

Enter your rotation count, today's big wins, the reel symbols and where you
are sitting, press generate, and Koryaku "analyzes" your data before revealing
a strategy. Every strategy in the templates file is shown once before any
repeats.

Run without a subcommand to open the interactive screen.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyEmojiSetting(cmd)

			cfg, err := loadGlobalConfig(cmd)
			if err != nil {
				if cmd.Annotations[tolerantConfigAnnotation] != "true" {
					return err
				}
				cfg = config.DefaultConfig()
			}
			globalConfig = cfg

			if cfg.Output.NoEmoji {
				emoji.SetEmojiDisabled(true)
			}
			ui.SetColorMode(cfg.Output.ColorMode, noColor)
			ui.SetThemeByName(cfg.Output.Theme)
			return nil
		},
		RunE: runPlay,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json, markdown)")
	rootCmd.PersistentFlags().StringVarP(&templatesPath, "templates", "t", "", "templates file path or URL")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs of the interactive screen to this file")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "seed for shuffling and timing jitter (0 = random)")

	// Add subcommands
	rootCmd.AddCommand(newPlayCommand())
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newTemplatesCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// applyEmojiSetting resolves --no-emoji, turning emoji off on Windows unless set explicitly
func applyEmojiSetting(cmd *cobra.Command) {
	if runtime.GOOS == "windows" {
		if flag := cmd.Flag("no-emoji"); flag != nil && !flag.Changed {
			noEmoji = true
		}
	}
	emoji.SetEmojiDisabled(noEmoji)
}

// loadGlobalConfig loads the layered configuration and applies flag overrides
func loadGlobalConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if templatesPath != "" {
		cfg.Templates.Source = templatesPath
	}
	if flag := cmd.Flag("output"); flag != nil && flag.Changed {
		cfg.Output.DefaultFormat = outputFmt
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if logFile != "" {
		cfg.Output.LogFile = logFile
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Koryaku %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig returns the configuration loaded for the running command
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// Global helpers
func isVerbose() bool {
	return verbose || GetGlobalConfig().Output.Verbose
}

func getOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}
