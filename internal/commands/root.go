package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/credited/internal/buildinfo"
	"github.com/cleared-dev/credited/internal/config"
	"github.com/cleared-dev/credited/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "credited",
		Short:   "Track credit alerts and estimate income tax",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFlag, "config", "", "config file (default $CREDITED_CONFIG or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&a.logLevelFlag, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(a),
		newClassifyCommand(a),
		newAddCommand(a),
		newListCommand(a),
		newRemoveCommand(a),
		newTaxCommand(a),
		newExportCommand(a),
		newProfileCommand(a),
		newImportCommand(a),
		newScanCommand(a),
		newServeCommand(a),
	)

	return rootCmd
}

func (a *app) load() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	a.configPath = config.Path(a.configFlag, os.Getenv)
	a.root = filepath.Dir(a.configPath)
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	// A relative database path in the file is relative to the file.
	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(a.root, cfg.Store.Path)
	}
	cfg.ApplyEnv(os.Getenv)
	if a.logLevelFlag != "" {
		cfg.LogLevel = a.logLevelFlag
	}

	a.cfg = cfg
	a.log = logger.New(cfg.LogLevel)
	a.log.Debug().Str("config", a.configPath).Str("store", cfg.Store.Driver).Msg("config loaded")
	return nil
}
