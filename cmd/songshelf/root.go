package main

import (
	"errors"
	"fmt"
	"io/fs"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/songshelf/songshelf/internal/config"
	"github.com/songshelf/songshelf/internal/db"
	"github.com/songshelf/songshelf/internal/logging"
	"github.com/joho/godotenv"
	"github.com/songshelf/songshelf/internal/ui"
	"github.com/spf13/cobra"
)

// flags holds the command line overrides
type flags struct {
	dbPath    string
	configDir string
	theme     string
	reportAll bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:          "songshelf",
		Short:        "A terminal song catalog",
		Long:         `songshelf keeps a local catalog of songs with their artist, genre and link.`,
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(".env"); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&f.dbPath, "db", "", "path to the song database")
	cmd.Flags().StringVar(&f.configDir, "config-dir", "", "directory holding config.toml")
	cmd.Flags().StringVar(&f.theme, "theme", "", "color theme (clean_cyber, monokai_pro, light)")
	cmd.Flags().BoolVar(&f.reportAll, "report-all-errors", false, "list every invalid field when saving")

	return cmd
}

// loadDotEnv exports the variables in path. A missing file is fine, and
// variables already set in the environment win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadConfig reads the config file and applies the flags the user set
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.configDir != "" {
		cfg, err = config.LoadConfigFrom(f.configDir)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("db") {
		cfg.DB.Path = f.dbPath
	}
	if cmd.Flags().Changed("theme") {
		cfg.UI.Theme = f.theme
	}
	if cmd.Flags().Changed("report-all-errors") {
		cfg.Validation.ReportAll = f.reportAll
	}

	if _, ok := ui.ThemeByName(cfg.UI.Theme); !ok {
		return nil, fmt.Errorf("unknown theme %q", cfg.UI.Theme)
	}

	return cfg, nil
}

func run(cfg *config.Config) error {
	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: "json",
		Output: logFile,
	})

	db.SetDBPath(cfg.DB.Path)
	defer db.CloseDB()
	if err := db.EnsureSchema(); err != nil {
		return fmt.Errorf("failed to prepare database: %w", err)
	}

	theme, _ := ui.ThemeByName(cfg.UI.Theme)
	model, err := ui.NewModel(ui.Options{
		Theme:           theme,
		ReportAllErrors: cfg.Validation.ReportAll,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("version", Version).
		Str("theme", theme.Name).
		Bool("report_all", cfg.Validation.ReportAll).
		Msg("songshelf starting")

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		return err
	}
	return nil
}
