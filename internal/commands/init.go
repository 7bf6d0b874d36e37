package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/credited/internal/config"
	"github.com/cleared-dev/credited/internal/gitops"
)

func newInitCommand(a *app) *cobra.Command {
	var name string
	var withGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new credited project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, name); err != nil {
				return err
			}
			a.log.Info().Str("dir", absDir).Msg("project initialized")

			if !withGit {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized credited project at %s\n", absDir)
				return nil
			}
			hash, err := initGit(cmd.Context(), absDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized credited project at %s (%s)\n", absDir, hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name as it appears on alerts")
	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository and commit the project files")

	return cmd
}

func runInit(dir, name string) error {
	cfgPath := filepath.Join(dir, config.DefaultPath)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Create directory structure.
	for _, d := range []string{"import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Profile.DisplayName = name
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := "credited.db*\n.env\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}
	return nil
}

func initGit(ctx context.Context, dir string) (string, error) {
	if !gitops.Available() {
		return "", fmt.Errorf("--git needs the git binary on PATH")
	}
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(ctx, dir); err != nil {
			return "", err
		}
	}
	hash, err := gitops.Commit(ctx, dir, "init: credited project", gitops.DefaultAuthor,
		config.DefaultPath, ".gitignore", filepath.Join("import", ".gitkeep"))
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
