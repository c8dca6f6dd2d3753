// cmd/browser/main.go
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github-commit-browser/internal/config"
	custom_errors "github-commit-browser/internal/errors"
	"github-commit-browser/internal/github"
	"github-commit-browser/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	logLevel *slog.LevelVar
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logLevel: new(slog.LevelVar)}
	var levelFlag string

	rootCmd := &cobra.Command{
		Use:           "browser",
		Short:         "Browse GitHub repositories, commits and favourites",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if levelFlag != "" {
				cfg.LogLevel = levelFlag
			}
			a.cfg = cfg
			setLogLevel(cfg.LogLevel, a.logLevel)
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: a.logLevel}))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&levelFlag, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(reposCmd(a))
	rootCmd.AddCommand(commitsCmd(a))
	rootCmd.AddCommand(showCmd(a))

	return rootCmd
}

// newStore wires a GitHub client into a fresh store.
func (a *app) newStore() (*store.Store, error) {
	ghClient, err := github.NewClient(a.cfg.GithubAPIURL, a.cfg.HTTPTimeout, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}
	return store.New(ghClient, a.logger), nil
}

// parseRepoIdentifier splits an 'owner/name' argument.
func parseRepoIdentifier(r string) (owner, name string, err error) {
	parts := strings.Split(r, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &custom_errors.ErrInvalidRepoFormat{Repo: r}
	}
	return parts[0], parts[1], nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
