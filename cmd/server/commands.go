package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phrazzld/flashnotes/internal/config"
	"github.com/phrazzld/flashnotes/internal/generation"
	"github.com/phrazzld/flashnotes/internal/platform/database"
	"github.com/phrazzld/flashnotes/internal/platform/logger"
	"github.com/phrazzld/flashnotes/internal/service"
	"github.com/spf13/cobra"
)

// configLoader returns the configuration selected by the persistent flags.
type configLoader func() (*config.Config, error)

// newRootCmd builds the command tree. Running the root command without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "flashnotes",
		Short: "Turn pasted notes into flashcards",
		Long: `flashnotes serves a small web application that turns pasted notes into
question/answer flashcards. Candidate pairs are extracted locally, optionally
after a remote summarization step, and only the pairs a user accepts are stored.

Configuration is read from FLASHNOTES_* environment variables, a .env file in
the working directory and an optional config file.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")

	load := func() (*config.Config, error) {
		cfg, err := config.LoadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		return cfg, nil
	}

	serve := newServeCmd(load)
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCmd(load), newExtractCmd(load))
	return root
}

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				log.Error("failed to initialize application", "error", err)
				return err
			}
			defer app.cleanup()

			return app.startHTTPServer(ctx)
		},
	}
}

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [" + strings.Join(database.Commands, "|") + "]",
		Short:     "Run database schema migrations",
		Long:      "Run database schema migrations. The command defaults to up.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: database.Commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := database.CommandUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			log, err := logger.SetupWithWriter(cfg.Server, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			db, err := database.Open(cmd.Context(), cfg.Database.URL, log)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			version, err := database.Migrate(cmd.Context(), db, command, log)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
			return err
		},
	}
}

func newExtractCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the flashcards generated from a notes file, or stdin",
		Long: `Print the flashcards generated from a notes file as JSON. Notes are read from
stdin when no file is given or the file is "-". The configured summarizer is used
when an API key is present. Nothing is stored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log, err := logger.SetupWithWriter(cfg.Server, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}

			notes, err := readNotes(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(notes) == "" {
				return service.ErrEmptyNotes
			}

			summarizer, closeSummarizer, err := newSummarizer(cmd.Context(), cfg, log, nil)
			if err != nil {
				return err
			}
			defer closeSummarizer()

			gen := generation.NewGenerator(summarizer, generation.WithLogger(log))
			return writePairs(cmd.Context(), cmd.OutOrStdout(), gen, notes)
		},
	}
}

func readNotes(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read notes from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read notes: %w", err)
	}
	return string(data), nil
}

func writePairs(ctx context.Context, w io.Writer, gen *generation.Generator, notes string) error {
	pairs := gen.Generate(ctx, strings.TrimSpace(notes))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"qa": pairs})
}
