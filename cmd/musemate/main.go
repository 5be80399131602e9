package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/musemate/internal/api"
	"github.com/erazemk/musemate/internal/auth"
	"github.com/erazemk/musemate/internal/config"
	"github.com/erazemk/musemate/internal/db"
	"github.com/erazemk/musemate/internal/metrics"
	"github.com/erazemk/musemate/internal/persist"
	"github.com/erazemk/musemate/internal/store"
)

// secretKey names the generated signing key in the kv table.
const secretKey = "jwt-secret"

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg, rest, err := config.Load("musemate", os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(rest) > 0 {
		if rest[0] != "token" {
			fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", rest[0])
			os.Exit(1)
		}
		if err := cmdToken(cfg, rest[1:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				os.Exit(0)
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := serve(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	ctx := context.Background()
	backend := persist.NewSQLiteBackend(database)

	secret, err := signingSecret(ctx, cfg, backend)
	if err != nil {
		return err
	}

	initial := persist.Restore(ctx, backend)
	slog.Info("state restored", "items", len(initial.Items), "events", len(initial.Events))

	m := metrics.New()
	saver := persist.NewSaver(backend, cfg.FlushInterval, persist.WithMetrics(m))
	st := store.New(initial, store.WithHook(store.Chain(
		func(op string, state store.State) {
			m.ObserveMutation(op, len(state.Items), len(state.Events))
		},
		saver.Hook,
	)))
	m.Items.Set(float64(len(initial.Items)))
	m.Events.Set(float64(len(initial.Events)))

	router := api.NewRouter(api.Deps{
		Store:    st,
		Flusher:  saver,
		Images:   persist.NewImages(database),
		Verifier: auth.NewVerifier(secret, cfg.Issuer),
		Metrics:  m,
		Origins:  cfg.Origins,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "flush", cfg.FlushInterval)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	slog.Info("server stopped, saving state")
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := saver.Close(closeCtx); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// signingSecret returns the configured key, else the one stored in the
// database, generating it on first run.
func signingSecret(ctx context.Context, cfg *config.Config, backend *persist.SQLiteBackend) (string, error) {
	if cfg.Secret != "" {
		return cfg.Secret, nil
	}
	secret, err := backend.Secret(ctx, secretKey)
	if err != nil {
		return "", fmt.Errorf("loading signing secret: %w", err)
	}
	return secret, nil
}

// cmdToken prints a signed identity token for local development.
func cmdToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	sub := fs.String("sub", "", "user id (token subject)")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sub == "" {
		return errors.New("-sub is required")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	secret, err := signingSecret(context.Background(), cfg, persist.NewSQLiteBackend(database))
	if err != nil {
		return err
	}

	token, err := auth.GenerateToken(secret, cfg.Issuer, *sub, *name, *email)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	fmt.Println(token)
	return nil
}
