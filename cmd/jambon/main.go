package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jambonrider/jambon/internal/api"
	"github.com/jambonrider/jambon/internal/config"
	"github.com/jambonrider/jambon/internal/db"
	"github.com/jambonrider/jambon/internal/local"
	"github.com/jambonrider/jambon/internal/qr"
	"github.com/jambonrider/jambon/internal/remote"
	"github.com/jambonrider/jambon/internal/store"
)

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
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "qr":
			runQR(args[1:])
			return
		case "serve":
			args = args[1:]
		}
	}
	runServe(args)
}

// runQR prints the payload to embed in a printed QR code for a bag.
func runQR(args []string) {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintln(os.Stderr, "Usage: jambon qr <bag-id>")
		os.Exit(1)
	}

	data, err := qr.New(args[0]).Encode()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func runServe(args []string) {
	fs := flag.NewFlagSet("jambon", flag.ContinueOnError)

	var envFile string
	fs.StringVar(&envFile, "env", "", "")
	fs.StringVar(&envFile, "e", "", "")

	var addr string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")

	var dbPath string
	fs.StringVar(&dbPath, "db", "", "")
	fs.StringVar(&dbPath, "d", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: jambon [serve] [flags]
       jambon qr <bag-id>

Flags:
  -e, -env <path>         .env file to load (default: ./.env if present)
  -a, -addr <host:port>   listen address (default: $JAMBON_ADDR or :8080)
  -d, -db <path>          SQLite database path (default: $JAMBON_DB or jambon.sqlite3)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	// The SQLite database is always opened: it carries the session and
	// JWT secret in both modes, and the photos and collections in local
	// mode.
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", cfg.DBPath)

	ctx := context.Background()

	// Pick the persistence backend once; it never changes at runtime.
	localAdapter := local.New(database)
	var port store.Persistence = localAdapter
	var photos api.PhotoSource = localAdapter
	remoteMode := false

	gateway, err := remote.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to remote backend", "error", err)
		os.Exit(1)
	}
	if gateway != nil {
		port = gateway
		photos = nil
		remoteMode = true
		slog.Info("remote backend configured", "project", cfg.FirebaseProjectID)
	} else {
		slog.Info("running in local mode")
	}

	st := store.New(port, local.NewSessions(database), store.Options{
		Remote:      remoteMode,
		AdminSecret: cfg.AdminPassword,
		UserSecret:  cfg.UserPassword,
	})
	defer st.Close()

	if err := st.CheckAuth(ctx); err != nil {
		slog.Error("failed to restore session", "error", err)
		os.Exit(1)
	}
	if err := st.Load(ctx); err != nil {
		slog.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	// JWT secret lives in the database, auto-generated on first run.
	jwtSecret, err := local.JWTSecret(ctx, database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	handler := api.LoggingMiddleware(api.NewRouter(st, photos, jwtSecret))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "remote", remoteMode)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}
