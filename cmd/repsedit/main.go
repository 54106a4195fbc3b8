package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/claude/repsedit/internal/api"
	"github.com/claude/repsedit/internal/config"
	"github.com/claude/repsedit/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: repsedit [-config path] <command> [flags]

Commands:
  login   -token <jwt>   store the bearer token for the configured server
  logout                 forget the stored token
  list                   browse workouts and open one in the editor
  edit    -id <n>        edit a single workout
  mcp                    serve workout tools over MCP on stdio
  version                print version and exit
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: loading .env: %v\n", err)
		os.Exit(1)
	}

	configPath := flag.String("config", "repsedit.yaml", "path to config file")
	serverURL := flag.String("server", "", "workouts service URL (overrides config)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "\nGlobal flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]
	if cmd == "version" {
		fmt.Println("repsedit", Version)
		return
	}

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Client.ServerURL = *serverURL
	}
	if err := cfg.ValidateClient(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "login":
		err = runLogin(ctx, cfg, args)
	case "logout":
		err = runLogout(ctx, cfg)
	case "list":
		err = runInteractive(ctx, cfg, 0)
	case "edit":
		err = runEdit(ctx, cfg, args)
	case "mcp":
		err = runMCP(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	token := flags.String("token", os.Getenv("REPSEDIT_TOKEN"), "bearer token issued by repsedit-server -issue-token")
	flags.Parse(args)

	if *token == "" {
		return errors.New("-token is required")
	}

	store, err := session.Open(cfg.Client.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	// Confirm the token works before keeping it.
	client := api.NewClient(cfg.Client.ServerURL, *token, api.WithTimeout(cfg.Client.Timeout))
	if _, err := client.ListWorkouts(ctx); err != nil {
		return fmt.Errorf("checking token against %s: %w", cfg.Client.ServerURL, err)
	}

	if err := store.SaveToken(ctx, cfg.Client.ServerURL, *token); err != nil {
		return err
	}
	fmt.Println("Logged in to", cfg.Client.ServerURL)
	return nil
}

func runLogout(ctx context.Context, cfg *config.Config) error {
	store, err := session.Open(cfg.Client.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteToken(ctx, cfg.Client.ServerURL); err != nil {
		return err
	}
	fmt.Println("Logged out of", cfg.Client.ServerURL)
	return nil
}

func runEdit(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("edit", flag.ExitOnError)
	id := flags.Int("id", 0, "workout id")
	flags.Parse(args)

	if *id <= 0 {
		return errors.New("-id must be a positive workout id")
	}
	return runInteractive(ctx, cfg, *id)
}

// newClient reads the stored credential once and builds the API client with it.
func newClient(ctx context.Context, cfg *config.Config) (*api.Client, error) {
	store, err := session.Open(cfg.Client.StateDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	token, err := store.Token(ctx, cfg.Client.ServerURL)
	if errors.Is(err, session.ErrNoToken) {
		return nil, fmt.Errorf("not logged in to %s: run `repsedit login -token <jwt>`", cfg.Client.ServerURL)
	}
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg.Client.ServerURL, token, api.WithTimeout(cfg.Client.Timeout)), nil
}

func newLogger(w *os.File) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
