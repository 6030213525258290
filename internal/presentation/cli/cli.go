// Package cli defines the sutra command line. Every command runs against an
// App holding the loaded settings, the session store and the API client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/application/settings"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/infrastructure/api"
	"github.com/tesso57/sutra/internal/infrastructure/config"
	"github.com/tesso57/sutra/internal/infrastructure/logging"
	"github.com/tesso57/sutra/internal/infrastructure/session"
)

// CLI is the kong command tree.
type CLI struct {
	Config string `help:"Config file path" type:"path"`

	TUI      TUICmd      `cmd:"" default:"1" name:"tui" help:"Open the terminal UI"`
	Register RegisterCmd `cmd:"" help:"Create an account and sign in"`
	Login    LoginCmd    `cmd:"" help:"Sign in as an existing user"`
	Logout   LogoutCmd   `cmd:"" help:"Sign out"`
	Whoami   WhoamiCmd   `cmd:"" help:"Show the signed-in user"`
	Topics   TopicsCmd   `cmd:"" help:"List your agents"`
	Agent    AgentCmd    `cmd:"" help:"Create, edit or delete agents"`
	Refresh  RefreshCmd  `cmd:"" help:"Fetch new content"`
	Saved    SavedCmd    `cmd:"" help:"Manage saved items"`
	Prefs    PrefsCmd    `cmd:"" help:"Show or change delivery preferences"`
	Serve    ServeCmd    `cmd:"" help:"Run the development API server"`
}

// Remote is the curation service surface used by the commands.
type Remote interface {
	usecase.RemoteStore
	usecase.UserStore
	usecase.SettingsStore
}

// App carries the dependencies shared by all commands.
type App struct {
	Settings settings.Settings
	Logger   zerolog.Logger
	Out      io.Writer
	Err      io.Writer
	Remote   Remote
	Sessions usecase.SessionService
}

// Session returns the signed-in session or a hint to sign in.
func (a *App) Session() (curation.Session, error) {
	s, err := a.Sessions.Require()
	if errors.Is(err, usecase.ErrNoSession) {
		return curation.Session{}, errors.New("not signed in: run `sutra login` or `sutra register`")
	}
	return s, err
}

// Workspace returns a fresh workspace over the remote store.
func (a *App) Workspace() *usecase.Workspace {
	return usecase.NewWorkspace(a.Remote, a.Logger)
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

// Main parses args, wires the App and runs the selected command. It returns
// the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("sutra"),
		kong.Description("Feed and learning agents in your terminal."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "sutra: %v\n", err)
		return 2
	}

	app, cleanup, err := newApp(cli.Config, kctx.Command(), stdout, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "sutra: %v\n", err)
		return 1
	}
	defer cleanup()

	if err := kctx.Run(app); err != nil {
		app.Logger.Error().Err(err).Str("command", kctx.Command()).Msg("command failed")
		_, _ = fmt.Fprintf(stderr, "sutra: %v\n", err)
		return 1
	}
	return 0
}

func newApp(configPath, command string, stdout, stderr io.Writer) (*App, func(), error) {
	store, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	cfg := store.Settings

	var closers []io.Closer
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}

	var logger zerolog.Logger
	if command == "serve" {
		logger, err = logging.Console(cfg.Log, stderr)
	} else {
		var closer io.Closer
		logger, closer, err = logging.Open(cfg.Log)
		if closer != nil {
			closers = append(closers, closer)
		}
	}
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := api.New(cfg.API.BaseURL,
		api.WithHTTPTimeout(cfg.API.Timeout()),
		api.WithLogger(logger),
		api.WithDebugLogging(cfg.API.Debug),
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init api client: %w", err)
	}

	repo, err := session.Open(cfg.StateFile)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open state file: %w", err)
	}
	closers = append(closers, repo)

	return &App{
		Settings: cfg,
		Logger:   logger,
		Out:      stdout,
		Err:      stderr,
		Remote:   client,
		Sessions: usecase.NewSessionService(client, repo),
	}, cleanup, nil
}

// Run is the process entry point used by cmd/sutra.
func Run() {
	os.Exit(Main(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
