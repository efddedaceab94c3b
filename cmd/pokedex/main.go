// Command pokedex is a terminal client for the Pokédex collection service:
// browse the catalog, bookmark Pokémon, and manage teams.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/watisdis/pokedex-cli/config"
	"github.com/watisdis/pokedex-cli/internal/gateway"
	"github.com/watisdis/pokedex-cli/internal/session"
	"github.com/watisdis/pokedex-cli/pkg/httpclient"
	"github.com/watisdis/pokedex-cli/pkg/logger"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// App carries the wired dependencies into command Run methods.
type App struct {
	Cfg        *config.Config
	Out        io.Writer
	Session    *session.Session
	Catalog    *gateway.CatalogGateway
	Collection *gateway.CollectionGateway
	Ref        *gateway.PokeAPIGateway
}

// requireAuth gates protected commands the way protected routes are gated:
// denial names the login boundary instead of erroring opaquely.
func (a *App) requireAuth() error {
	if ok, redirect := a.Session.GateProtected(); !ok {
		return fmt.Errorf("login required (redirected to %s)", redirect)
	}
	return nil
}

// requireAnonymous gates public-only commands (login, register).
func (a *App) requireAnonymous() error {
	if ok, redirect := a.Session.GatePublicOnly(); !ok {
		return fmt.Errorf("already logged in (redirected to %s)", redirect)
	}
	return nil
}

func (a *App) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.Cfg.Service.Timeout)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(a *App) error {
	fmt.Fprintf(a.Out, "pokedex %s (%s)\n", version, buildDate)
	return nil
}

type CLI struct {
	Login       LoginCmd       `cmd:"" help:"Log in with email and password"`
	Register    RegisterCmd    `cmd:"" help:"Create an account"`
	GoogleLogin GoogleLoginCmd `cmd:"" name:"google-login" help:"Log in with a Google identity token"`
	Logout      LogoutCmd      `cmd:"" help:"Log out and clear the stored credential"`
	Whoami      WhoamiCmd      `cmd:"" help:"Show the current session"`
	Search      SearchCmd      `cmd:"" help:"Search the Pokémon catalog"`
	Show        ShowCmd        `cmd:"" help:"Show one Pokémon in detail"`
	Bookmark    BookmarkCmd    `cmd:"" help:"Manage bookmarks"`
	Team        TeamCmd        `cmd:"" help:"Manage teams"`
	Version     VersionCmd     `cmd:"" help:"Print version"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.AppEnv,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	tokenPath, err := cfg.TokenFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve token path: %v\n", err)
		os.Exit(1)
	}
	tokens := session.NewFileTokenStore(tokenPath)

	client := httpclient.NewStandardClient(cfg.Service.Timeout)
	authGW := gateway.NewAuthGateway(client, cfg.Service.BaseURL)

	app := &App{
		Cfg:        cfg,
		Out:        os.Stdout,
		Session:    session.New(authGW, tokens),
		Catalog:    gateway.NewCatalogGateway(client, cfg.Service.BaseURL, tokens),
		Collection: gateway.NewCollectionGateway(client, cfg.Service.BaseURL, tokens),
		Ref:        gateway.NewPokeAPIGateway(client, cfg.PokeAPI.BaseURL, cfg.PokeAPI.CacheTTL),
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pokedex"),
		kong.Description("Terminal client for the Pokédex collection service."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(kctx.Run(app))
}
