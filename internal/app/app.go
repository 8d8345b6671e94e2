package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/yukmarkazi/cargobot/core/bootstrap"
	tg "github.com/yukmarkazi/cargobot/core/telegram"
	"github.com/yukmarkazi/cargobot/core/telegram/helpers"
	"github.com/yukmarkazi/cargobot/core/telegram/router"
	"github.com/yukmarkazi/cargobot/core/telegram/sessions"
	"github.com/yukmarkazi/cargobot/internal/handlers"
	"github.com/yukmarkazi/cargobot/internal/i18n"
	"github.com/yukmarkazi/cargobot/internal/storage"
)

// App is the fully wired cargo bot.
type App struct {
	cfg *Config
	db  *sqlx.DB

	sessions sessions.Store
	handlers *handlers.Handlers
}

// Bootstrap initializes infrastructure and wires the application.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Seeders: []bootstrap.Seeder{
			bootstrap.SeederFunc(func(ctx context.Context, db *sqlx.DB) error {
				return storage.NewChannels(db).EnsureRegions(ctx)
			}),
		},
	})
	if err != nil {
		return nil, err
	}

	store := sessions.NewStore()
	h := handlers.New(handlers.Options{
		Sessions: store,
		Users:    storage.NewUsers(res.DB),
		Cargo:    storage.NewCargo(res.DB),
		Channels: storage.NewChannels(res.DB),

		AdminIDs:       cfg.Core.Telegram.AdminIDs,
		SupportContact: cfg.Bot.SupportContact,
		NewsChannel:    cfg.Bot.NewsChannel,
		BroadcastPace:  cfg.BroadcastPace(),
	})
	h.BindFlows()

	return &App{
		cfg:      cfg,
		db:       res.DB,
		sessions: store,
		handlers: h,
	}, nil
}

// TelegramRunOptions builds the runtime options for the Telegram loop.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	a.handlers.Register(reg)

	var routes []tg.Route
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs: a.cfg.Core.Telegram.AdminIDs,
		OnAdminReject: func(c tele.Context) error {
			return helpers.SendHTML(c, "⛔ Sizda admin huquqi yo'q.")
		},
	})...)
	routes = append(routes, router.TextRoutes(a.sessions, reg, router.TextOptions{
		Canonicalize:   i18n.Canonicalize,
		Interrupt:      a.handlers.Interrupt,
		UnknownText:    a.handlers.UnknownText,
		UnknownContact: a.handlers.UnknownContact,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.handlers.AttachBot(rt.Bot)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
