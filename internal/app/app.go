package app

import (
	"context"

	"github.com/nguyentranbao-ct/shopping-search/internal/config"
	"github.com/nguyentranbao-ct/shopping-search/internal/identity"
	"github.com/nguyentranbao-ct/shopping-search/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/shopping-search/internal/repo/serpapi"
	"github.com/nguyentranbao-ct/shopping-search/internal/server"
	"github.com/nguyentranbao-ct/shopping-search/internal/usecase"
	"github.com/nguyentranbao-ct/shopping-search/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded",
		"addr", conf.Server.Addr,
		"database", conf.Database.Database,
		"serpapi_configured", conf.SerpAPI.APIKey != "",
		"auth_configured", conf.Auth.JWTSecret != "",
		"kafka_enabled", conf.Kafka.Enabled,
	)
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,

			mongodb.NewSearchHistoryRepository,
			mongodb.NewProductRepository,
			mongodb.NewMigrationRepository,

			serpapi.NewClient,
			identity.NewVerifier,

			usecase.NewSessionManager,
			server.NewHandler,
		),
		fx.Supply(conf),
		fx.Invoke(RunMigrations),
		fx.Invoke(funcs...),
	)
}

// RunMigrations brings the collections up to date before traffic is served.
func RunMigrations(
	lc fx.Lifecycle,
	migrations mongodb.MigrationRepository,
	history mongodb.SearchHistoryRepository,
	products mongodb.ProductRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return migrations.Run(ctx,
				mongodb.Migration{Name: "search_history_owner_date_index", Up: history.EnsureIndexes},
				mongodb.Migration{Name: "products_region_created_index", Up: products.EnsureIndexes},
			)
		},
	})
}
