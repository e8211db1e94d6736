package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nguyentranbao-ct/shopping-search/internal/config"
	"github.com/nguyentranbao-ct/shopping-search/internal/identity"
	pkgmdw "github.com/nguyentranbao-ct/shopping-search/internal/server/middleware"
	"github.com/nguyentranbao-ct/shopping-search/pkg/logger"
	log "github.com/nguyentranbao-ct/shopping-search/pkg/logger/logctx"
	"go.uber.org/fx"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
	verifier identity.Verifier,
) {
	e := newEcho(conf, handler, verifier)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func newEcho(conf *config.Config, handler Controller, verifier identity.Verifier) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(logger.MustNamed("http"))

	isWatch := func(c echo.Context) bool {
		return strings.HasSuffix(c.Path(), "/watch")
	}
	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Skipper: func(c echo.Context) bool {
			uri := c.Request().URL.Path
			return uri == "/health" || uri == "/metrics"
		},
		ResponseBody: func(c echo.Context) bool {
			return !isWatch(c)
		},
		KeyAndValues: func(c echo.Context) []any {
			if id := c.Param("id"); id != "" {
				return []any{"session_id", id}
			}
			return nil
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.CORS(regexp.MustCompile(conf.Server.CORSPattern)))
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return err
		},
	}))

	if conf.Server.Pprof {
		pkgmdw.Pprof(e)
	}

	e.GET("/health", handler.Health)

	api := e.Group("/api/v1", pkgmdw.Authenticate(verifier))
	api.POST("/sessions", pkgmdw.WrapHandler(handler.CreateSession))
	api.GET("/sessions/:id", pkgmdw.WrapHandler(handler.GetSession))
	api.DELETE("/sessions/:id", pkgmdw.WrapHandler(handler.CloseSession))
	api.POST("/sessions/:id/search", pkgmdw.WrapHandler(handler.Search))
	api.DELETE("/sessions/:id/search", pkgmdw.WrapHandler(handler.ClearSearch))
	api.PUT("/sessions/:id/identity", pkgmdw.WrapHandler(handler.SignIn))
	api.DELETE("/sessions/:id/identity", pkgmdw.WrapHandler(handler.SignOut))
	api.GET("/sessions/:id/watch", handler.WatchSession)

	return e
}
