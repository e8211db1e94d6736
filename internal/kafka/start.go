package kafka

import (
	"context"

	"github.com/nguyentranbao-ct/shopping-search/internal/config"
	"github.com/nguyentranbao-ct/shopping-search/internal/usecase"
	log "github.com/nguyentranbao-ct/shopping-search/pkg/logger/logctx"
	"go.uber.org/fx"
)

// StartConsumeIdentityEvents signs out live sessions when the identity
// provider reports that their user signed out elsewhere.
func StartConsumeIdentityEvents(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	sessions usecase.SessionManager,
) error {
	consumer, err := NewConsumer(conf.Kafka, NewIdentityEventHandler(sessions))
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := consumer.Start(runCtx); err != nil {
					log.Errorw(runCtx, "kafka consumer stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return consumer.Stop(ctx)
		},
	})
	return nil
}
