package components

import (
	"context"

	"library-api/internal/notification"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/config"
	"library-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewNotificationWorker,
	),
	fx.Invoke(startNotificationWorker),
)

func NewNotificationWorker(
	store notification.JobStore,
	userQueries queries.UserQueries,
	mailer notification.Mailer,
	clk clock.Clock,
	cfg config.Config,
) *notification.Worker {
	return notification.NewWorker(store, userQueries, mailer, clk, cfg.Worker)
}

func startNotificationWorker(lc fx.Lifecycle, worker *notification.Worker) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go worker.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
