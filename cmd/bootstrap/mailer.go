package bootstrap

import (
	"library-api/internal/notification"
	"library-api/internal/pkg/config"

	"go.uber.org/fx"
)

var MailerModule = fx.Module("mailer",
	fx.Provide(
		fx.Annotate(
			NewMailer,
			fx.As(new(notification.Mailer)),
		),
	),
)

func NewMailer(cfg config.Config) *notification.SMTPMailer {
	return notification.NewSMTPMailer(cfg.SMTP)
}
