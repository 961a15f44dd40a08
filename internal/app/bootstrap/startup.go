// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/grouphub/internal/app/notify"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	"github.com/dalemusser/grouphub/internal/app/store/notifications"
	usergroupstore "github.com/dalemusser/grouphub/internal/app/store/usergroups"
	"github.com/dalemusser/grouphub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Long-lived services started here and stopped in Shutdown. They are
// package-level because waffle's hooks pass config/deps by value and
// BuildHandler needs the dispatcher that Startup created.
var (
	dispatcher   *notify.Dispatcher
	natsSender   *notify.NATSSender
	repairWorker *workers.IndexRepair
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. GroupHub
// starts the notification dispatcher and the index repair worker here.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	senders := []notify.Sender{notify.LogSender{Log: logger}}

	if appCfg.NotifyOutbox {
		senders = append(senders, notifications.New(deps.MongoDatabase))
	}
	if appCfg.NATSURL != "" {
		s, err := notify.ConnectNATS(appCfg.NATSURL)
		if err != nil {
			return err
		}
		natsSender = s
		senders = append(senders, s)
		logger.Info("publishing notification events to NATS", zap.String("url", appCfg.NATSURL))
	}

	dispatcher = notify.NewDispatcher(logger, appCfg.NotifyBufferSize, senders...)

	repairWorker = workers.NewIndexRepair(
		groupstore.New(deps.MongoDatabase),
		usergroupstore.New(deps.MongoDatabase),
		logger,
		appCfg.IndexRepairInterval,
	)
	repairWorker.Start()

	return nil
}
