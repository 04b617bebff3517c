// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the live feeds and the login limiter, drains NATS and
// tears down the Mongo client.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if svc := deps.Services; svc != nil {
		if svc.Feeds != nil {
			logger.Info("stopping live feeds")
			svc.Feeds.StopAll()
		}
		if svc.Limiter != nil {
			svc.Limiter.Close()
		}
	}

	if deps.NATS != nil {
		if err := deps.NATS.Drain(); err != nil {
			logger.Warn("nats drain failed", zap.Error(err))
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
