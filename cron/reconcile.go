package cron

import (
	"context"
	"time"

	"stayflow/config"
	"stayflow/services/ledger"
	"stayflow/utils"

	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartFeedReconciler periodically rebuilds every unit's public feed from
// the ledger. Mutations already regenerate synchronously; this heals feeds
// lost out of band, e.g. a deploy wiping the public directory.
func StartFeedReconciler(units *config.UnitRegistry, ledgerSvc ledger.Service) (*robfig.Cron, error) {
	logger := utils.GetLogger()

	c := robfig.New()
	_, err := c.AddFunc(config.AppConfig.FeedReconcileCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		for _, unit := range units.All() {
			if err := ledgerSvc.RegenerateFeed(ctx, unit.ID); err != nil {
				logger.Error("feed reconciliation failed",
					zap.String("unitID", unit.ID), zap.Error(err))
			}
		}
		logger.Debug("feed reconciliation pass completed",
			zap.Int("units", len(units.All())))
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Info("feed reconciler started",
		zap.String("schedule", config.AppConfig.FeedReconcileCron))
	return c, nil
}
