package schedule

import (
	"binaryledger/internal/handlers/business"
	"binaryledger/internal/models"
	"binaryledger/pkg/config"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

const (
	// midnight on Sunday, Monday, Wednesday and Friday
	dividendCronSpec = "0 0 0 * * 0,1,3,5"
	// hourly sweep of withdrawals stuck in review
	withdrawalSweepSpec = "0 0 * * * *"
)

// Start registers the recurring jobs and starts the scheduler.
func Start() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc(dividendCronSpec, runDividendDistribution); err != nil {
		logrus.Fatalf("Failed to register dividend job: %v", err)
	}
	if _, err := c.AddFunc(withdrawalSweepSpec, runWithdrawalSweep); err != nil {
		logrus.Fatalf("Failed to register withdrawal sweep job: %v", err)
	}

	c.Start()
	logrus.Info("Scheduler started")
	return c
}

func runDividendDistribution() {
	summary, err := business.DistributeDividends(config.Params.Binary())
	if err != nil {
		logrus.Errorf("Dividend distribution failed: %v", err)
		recordJobFailure("dividend", err)
		return
	}
	logrus.Infof("Dividend distribution finished: pool=%.2f paid=%d failed=%d",
		summary.Pool, summary.Paid, summary.Failed)
}

func runWithdrawalSweep() {
	swept, err := business.SweepStaleWithdrawals()
	if err != nil {
		logrus.Errorf("Withdrawal sweep failed: %v", err)
		recordJobFailure("withdrawal_sweep", err)
		return
	}
	if swept > 0 {
		logrus.Infof("Withdrawal sweep auto-rejected %d stale requests", swept)
	}
}

// recordJobFailure leaves a durable trace so an operator can see failed runs
// without scraping process logs.
func recordJobFailure(job string, err error) {
	logErr := config.DB.Create(&models.SystemLog{
		Level:   "ERROR",
		Message: err.Error(),
		Module:  "schedule:" + job,
	}).Error
	if logErr != nil {
		logrus.Errorf("Failed to persist job failure for %s: %v", job, logErr)
	}
}
