package cron

import (
	"context"
	"testing"

	cronv3 "github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"

	"github.com/hearthside/mailroom/config"
	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/internal/models"
)

type stubLedgerRepo struct {
	deletedDays int
}

func (s *stubLedgerRepo) Record(ctx context.Context, event *models.InboundEvent) error {
	return nil
}

func (s *stubLedgerRepo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	s.deletedDays = days
	return 7, nil
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func testConfig() *config.Config {
	return &config.Config{
		AppConfig: &config.AppConfig{},
		CronConfig: &config.CronConfig{
			HeartbeatSchedule:   "0 * * * * *",
			LedgerPruneSchedule: "0 0 4 * * *",
			LedgerRetentionDays: 30,
		},
	}
}

func TestNewCronManager(t *testing.T) {
	// Arrange
	cfg := testConfig()
	log := getLogger()
	ledger := &stubLedgerRepo{}

	// Act
	cm := NewCronManager(cfg, log, ledger)

	// Assert
	assert.NotNil(t, cm)
	assert.Equal(t, cfg, cm.cfg)
	assert.Equal(t, log, cm.log)
	assert.NotNil(t, cm.jobIDs)
}

func TestCronManager_RegisterJobs(t *testing.T) {
	cm := NewCronManager(testConfig(), getLogger(), &stubLedgerRepo{})
	c := cronv3.New(cronv3.WithSeconds())

	cm.registerJobs(c)

	assert.Contains(t, cm.jobIDs, "heartbeat")
	assert.Contains(t, cm.jobIDs, "ledger_prune")
	assert.Len(t, c.Entries(), 2)
}

func TestCronManager_PruneInboundLedger(t *testing.T) {
	ledger := &stubLedgerRepo{}
	cm := NewCronManager(testConfig(), getLogger(), ledger)

	cm.pruneInboundLedger()

	assert.Equal(t, 30, ledger.deletedDays)
}
