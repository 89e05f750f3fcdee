package cron

import (
	"context"
	"sync"

	cronv3 "github.com/robfig/cron/v3"

	"github.com/hearthside/mailroom/config"
	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/internal/tracing"
)

// CronManager runs the service's background jobs. Jobs in the same group
// share a lock so overlapping schedules never run concurrently.
const groupLedger = "ledger"

var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		groupLedger: new(sync.Mutex),
	},
}

type CronManager struct {
	cfg    *config.Config
	log    logger.Logger
	cron   *cronv3.Cron
	jobIDs map[string]cronv3.EntryID
	ledger interfaces.InboundEventRepository
}

func NewCronManager(cfg *config.Config, log logger.Logger, ledger interfaces.InboundEventRepository) *CronManager {
	return &CronManager{
		cfg:    cfg,
		log:    log,
		jobIDs: make(map[string]cronv3.EntryID),
		ledger: ledger,
	}
}

// Start initializes and starts the cron scheduler.
func (cm *CronManager) Start() {
	cm.log.Info("Starting cron manager")
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

// Stop gracefully stops the scheduler and waits for running jobs.
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		<-ctx.Done()
	}
}

func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	cronConfig := cm.cfg.CronConfig

	if cronConfig.HeartbeatSchedule != "" {
		id, err := c.AddFunc(cronConfig.HeartbeatSchedule, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Info("Cron heartbeat")
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.HeartbeatSchedule)
	}

	if cronConfig.LedgerPruneSchedule != "" {
		id, err := c.AddFunc(cronConfig.LedgerPruneSchedule, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[groupLedger].Lock()
			defer jobLocks.locks[groupLedger].Unlock()
			cm.pruneInboundLedger()
		})
		if err != nil {
			cm.log.Fatalf("Could not add ledger prune cron job: %v", err)
		}
		cm.jobIDs["ledger_prune"] = id
		cm.log.Infof("Registered ledger prune job with schedule: %s", cronConfig.LedgerPruneSchedule)
	}
}

func (cm *CronManager) pruneInboundLedger() {
	cm.log.Info("Running inbound ledger prune")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.pruneInboundLedger")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	deleted, err := cm.ledger.DeleteOlderThan(ctx, cm.cfg.CronConfig.LedgerRetentionDays)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to prune inbound ledger: %v", err)
		return
	}

	cm.log.Infof("Pruned %d inbound ledger rows older than %d days", deleted, cm.cfg.CronConfig.LedgerRetentionDays)
}
