package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/infrastructure"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"

	"github.com/robfig/cron"
)

// Worker provisions the tables at startup and then checks on them on a cron schedule
type Worker struct {
	config  *models.Config
	logger  logger.Logger
	db      *dal.DynamoDBClient
	cronJob *cron.Cron
	setup   *InfrastructureSetup
	status  *StatusManager

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewWorker(cfg *models.Config, db *dal.DynamoDBClient, log logger.Logger) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db client cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		config:  cfg,
		logger:  log.WithFields(map[string]interface{}{"component": "worker"}),
		db:      db,
		cronJob: cron.New(),
		setup:   NewInfrastructureSetup(db, cfg, log),
		status:  NewStatusManager(),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start runs provisioning when enabled, takes a first look at the tables and
// schedules the monitor. Provisioning errors are returned since the
// repositories cannot work without their tables.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("worker is already running")
	}
	select {
	case <-w.ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	if w.config.ProvisionTables {
		ctx, cancel := context.WithTimeout(w.ctx, 15*time.Minute)
		err := w.setup.Execute(ctx, w.status)
		cancel()
		if err != nil {
			return fmt.Errorf("infrastructure setup failed: %w", err)
		}
	} else {
		w.logger.Info("Table provisioning disabled, starting in monitoring mode")
		w.status.SetState(StateSkipped)
	}

	if err := w.cronJob.AddFunc(w.config.TableMonitorSchedule, w.healthCheckJob); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	w.healthCheckJob()
	w.cronJob.Start()
	w.isRunning = true

	w.logger.Infof("Infrastructure worker started with schedule: %s", w.config.TableMonitorSchedule)
	return nil
}

// healthCheckJob refreshes the recorded state of every configured table
func (w *Worker) healthCheckJob() {
	ctx, cancel := context.WithTimeout(w.ctx, 30*time.Second)
	defer cancel()

	tables := infrastructure.DescribeTables(ctx, w.db.API(), infrastructure.PhysicalTableNames(w.config))
	for _, t := range tables {
		if t.Status != "ACTIVE" {
			w.logger.Warnf("Table %s is %s %s", t.Name, t.Status, t.Error)
		}
	}
	w.status.UpdateTables(tables)
	w.logger.Debug("Infrastructure health check completed")
}

// CheckNow runs the monitor outside its schedule
func (w *Worker) CheckNow() Status {
	w.healthCheckJob()
	return w.status.Snapshot()
}

func (w *Worker) GetStatus() Status {
	return w.status.Snapshot()
}

func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// Stop halts the schedule. It is safe to call more than once.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cancel()
	if !w.isRunning {
		return
	}
	w.cronJob.Stop()
	w.isRunning = false
	w.logger.Info("Infrastructure worker stopped")
}
