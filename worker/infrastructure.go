package worker

import (
	"context"
	"fmt"
	"time"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/infrastructure"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"
)

// InfrastructureSetup creates the configured tables
type InfrastructureSetup struct {
	db         *dal.DynamoDBClient
	config     *models.Config
	logger     logger.Logger
	maxRetries int
	retryDelay time.Duration
	maxWait    time.Duration
}

func NewInfrastructureSetup(db *dal.DynamoDBClient, cfg *models.Config, log logger.Logger) *InfrastructureSetup {
	return &InfrastructureSetup{
		db:         db,
		config:     cfg,
		logger:     log,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
		maxWait:    2 * time.Minute,
	}
}

// Execute creates every missing table and waits for it to become active.
// Tables are created one at a time to avoid throttling.
func (is *InfrastructureSetup) Execute(ctx context.Context, statusManager *StatusManager) error {
	is.logger.Info("Starting infrastructure setup...")
	statusManager.SetState(StateProvisioning)

	for _, tableName := range infrastructure.PhysicalTableNames(is.config) {
		created, err := is.createTableWithRetry(ctx, tableName, statusManager)
		if err != nil {
			is.logger.Errorf("Failed to create table %s: %v", tableName, err)
			statusManager.MarkFailed(fmt.Sprintf("Failed to create table %s: %v", tableName, err))
			return err
		}
		if created {
			statusManager.AddTableCreated(tableName)
			is.logger.Infof("✅ Successfully created table: %s", tableName)
		}
	}

	statusManager.SetState(StateCompleted)
	return nil
}

func (is *InfrastructureSetup) createTableWithRetry(ctx context.Context, tableName string, statusManager *StatusManager) (bool, error) {
	input, err := infrastructure.GetTables(tableName, is.config)
	if err != nil {
		return false, err
	}

	var lastErr error
	for attempt := 0; attempt <= is.maxRetries; attempt++ {
		if attempt > 0 {
			delay := is.retryDelay * time.Duration(1<<(attempt-1))
			is.logger.Warnf("Retrying table %s in %v (attempt %d/%d): %v", tableName, delay, attempt, is.maxRetries, lastErr)
			statusManager.IncrementRetryCount()
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(delay):
			}
		}

		exists, err := is.db.TableExists(ctx, tableName)
		if err != nil {
			lastErr = err
			continue
		}
		created := false
		if exists {
			is.logger.Debugf("Table %s already exists, skipping creation", tableName)
		} else if created, err = is.db.CreateTableIfMissing(ctx, input); err != nil {
			lastErr = err
			continue
		}
		if err := is.db.WaitForTable(ctx, tableName, is.maxWait); err != nil {
			lastErr = err
			continue
		}
		return created, nil
	}
	return false, fmt.Errorf("giving up after %d retries: %w", is.maxRetries, lastErr)
}
