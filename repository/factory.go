package repository

import (
	"nosql-repository-backend/dal"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils/logger"
	"nosql-repository-backend/utils/metrics"
)

// Factory builds repositories that share one client, table suffix and lookup policy
type Factory struct {
	api     dal.DynamoDBAPI
	suffix  string
	policy  LookupPolicy
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewFactory creates a repository factory for the client's environment
func NewFactory(db *dal.DynamoDBClient, cfg *models.Config, log logger.Logger, m *metrics.Metrics) *Factory {
	policy := ReportLookupErrors
	if cfg.LookupErrorsAsAbsent {
		policy = AbsentOnLookupError
	}
	return &Factory{
		api:     db.API(),
		suffix:  db.TableSuffix(),
		policy:  policy,
		logger:  log,
		metrics: m,
	}
}

// TableName returns the physical table of an entity type
func (f *Factory) TableName(entity dal.TableEntity) string {
	return dal.PhysicalTableName(entity.Schema().TableName, f.suffix)
}

// Enhanced returns the cross-table repository
func (f *Factory) Enhanced() *DynamoDBEnhancedRepository {
	return NewDynamoDBEnhancedRepository(f.api, f.suffix, f.logger, f.metrics)
}

// Build returns a repository for T bound to its physical table
func Build[T dal.TableEntity](f *Factory) *DynamoDBRepository[T] {
	var zero T
	return NewDynamoDBRepository[T](f.api, f.TableName(zero), f.policy, f.logger, f.metrics)
}
