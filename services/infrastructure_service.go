package services

import (
	"nosql-repository-backend/utils/logger"
	"nosql-repository-backend/worker"
)

// TableMonitor is the part of the worker the service reads from
type TableMonitor interface {
	GetStatus() worker.Status
	CheckNow() worker.Status
}

type InfrastructureService struct {
	monitor TableMonitor
	logger  logger.Logger
}

func NewInfrastructureService(monitor TableMonitor, logger logger.Logger) *InfrastructureService {
	return &InfrastructureService{
		monitor: monitor,
		logger:  logger,
	}
}

// GetTableStatus returns the result of the last scheduled check
func (s *InfrastructureService) GetTableStatus() worker.Status {
	return s.monitor.GetStatus()
}

// RefreshTableStatus checks the tables now
func (s *InfrastructureService) RefreshTableStatus() worker.Status {
	s.logger.Debug("Refreshing table status")
	return s.monitor.CheckNow()
}
