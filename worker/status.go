package worker

import (
	"sync"
	"time"

	"nosql-repository-backend/models"
)

// SetupState is the provisioning phase reported by the worker
type SetupState string

const (
	StateIdle         SetupState = "idle"
	StateProvisioning SetupState = "provisioning"
	StateCompleted    SetupState = "completed"
	StateFailed       SetupState = "failed"
	StateSkipped      SetupState = "skipped"
)

// Status is a snapshot of the worker's view of the tables
type Status struct {
	State         SetupState           `json:"state"`
	LastError     string               `json:"last_error,omitempty"`
	TablesCreated []string             `json:"tables_created"`
	Tables        []models.TableStatus `json:"tables"`
	LastChecked   time.Time            `json:"last_checked"`
	RetryCount    int                  `json:"retry_count"`
}

// StatusManager keeps the latest setup and monitoring results in memory
type StatusManager struct {
	mu     sync.RWMutex
	status Status
}

func NewStatusManager() *StatusManager {
	return &StatusManager{status: Status{State: StateIdle, TablesCreated: []string{}}}
}

func (sm *StatusManager) SetState(state SetupState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.status.State = state
	if state != StateFailed {
		sm.status.LastError = ""
	}
}

func (sm *StatusManager) MarkFailed(errorMsg string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.status.State = StateFailed
	sm.status.LastError = errorMsg
}

func (sm *StatusManager) AddTableCreated(tableName string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.status.TablesCreated = append(sm.status.TablesCreated, tableName)
}

func (sm *StatusManager) IncrementRetryCount() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.status.RetryCount++
	return sm.status.RetryCount
}

// UpdateTables records the result of a monitoring pass
func (sm *StatusManager) UpdateTables(tables []models.TableStatus) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.status.Tables = tables
	sm.status.LastChecked = time.Now().UTC()
}

// Snapshot returns a copy that is safe to hand out
func (sm *StatusManager) Snapshot() Status {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	out := sm.status
	out.TablesCreated = append([]string{}, sm.status.TablesCreated...)
	out.Tables = append([]models.TableStatus{}, sm.status.Tables...)
	return out
}

func (sm *StatusManager) IsSetupCompleted() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.status.State == StateCompleted
}
