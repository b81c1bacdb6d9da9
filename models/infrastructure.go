package models

import "time"

// TableStatus is the last observed state of a provisioned table
type TableStatus struct {
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	ItemCount  int64     `json:"item_count"`
	IndexCount int       `json:"index_count"`
	CheckedAt  time.Time `json:"checked_at"`
	Error      string    `json:"error,omitempty"`
}
