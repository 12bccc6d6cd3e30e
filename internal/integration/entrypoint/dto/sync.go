package dto

import (
	"time"

	"github.com/finance-tracker/txcache/internal/application/usecase/datasync"
)

// SyncStatusResponse represents the state of the local transaction cache.
type SyncStatusResponse struct {
	State          string     `json:"state"`
	Identity       string     `json:"identity,omitempty"`
	Count          int        `json:"count"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
	WindowStartDay string     `json:"window_start_day,omitempty"`
}

// ToSyncStatusResponse converts a controller status to a SyncStatusResponse DTO.
func ToSyncStatusResponse(status datasync.Status) SyncStatusResponse {
	response := SyncStatusResponse{
		State:          status.State.String(),
		Identity:       status.Identity,
		Count:          status.Count,
		WindowStartDay: status.Meta.WindowStartDay,
	}
	if !status.Meta.LastSyncAt.IsZero() {
		lastSync := status.Meta.LastSyncAt.UTC()
		response.LastSyncAt = &lastSync
	}
	return response
}
