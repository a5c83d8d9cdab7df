package domain

import "time"

// WorkerState is the consumer loop state of a judge worker
type WorkerState string

const (
	WorkerStateIdle          WorkerState = "IDLE"
	WorkerStateDequeuing     WorkerState = "DEQUEUING"
	WorkerStateJudging       WorkerState = "JUDGING"
	WorkerStatePersisting    WorkerState = "PERSISTING"
	WorkerStateErrorRecovery WorkerState = "ERROR_RECOVERY"
	WorkerStateStopped       WorkerState = "STOPPED"
)

// WorkerInfo represents information about a judge worker
type WorkerInfo struct {
	ID                  string      `json:"id"`
	Hostname            string      `json:"hostname"`
	State               WorkerState `json:"state"`
	CurrentSubmissionID *int64      `json:"current_submission_id,omitempty"`
	Processed           int64       `json:"processed"`
	Failed              int64       `json:"failed"`
	LastVerdict         *Verdict    `json:"last_verdict,omitempty"`
	StartedAt           time.Time   `json:"started_at"`
	LastHeartbeat       time.Time   `json:"last_heartbeat"`
	IsActive            bool        `json:"is_active"`
}
