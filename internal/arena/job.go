package arena

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// TurnJob tracks one asynchronous turn execution request. The worker claims
// it, runs the turn and records the resulting message or the failure.
type TurnJob struct {
	ID string `gorm:"primaryKey;size:26" json:"id"` // ULID

	RoomID string `gorm:"size:26;index;not null" json:"room_id"`

	Status JobStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	// Filled when succeeded
	ResultMessageID *uint64 `gorm:"index" json:"result_message_id,omitempty"`

	// Filled when failed
	Error *string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TurnJob) TableName() string { return "turn_jobs" }
