package arena

import "time"

type RoomStatus string

const (
	StatusScheduled RoomStatus = "scheduled"
	StatusDebating  RoomStatus = "debating"
	StatusVoting    RoomStatus = "voting"
	StatusFinished  RoomStatus = "finished"
)

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Room is one battle between two model-backed fighters.
//
// Version is an optimistic-concurrency token: every state transition goes
// through a compare-and-swap on it, so two pollers racing on the same turn
// cannot both advance the room.
type Room struct {
	ID           string     `gorm:"primaryKey;size:26" json:"id"` // ULID
	Topic        string     `gorm:"type:text;not null" json:"topic"`
	ModelA       string     `gorm:"type:varchar(64);not null" json:"model_a"`
	ModelB       string     `gorm:"type:varchar(64);not null" json:"model_b"`
	StartTime    time.Time  `gorm:"index;not null" json:"start_time"`
	Status       RoomStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	CurrentRound int        `gorm:"not null;default:0" json:"current_round"`
	CurrentTurn  int        `gorm:"not null;default:0" json:"current_turn"`
	TotalRounds  int        `gorm:"not null" json:"total_rounds"`
	Version      uint64     `gorm:"not null;default:0" json:"-"`
	CreatedBy    *uint64    `gorm:"index" json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Room) TableName() string { return "rooms" }

// Participant is one of exactly two fighters in a room. Side assignment is
// immutable after creation; hp stays within [0, MaxHP].
type Participant struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    string `gorm:"size:26;not null;index;index:uniq_room_side,unique,priority:1" json:"room_id"`
	Side      Side   `gorm:"type:varchar(1);not null;index:uniq_room_side,unique,priority:2" json:"side"`
	ModelID   string `gorm:"type:varchar(64);not null" json:"model_id"`
	ModelName string `gorm:"type:varchar(64);not null" json:"model_name"`
	Color     string `gorm:"type:varchar(16);not null" json:"color"`
	HP        int    `gorm:"not null" json:"hp"`
	MaxHP     int    `gorm:"not null" json:"max_hp"`
}

func (Participant) TableName() string { return "participants" }

// Message is one fighter's argument for one turn. The unique (room, turn)
// index is the hard guard against double-executing a turn. Once IsStreaming
// flips to false the row is finalized.
type Message struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID        string    `gorm:"size:26;not null;index;index:uniq_room_turn,unique,priority:1" json:"room_id"`
	ParticipantID uint64    `gorm:"not null;index" json:"participant_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	RoundNumber   int       `gorm:"not null;index" json:"round_number"`
	TurnNumber    int       `gorm:"not null;index:uniq_room_turn,unique,priority:2" json:"turn_number"`
	AttackType    *string   `gorm:"type:varchar(32)" json:"attack_type,omitempty"`
	Damage        *int      `json:"damage,omitempty"`
	IsStreaming   bool      `gorm:"not null" json:"is_streaming"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Message) TableName() string { return "messages" }

// Vote is one viewer session's pick for a round. The unique
// (room, round, session) index enforces one vote per session per round.
type Vote struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID        string    `gorm:"size:26;not null;index:idx_votes_room_round,priority:1;index:uniq_vote_session,unique,priority:1" json:"room_id"`
	RoundNumber   int       `gorm:"not null;index:idx_votes_room_round,priority:2;index:uniq_vote_session,unique,priority:2" json:"round_number"`
	ParticipantID uint64    `gorm:"not null;index" json:"participant_id"`
	SessionID     string    `gorm:"type:varchar(64);not null;index:uniq_vote_session,unique,priority:3" json:"-"`
	UserID        *uint64   `json:"user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Vote) TableName() string { return "votes" }

// Known fighter models get a display name and arena color; anything else
// falls back to its raw id and grey.
var modelNames = map[string]string{
	"openai/gpt-4o":               "GPT-4o",
	"anthropic/claude-3.5-sonnet": "Claude 3.5 Sonnet",
	"google/gemini-pro":           "Gemini Pro",
	"meta-llama/llama-3-70b":      "Llama 3",
	"mistralai/mistral-large":     "Mistral",
}

var modelColors = map[string]string{
	"openai/gpt-4o":               "#00f0ff",
	"anthropic/claude-3.5-sonnet": "#b026ff",
	"google/gemini-pro":           "#39ff14",
	"meta-llama/llama-3-70b":      "#ff6b35",
	"mistralai/mistral-large":     "#f0f0f0",
}

func ModelDisplayName(modelID string) string {
	if n, ok := modelNames[modelID]; ok {
		return n
	}
	return modelID
}

func ModelColor(modelID string) string {
	if c, ok := modelColors[modelID]; ok {
		return c
	}
	return "#888888"
}
