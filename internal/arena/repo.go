package arena

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Rooms

func (r *Repo) CreateRoomWithParticipants(ctx context.Context, room *Room, participants []*Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		for _, p := range participants {
			p.RoomID = room.ID
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repo) GetRoom(ctx context.Context, id string) (*Room, error) {
	var room Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *Repo) ListRooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := r.db.WithContext(ctx).Order("start_time ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *Repo) ListRoomsByStatus(ctx context.Context, status RoomStatus) ([]Room, error) {
	var rooms []Room
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("start_time ASC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// UpdateRoomCAS applies updates only if the room still carries the version
// the caller read. Zero affected rows means another writer got there first.
func (r *Repo) UpdateRoomCAS(ctx context.Context, id string, version uint64, updates map[string]any) error {
	updates["version"] = version + 1
	res := r.db.WithContext(ctx).Model(&Room{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTurnConflict
	}
	return nil
}

// Participants

func (r *Repo) ListParticipants(ctx context.Context, roomID string) ([]Participant, error) {
	var ps []Participant
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("side ASC").
		Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *Repo) UpdateParticipantHP(ctx context.Context, id uint64, hp int) error {
	return r.db.WithContext(ctx).Model(&Participant{}).
		Where("id = ?", id).
		Update("hp", hp).Error
}

// AdvanceTurn commits an executed turn's outcome. It is keyed on the turn
// itself rather than the version token, so a rival's failed claim cannot
// invalidate the one executor holding the turn's message row.
func (r *Repo) AdvanceTurn(ctx context.Context, roomID string, turn int, updates map[string]any) error {
	updates["version"] = gorm.Expr("version + 1")
	res := r.db.WithContext(ctx).Model(&Room{}).
		Where("id = ? AND current_turn = ? AND status = ?", roomID, turn, StatusDebating).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTurnConflict
	}
	return nil
}

// CloseVotingRound commits the voting transition and the tally's bonus
// damage in one transaction. The version CAS runs first, so a caller that
// lost the race never touches hp.
func (r *Repo) CloseVotingRound(ctx context.Context, roomID string, version uint64, updates map[string]any, loserID uint64, loserHP int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates["version"] = version + 1
		res := tx.Model(&Room{}).
			Where("id = ? AND version = ?", roomID, version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTurnConflict
		}
		if loserID == 0 {
			return nil
		}
		return tx.Model(&Participant{}).
			Where("id = ?", loserID).
			Update("hp", loserHP).Error
	})
}

// Messages

// InsertMessage stakes out a turn's message row. The unique (room, turn)
// index is the hard guard against double execution; a duplicate insert
// reports ErrTurnConflict.
func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	err := r.db.WithContext(ctx).Create(m).Error
	if err == nil {
		return nil
	}
	var count int64
	if checkErr := r.db.WithContext(ctx).Model(&Message{}).
		Where("room_id = ? AND turn_number = ?", m.RoomID, m.TurnNumber).
		Count(&count).Error; checkErr == nil && count > 0 {
		return ErrTurnConflict
	}
	return err
}

func (r *Repo) FinalizeMessage(ctx context.Context, id uint64, content string, attackType AttackType, damage int) error {
	at := string(attackType)
	return r.db.WithContext(ctx).Model(&Message{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":      content,
			"attack_type":  at,
			"damage":       damage,
			"is_streaming": false,
		}).Error
}

func (r *Repo) DeleteMessage(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Message{}, "id = ?", id).Error
}

func (r *Repo) ListMessages(ctx context.Context, roomID string) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("turn_number ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *Repo) ListRoundMessages(ctx context.Context, roomID string, round int) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND round_number = ?", roomID, round).
		Order("turn_number ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// Votes

// InsertVote relies on the unique (room, round, session) index; a duplicate
// insert reports ErrAlreadyVoted.
func (r *Repo) InsertVote(ctx context.Context, v *Vote) error {
	err := r.db.WithContext(ctx).Create(v).Error
	if err == nil {
		return nil
	}
	var count int64
	if checkErr := r.db.WithContext(ctx).Model(&Vote{}).
		Where("room_id = ? AND round_number = ? AND session_id = ?", v.RoomID, v.RoundNumber, v.SessionID).
		Count(&count).Error; checkErr == nil && count > 0 {
		return ErrAlreadyVoted
	}
	return err
}

func (r *Repo) ListVotes(ctx context.Context, roomID string, round int) ([]Vote, error) {
	var votes []Vote
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND round_number = ?", roomID, round).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *Repo) HasVoted(ctx context.Context, roomID string, round int, sessionID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Vote{}).
		Where("room_id = ? AND round_number = ? AND session_id = ?", roomID, round, sessionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Turn jobs

func (r *Repo) CreateTurnJob(ctx context.Context, job *TurnJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetTurnJob(ctx context.Context, id string) (*TurnJob, error) {
	var j TurnJob
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) UpdateTurnJobRunning(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&TurnJob{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning).Error
}

func (r *Repo) MarkTurnJobSucceeded(ctx context.Context, id string, messageID uint64) error {
	return r.db.WithContext(ctx).Model(&TurnJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            JobSucceeded,
			"result_message_id": messageID,
			"error":             nil,
		}).Error
}

func (r *Repo) MarkTurnJobFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&TurnJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            JobFailed,
			"error":             errMsg,
			"result_message_id": nil,
		}).Error
}
