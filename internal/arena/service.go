package arena

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/drossan/arena-ai/internal/ai"
	"github.com/drossan/arena-ai/internal/common"
)

// Presence tracks which viewer sessions are watching which room. A session
// watches at most one room at a time.
type Presence interface {
	Join(ctx context.Context, sessionID, roomID string) error
	Leave(ctx context.Context, sessionID string) error
	Count(ctx context.Context, roomID string) (int64, error)
}

// Config holds the battle rules and model routing for the orchestrator.
type Config struct {
	ProviderName    string // gateway serving fighter generations
	RefereeMode     string // "keyword" or "llm"
	RefereeModel    string
	CommentaryModel string
	TotalRounds     int
	MaxHP           int
}

// Service drives the battle state machine:
// scheduled -> debating -> (debating <-> voting)* -> finished.
type Service struct {
	repo     *Repo
	registry *ai.Registry
	presence Presence
	cfg      Config
}

func NewService(repo *Repo, registry *ai.Registry, presence Presence, cfg Config) *Service {
	if cfg.TotalRounds <= 0 {
		cfg.TotalRounds = 3
	}
	if cfg.MaxHP <= 0 {
		cfg.MaxHP = 100
	}
	if cfg.RefereeMode == "" {
		cfg.RefereeMode = "keyword"
	}
	return &Service{repo: repo, registry: registry, presence: presence, cfg: cfg}
}

// RoomDetail is a room with everything a viewer needs to render it.
type RoomDetail struct {
	Room         Room          `json:"room"`
	Participants []Participant `json:"participants"`
	Messages     []Message     `json:"messages,omitempty"`
	ViewerCount  int64         `json:"viewer_count"`
}

func (s *Service) CreateRoom(ctx context.Context, topic, modelA, modelB string, startTime time.Time, createdBy *uint64) (*RoomDetail, error) {
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}

	room := &Room{
		ID:          id,
		Topic:       topic,
		ModelA:      modelA,
		ModelB:      modelB,
		StartTime:   startTime,
		Status:      StatusScheduled,
		TotalRounds: s.cfg.TotalRounds,
		CreatedBy:   createdBy,
	}

	participants := []*Participant{
		{Side: SideA, ModelID: modelA, ModelName: ModelDisplayName(modelA), Color: ModelColor(modelA), HP: s.cfg.MaxHP, MaxHP: s.cfg.MaxHP},
		{Side: SideB, ModelID: modelB, ModelName: ModelDisplayName(modelB), Color: ModelColor(modelB), HP: s.cfg.MaxHP, MaxHP: s.cfg.MaxHP},
	}

	if err := s.repo.CreateRoomWithParticipants(ctx, room, participants); err != nil {
		return nil, err
	}

	detail := &RoomDetail{Room: *room}
	for _, p := range participants {
		detail.Participants = append(detail.Participants, *p)
	}
	return detail, nil
}

// GenerateTopic asks a model for a fresh debate topic. Models like to quote
// their answers; the quotes are stripped.
func (s *Service) GenerateTopic(ctx context.Context) (string, error) {
	provider, err := s.registry.Get(ctx, s.cfg.ProviderName, s.cfg.CommentaryModel)
	if err != nil {
		return "", err
	}

	raw, err := ai.Chat(ctx, provider, []ai.Message{
		{Role: "system", Content: topicSystemPrompt},
		{Role: "user", Content: topicUserPrompt},
	}, ai.Options{Temperature: 0.9, MaxTokens: 100})
	if err != nil {
		return "", err
	}

	topic := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'`))
	if topic == "" {
		return "", errors.New("model returned an empty topic")
	}
	return topic, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]RoomDetail, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]RoomDetail, 0, len(rooms))
	for _, room := range rooms {
		ps, err := s.repo.ListParticipants(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		count, err := s.presence.Count(ctx, room.ID)
		if err != nil {
			count = 0
		}
		details = append(details, RoomDetail{Room: room, Participants: ps, ViewerCount: count})
	}
	return details, nil
}

func (s *Service) GetRoomDetail(ctx context.Context, roomID string) (*RoomDetail, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	ps, err := s.repo.ListParticipants(ctx, roomID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}
	count, err := s.presence.Count(ctx, roomID)
	if err != nil {
		count = 0
	}
	return &RoomDetail{Room: *room, Participants: ps, Messages: msgs, ViewerCount: count}, nil
}

// StartBattle moves a scheduled room into debating at round 1, turn 1.
func (s *Service) StartBattle(ctx context.Context, roomID string) error {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Status != StatusScheduled {
		return ErrWrongStatus
	}
	return s.repo.UpdateRoomCAS(ctx, room.ID, room.Version, map[string]any{
		"status":        StatusDebating,
		"current_round": 1,
		"current_turn":  1,
	})
}

// StartDueRooms promotes every scheduled room whose start time has passed.
// Called by the server's scheduler tick.
func (s *Service) StartDueRooms(ctx context.Context, now time.Time) int {
	rooms, err := s.repo.ListRoomsByStatus(ctx, StatusScheduled)
	if err != nil {
		log.Printf("scheduler: list scheduled rooms: %v", err)
		return 0
	}

	started := 0
	for _, room := range rooms {
		if room.StartTime.After(now) {
			continue
		}
		err := s.repo.UpdateRoomCAS(ctx, room.ID, room.Version, map[string]any{
			"status":        StatusDebating,
			"current_round": 1,
			"current_turn":  1,
		})
		if err != nil {
			if !errors.Is(err, ErrTurnConflict) {
				log.Printf("scheduler: start room %s: %v", room.ID, err)
			}
			continue
		}
		started++
	}
	return started
}

// TurnResult is everything that happened in one executed turn.
type TurnResult struct {
	MessageID  uint64     `json:"message_id"`
	Content    string     `json:"content"`
	Attack     AttackType `json:"attack_type"`
	Damage     int        `json:"damage"`
	OpponentHP int        `json:"opponent_hp"`
	RoomStatus RoomStatus `json:"room_status"`
	Round      int        `json:"round"`
	Turn       int        `json:"turn"`
	NextTurn   int        `json:"next_turn"`
	Knockout   bool       `json:"knockout"`
}

// ExecuteTurn runs the current due turn to completion: claim, generate,
// score, apply damage, finalize the message and advance the state machine.
func (s *Service) ExecuteTurn(ctx context.Context, roomID string) (*TurnResult, error) {
	return s.executeTurn(ctx, roomID, nil)
}

// ExecuteTurnStream is ExecuteTurn with the generated argument forwarded
// chunk by chunk. Both channels close when the turn resolves; exactly one of
// result or errs delivers.
func (s *Service) ExecuteTurnStream(ctx context.Context, roomID string) (<-chan string, <-chan *TurnResult, <-chan error) {
	chunks := make(chan string, 16)
	results := make(chan *TurnResult, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(results)
		defer close(errs)

		res, err := s.executeTurn(ctx, roomID, func(delta string) {
			select {
			case chunks <- delta:
			case <-ctx.Done():
			}
		})
		if err != nil {
			errs <- err
			return
		}
		results <- res
	}()

	return chunks, results, errs
}

func (s *Service) executeTurn(ctx context.Context, roomID string, onChunk func(string)) (*TurnResult, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != StatusDebating {
		return nil, ErrWrongStatus
	}

	participants, err := s.repo.ListParticipants(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}

	round := room.CurrentRound
	turn := room.CurrentTurn

	// Fast-path claim: two executors holding the same snapshot race here and
	// one loses cheaply. The unique (room, turn) message index below is the
	// hard gate; the commit at the end is keyed on the turn, not the version.
	if err := s.repo.UpdateRoomCAS(ctx, room.ID, room.Version, map[string]any{}); err != nil {
		return nil, err
	}

	actor, opponent := participants[0], participants[1]
	if ActorSide(turn) != actor.Side {
		actor, opponent = opponent, actor
	}

	roundMessages, err := s.repo.ListRoundMessages(ctx, roomID, round)
	if err != nil {
		return nil, err
	}

	// Placeholder row; the unique (room, turn) index makes this the real
	// claim, so a rival executor for the same turn dies right here.
	msg := &Message{
		RoomID:        roomID,
		ParticipantID: actor.ID,
		Content:       "",
		RoundNumber:   round,
		TurnNumber:    turn,
		IsStreaming:   true,
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	content, genErr := s.generateArgument(ctx, room, actor, participants, roundMessages, onChunk)
	if genErr != nil && strings.TrimSpace(content) == "" {
		// Nothing captured; leave the turn unresolved for a later retry.
		if delErr := s.repo.DeleteMessage(ctx, msg.ID); delErr != nil {
			log.Printf("turn %s/%d: failed to remove empty message: %v", roomID, turn, delErr)
		}
		return nil, genErr
	}
	if genErr != nil {
		// Keep the partial argument: it was heard by the crowd, it counts.
		log.Printf("turn %s/%d: generation cut short, scoring partial content: %v", roomID, turn, genErr)
	}

	attack, damage := s.scoreArgument(ctx, content, room.Topic)

	newHP := opponent.HP - damage
	if newHP < 0 {
		newHP = 0
	}
	if err := s.repo.UpdateParticipantHP(ctx, opponent.ID, newHP); err != nil {
		return nil, err
	}

	if err := s.repo.FinalizeMessage(ctx, msg.ID, content, attack, damage); err != nil {
		return nil, err
	}

	// Advance the state machine.
	nextTurn := turn + 1
	knockout := newHP <= 0

	updates := map[string]any{"current_turn": nextTurn}
	nextStatus := StatusDebating
	switch {
	case knockout:
		nextStatus = StatusFinished
	case IsRoundComplete(round, nextTurn):
		if round >= room.TotalRounds {
			nextStatus = StatusFinished
		} else {
			nextStatus = StatusVoting
		}
	}
	updates["status"] = nextStatus

	if err := s.repo.AdvanceTurn(ctx, room.ID, turn, updates); err != nil {
		return nil, err
	}

	return &TurnResult{
		MessageID:  msg.ID,
		Content:    content,
		Attack:     attack,
		Damage:     damage,
		OpponentHP: newHP,
		RoomStatus: nextStatus,
		Round:      round,
		Turn:       turn,
		NextTurn:   nextTurn,
		Knockout:   knockout,
	}, nil
}

func (s *Service) generateArgument(ctx context.Context, room *Room, actor Participant, participants []Participant, roundMessages []Message, onChunk func(string)) (string, error) {
	provider, err := s.registry.Get(ctx, s.cfg.ProviderName, actor.ModelID)
	if err != nil {
		return "", err
	}

	messages := fighterMessages(room, actor, participants, roundMessages)

	if onChunk != nil {
		if sp, ok := provider.(ai.StreamProvider); ok {
			pChunks, pErrs := sp.StreamChat(ctx, messages)
			var b strings.Builder
			for c := range pChunks {
				b.WriteString(c)
				onChunk(c)
			}
			select {
			case err := <-pErrs:
				if err != nil {
					return b.String(), err
				}
			default:
			}
			return b.String(), nil
		}
	}

	return ai.Chat(ctx, provider, messages, ai.Options{Temperature: 0.8, MaxTokens: 500})
}

// scoreArgument routes to the configured referee. Both paths are fail-safe:
// scoring never aborts a turn.
func (s *Service) scoreArgument(ctx context.Context, content, topic string) (AttackType, int) {
	if s.cfg.RefereeMode == "llm" {
		provider, err := s.registry.Get(ctx, s.cfg.ProviderName, s.cfg.RefereeModel)
		if err != nil {
			log.Printf("referee: provider unavailable, falling back to keyword scoring: %v", err)
			return Score(content)
		}
		analysis := NewReferee(provider).Analyze(ctx, content, topic)
		return analysis.Attack, analysis.Damage
	}
	return Score(content)
}

// CastVote records one viewer's pick for the room's current voting round.
func (s *Service) CastVote(ctx context.Context, roomID string, participantID uint64, sessionID string, userID *uint64) (*Vote, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != StatusVoting {
		return nil, ErrWrongStatus
	}

	participants, err := s.repo.ListParticipants(ctx, roomID)
	if err != nil {
		return nil, err
	}
	valid := false
	for _, p := range participants {
		if p.ID == participantID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInsufficientParticipants
	}

	vote := &Vote{
		RoomID:        roomID,
		RoundNumber:   room.CurrentRound,
		ParticipantID: participantID,
		SessionID:     sessionID,
		UserID:        userID,
	}
	if err := s.repo.InsertVote(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

// RoundVotes returns the per-participant counts for one round.
func (s *Service) RoundVotes(ctx context.Context, roomID string, round int) (total int, byParticipant map[uint64]int, err error) {
	votes, err := s.repo.ListVotes(ctx, roomID, round)
	if err != nil {
		return 0, nil, err
	}
	byParticipant = make(map[uint64]int)
	for _, v := range votes {
		byParticipant[v.ParticipantID]++
	}
	return len(votes), byParticipant, nil
}

func (s *Service) HasVoted(ctx context.Context, roomID string, round int, sessionID string) (bool, error) {
	return s.repo.HasVoted(ctx, roomID, round, sessionID)
}

// VoteOutcome is the result of closing a voting phase.
type VoteOutcome struct {
	NoVotes    bool         `json:"no_votes"`
	Tally      *TallyResult `json:"tally,omitempty"`
	RoomStatus RoomStatus   `json:"room_status"`
	NextRound  int          `json:"next_round,omitempty"`
	NextTurn   int          `json:"next_turn,omitempty"`
}

// EndVoting closes the current voting phase: applies the tally's bonus
// damage, then either opens the next round or finishes the battle.
func (s *Service) EndVoting(ctx context.Context, roomID string) (*VoteOutcome, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != StatusVoting {
		return nil, ErrWrongStatus
	}

	participants, err := s.repo.ListParticipants(ctx, roomID)
	if err != nil {
		return nil, err
	}

	votes, err := s.repo.ListVotes(ctx, roomID, room.CurrentRound)
	if err != nil {
		return nil, err
	}

	// Tally is pure; no state is touched until the round is committed below,
	// so a caller that loses the commit race applies no damage at all.
	outcome := &VoteOutcome{}
	knockout := false
	var loserID uint64
	loserHP := 0

	tally, err := Tally(participants, votes)
	switch {
	case errors.Is(err, ErrNoVotes):
		outcome.NoVotes = true
	case err != nil:
		return nil, err
	default:
		loserHP = tally.Loser.HP - tally.Damage
		if loserHP < 0 {
			loserHP = 0
		}
		loserID = tally.Loser.ID
		tally.Loser.HP = loserHP
		knockout = loserHP <= 0
		outcome.Tally = tally
	}

	updates := map[string]any{}
	if knockout || room.CurrentRound >= room.TotalRounds {
		updates["status"] = StatusFinished
		outcome.RoomStatus = StatusFinished
	} else {
		nextRound := room.CurrentRound + 1
		nextTurn := FirstTurnOfRound(nextRound)
		updates["status"] = StatusDebating
		updates["current_round"] = nextRound
		updates["current_turn"] = nextTurn
		outcome.RoomStatus = StatusDebating
		outcome.NextRound = nextRound
		outcome.NextTurn = nextTurn
	}

	if err := s.repo.CloseVotingRound(ctx, room.ID, room.Version, updates, loserID, loserHP); err != nil {
		return nil, err
	}
	return outcome, nil
}

// BattleCommentary produces the post-battle narrative for a finished room.
func (s *Service) BattleCommentary(ctx context.Context, roomID string) (*Commentary, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != StatusFinished {
		return nil, ErrWrongStatus
	}

	participants, err := s.repo.ListParticipants(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}

	messages, err := s.repo.ListMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}

	provider, err := s.registry.Get(ctx, s.cfg.ProviderName, s.cfg.CommentaryModel)
	if err != nil {
		return nil, err
	}

	commentary := NewCommentator(provider).Narrate(ctx, room, participants, messages)
	return &commentary, nil
}

// Viewers

func (s *Service) JoinRoom(ctx context.Context, sessionID, roomID string) error {
	if _, err := s.repo.GetRoom(ctx, roomID); err != nil {
		return err
	}
	return s.presence.Join(ctx, sessionID, roomID)
}

func (s *Service) LeaveRoom(ctx context.Context, sessionID string) error {
	return s.presence.Leave(ctx, sessionID)
}

// Async turn jobs

func (s *Service) CreateTurnJob(ctx context.Context, roomID string) (*TurnJob, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != StatusDebating {
		return nil, ErrWrongStatus
	}

	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	job := &TurnJob{ID: id, RoomID: roomID, Status: JobQueued}
	if err := s.repo.CreateTurnJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Service) GetTurnJob(ctx context.Context, jobID string) (*TurnJob, error) {
	return s.repo.GetTurnJob(ctx, jobID)
}

// ExecuteTurnJob is the worker entrypoint: claim the job, run the turn,
// record the outcome.
func (s *Service) ExecuteTurnJob(ctx context.Context, jobID string) error {
	_ = s.repo.UpdateTurnJobRunning(ctx, jobID)

	job, err := s.repo.GetTurnJob(ctx, jobID)
	if err != nil {
		return err
	}

	res, err := s.ExecuteTurn(ctx, job.RoomID)
	if err != nil {
		_ = s.repo.MarkTurnJobFailed(ctx, jobID, err.Error())
		return err
	}

	return s.repo.MarkTurnJobSucceeded(ctx, jobID, res.MessageID)
}
