package arena

import "math"

// TallyResult is the outcome of a round's voting phase.
type TallyResult struct {
	Winner      Participant `json:"winner"`
	Loser       Participant `json:"loser"`
	WinnerVotes int         `json:"winner_votes"`
	LoserVotes  int         `json:"loser_votes"`
	TotalVotes  int         `json:"total_votes"`
	Damage      int         `json:"damage"`
}

// Tally aggregates a round's votes into bonus damage against the loser.
//
// Zero votes returns ErrNoVotes so callers can advance the battle without
// applying damage. Ties break deterministically: side A wins.
// The damage formula maps the loser's vote share to 5-15 HP; a loser with
// more crowd support takes less damage.
func Tally(participants []Participant, votes []Vote) (*TallyResult, error) {
	if len(votes) == 0 {
		return nil, ErrNoVotes
	}
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}

	counts := make(map[uint64]int, len(participants))
	for _, v := range votes {
		counts[v.ParticipantID]++
	}

	a, b := participants[0], participants[1]
	if a.Side != SideA {
		a, b = b, a
	}

	winner, loser := a, b
	if counts[b.ID] > counts[a.ID] {
		winner, loser = b, a
	}

	winnerVotes := counts[winner.ID]
	loserVotes := counts[loser.ID]
	total := len(votes)

	loserPct := float64(loserVotes) / float64(total)
	damage := int(math.Round(5 + (1-loserPct)*10))

	return &TallyResult{
		Winner:      winner,
		Loser:       loser,
		WinnerVotes: winnerVotes,
		LoserVotes:  loserVotes,
		TotalVotes:  total,
		Damage:      damage,
	}, nil
}
