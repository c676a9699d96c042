package arena

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/drossan/arena-ai/internal/ai"
)

// Victory margin labels, widest first.
const (
	VictoryKnockout = "A DEVASTATING KNOCKOUT!"
	VictoryDominant = "A DOMINANT VICTORY!"
	VictoryClear    = "A CLEAR WIN!"
	VictoryClose    = "A CLOSE CALL!"
)

type Commentary struct {
	Winner      string `json:"winner"`
	Loser       string `json:"loser"`
	WinnerHP    int    `json:"winner_hp"`
	LoserHP     int    `json:"loser_hp"`
	VictoryType string `json:"victory_type"`
	Summary     string `json:"summary"`
}

// DetermineWinner ranks the two fighters by remaining hp. Ties go to side A.
func DetermineWinner(participants []Participant) (winner, loser Participant, label string) {
	sorted := append([]Participant(nil), participants...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].HP != sorted[j].HP {
			return sorted[i].HP > sorted[j].HP
		}
		return sorted[i].Side == SideA
	})

	winner, loser = sorted[0], sorted[1]
	gap := winner.HP - loser.HP

	switch {
	case loser.HP <= 0:
		label = VictoryKnockout
	case gap > 50:
		label = VictoryDominant
	case gap > 20:
		label = VictoryClear
	default:
		label = VictoryClose
	}
	return winner, loser, label
}

// Commentator narrates a finished battle.
type Commentator struct {
	provider ai.Provider
}

func NewCommentator(provider ai.Provider) *Commentator {
	return &Commentator{provider: provider}
}

const commentatorSystemPrompt = `You are the arena commentator for AI debate battles.

Your style: Dramatic, energetic, and engaging. Like a fighting-game announcer meets a tech debate host.

Guidelines:
- Use dramatic language ("CRUSHING BLOW!", "MASTERFUL COUNTER!")
- Highlight key moments and turning points
- Mention the crowd's reaction
- Keep it under 200 words
- End with a memorable closing line`

const fallbackSummary = "An epic battle took place in the Arena!"

// Narrate generates the post-battle summary. The winner computation is
// deterministic; only the narrative text comes from the model, and a canned
// line stands in if the model call fails.
func (c *Commentator) Narrate(ctx context.Context, room *Room, participants []Participant, messages []Message) Commentary {
	winner, loser, label := DetermineWinner(participants)

	var moments strings.Builder
	for _, m := range messages {
		if m.AttackType == nil {
			continue
		}
		name := ""
		for _, p := range participants {
			if p.ID == m.ParticipantID {
				name = p.ModelName
			}
		}
		fmt.Fprintf(&moments, "- %s by %s\n", *m.AttackType, name)
	}

	prompt := fmt.Sprintf(`Generate an epic battle summary for this match:

TOPIC: %q
FINAL SCORE: %s (%d HP) vs %s (%d HP)
ROUNDS: %d

Key moments:
%s
Make it DRAMATIC!`,
		room.Topic, winner.ModelName, winner.HP, loser.ModelName, loser.HP, room.CurrentRound, moments.String())

	summary, err := ai.Chat(ctx, c.provider, []ai.Message{
		{Role: "system", Content: commentatorSystemPrompt},
		{Role: "user", Content: prompt},
	}, ai.Options{Temperature: 0.9, MaxTokens: 300})
	if err != nil || strings.TrimSpace(summary) == "" {
		if err != nil {
			log.Printf("commentator: summary generation failed: %v", err)
		}
		summary = fallbackSummary
	}

	return Commentary{
		Winner:      winner.ModelName,
		Loser:       loser.ModelName,
		WinnerHP:    winner.HP,
		LoserHP:     loser.HP,
		VictoryType: label,
		Summary:     summary,
	}
}
