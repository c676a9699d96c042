package arena

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/drossan/arena-ai/internal/ai"
)

// Fixed damage table for the LLM referee. The keyword scorer computes a
// graded value instead; both stay within [5, 30].
var attackDamage = map[AttackType]int{
	LightningStrike: 30,
	FireSlash:       20,
	CounterAttack:   15,
	WeakBlow:        5,
}

// RefereeAnalysis is a classification of one argument.
type RefereeAnalysis struct {
	Attack     AttackType `json:"attack_type"`
	Damage     int        `json:"damage"`
	Confidence float64    `json:"confidence"`
}

// Referee classifies arguments with a cheap classifier model. Any failure
// resolves to WEAK_BLOW with confidence 0; Analyze never returns an error.
type Referee struct {
	provider ai.Provider
}

func NewReferee(provider ai.Provider) *Referee {
	return &Referee{provider: provider}
}

const refereeSystemPrompt = `You are the arena referee. Classify debate arguments.

Classification criteria:
- LIGHTNING_STRIKE: Argument uses specific data, facts, or sources. High impact.
- FIRE_SLASH: Creative analogy, unique perspective, or original thinking. Medium-high impact.
- COUNTER_ATTACK: Direct rebuttal of opponent's point. Medium impact.
- WEAK_BLOW: Vague, generic, or repetitive content. Low impact.

Respond ONLY with a JSON object in this exact format:
{"type": "LIGHTNING_STRIKE|FIRE_SLASH|COUNTER_ATTACK|WEAK_BLOW", "confidence": 0.0-1.0}`

type refereeVerdict struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

func weakBlowDefault() RefereeAnalysis {
	return RefereeAnalysis{Attack: WeakBlow, Damage: attackDamage[WeakBlow], Confidence: 0}
}

// Analyze asks the classifier model for a verdict. Malformed output, unknown
// categories and transport errors all fail closed to the default.
func (r *Referee) Analyze(ctx context.Context, argument, topic string) RefereeAnalysis {
	userPrompt := fmt.Sprintf("Analyze this argument in a debate about: %q\n\nARGUMENT:\n%q\n\nRespond with JSON only.", topic, argument)

	raw, err := ai.Chat(ctx, r.provider, []ai.Message{
		{Role: "system", Content: refereeSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, ai.Options{Temperature: 0.3, MaxTokens: 200})
	if err != nil {
		log.Printf("referee: analysis failed, defaulting to weak blow: %v", err)
		return weakBlowDefault()
	}

	// Models like to wrap JSON in markdown fences.
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var verdict refereeVerdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		log.Printf("referee: unparseable verdict %q: %v", raw, err)
		return weakBlowDefault()
	}

	attack := AttackType(verdict.Type)
	damage, ok := attackDamage[attack]
	if !ok {
		return weakBlowDefault()
	}

	confidence := verdict.Confidence
	if confidence < 0 || confidence > 1 {
		confidence = 0.5
	}

	return RefereeAnalysis{Attack: attack, Damage: damage, Confidence: confidence}
}
