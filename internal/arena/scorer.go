package arena

import "strings"

type AttackType string

const (
	LightningStrike AttackType = "LIGHTNING_STRIKE" // specific data, facts, sources
	FireSlash       AttackType = "FIRE_SLASH"       // creative analogy, original thinking
	CounterAttack   AttackType = "COUNTER_ATTACK"   // direct rebuttal
	WeakBlow        AttackType = "WEAK_BLOW"        // vague or generic
)

const (
	baseDamage = 10
	minDamage  = 5
	maxDamage  = 30
)

// scoreRule pairs a keyword predicate with the attack category it labels and
// the damage bonus it adds. Rules are evaluated in priority order: the first
// matching rule decides the category, but every matching rule's bonus counts.
type scoreRule struct {
	keywords []string
	attack   AttackType
	bonus    int
}

var scoreRules = []scoreRule{
	{keywords: []string{"data", "evidence", "facts", "study", "research", "statistics"}, attack: LightningStrike, bonus: 20},
	{keywords: []string{"metaphor", "analogy", "imagine", "creative", "innovative"}, attack: FireSlash, bonus: 15},
	{keywords: []string{"false", "wrong", "incorrect", "however", "but", "actually", "not true"}, attack: CounterAttack, bonus: 15},
}

var hedgeWords = []string{"maybe", "perhaps", "might", "could be", "i think", "probably"}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Score classifies an argument and computes its damage. It is deterministic,
// never fails, and the result is always within [minDamage, maxDamage].
// Empty or unmatched text scores as a WEAK_BLOW at base damage.
func Score(content string) (AttackType, int) {
	text := strings.ToLower(content)

	score := baseDamage
	attack := WeakBlow

	for _, rule := range scoreRules {
		if !containsAny(text, rule.keywords) {
			continue
		}
		score += rule.bonus
		if attack == WeakBlow {
			attack = rule.attack
		}
	}

	if containsAny(text, hedgeWords) {
		score -= 10
		if score < minDamage {
			score = minDamage
		}
	}

	if len(content) > 200 {
		score += 5
	}
	if len(content) > 500 {
		score += 5
	}

	if score > maxDamage {
		score = maxDamage
	}
	if score < minDamage {
		score = minDamage
	}
	return attack, score
}
