package arena

import (
	"strings"
	"testing"
)

func TestScore_Classification(t *testing.T) {
	cases := []struct {
		name       string
		content    string
		wantAttack AttackType
		wantDamage int
	}{
		{
			name:       "data heavy argument",
			content:    "The study shows clear statistics: 73% of users prefer this approach.",
			wantAttack: LightningStrike,
			wantDamage: 30,
		},
		{
			name:       "creative analogy",
			content:    "Imagine a city where every road is a metaphor for choice.",
			wantAttack: FireSlash,
			wantDamage: 25,
		},
		{
			name:       "direct rebuttal",
			content:    "That claim is simply wrong. However, the opposite holds.",
			wantAttack: CounterAttack,
			wantDamage: 25,
		},
		{
			name:       "vague statement",
			content:    "This topic has many sides to consider.",
			wantAttack: WeakBlow,
			wantDamage: 10,
		},
		{
			name:       "empty content",
			content:    "",
			wantAttack: WeakBlow,
			wantDamage: 10,
		},
		{
			name:       "hedging drags the score down",
			content:    "Maybe this is right, or perhaps it could be something else entirely.",
			wantAttack: WeakBlow,
			wantDamage: 5,
		},
		{
			name:       "hedged data argument keeps its category",
			content:    "The data suggests an effect, but maybe the sample was too small.",
			wantAttack: LightningStrike,
			wantDamage: 30, // 10 + 20 + 15 (counter "but") - 10 hedge = 35, clamped
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attack, damage := Score(tc.content)
			if attack != tc.wantAttack {
				t.Fatalf("attack = %s, want %s", attack, tc.wantAttack)
			}
			if damage != tc.wantDamage {
				t.Fatalf("damage = %d, want %d", damage, tc.wantDamage)
			}
		})
	}
}

func TestScore_FirstMatchingRuleLabels(t *testing.T) {
	// Contains both data and creative keywords: the data rule has priority,
	// but both bonuses count toward damage.
	content := "Research proves it. Imagine the consequences otherwise."
	attack, damage := Score(content)
	if attack != LightningStrike {
		t.Fatalf("attack = %s, want %s", attack, LightningStrike)
	}
	if damage != maxDamage {
		t.Fatalf("damage = %d, want clamp at %d", damage, maxDamage)
	}
}

func TestScore_LengthBonuses(t *testing.T) {
	short := "An ordinary point about the matter at hand."
	long := short + strings.Repeat(" more detail on the matter,", 8) // > 200 chars
	veryLong := short + strings.Repeat(" more detail on the matter,", 20)

	_, base := Score(short)
	_, medium := Score(long)
	_, full := Score(veryLong)

	if medium != base+5 {
		t.Fatalf("medium length damage = %d, want %d", medium, base+5)
	}
	if full != base+10 {
		t.Fatalf("long length damage = %d, want %d", full, base+10)
	}
}

func TestScore_Bounds(t *testing.T) {
	inputs := []string{
		"",
		"maybe perhaps might could be i think probably",
		strings.Repeat("data evidence facts study research statistics imagine metaphor wrong however ", 20),
	}
	for _, in := range inputs {
		_, damage := Score(in)
		if damage < minDamage || damage > maxDamage {
			t.Fatalf("damage %d out of [%d, %d] for %q", damage, minDamage, maxDamage, in)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	content := "The evidence is clear, but imagine the alternative."
	a1, d1 := Score(content)
	a2, d2 := Score(content)
	if a1 != a2 || d1 != d2 {
		t.Fatalf("scoring not deterministic: (%s,%d) vs (%s,%d)", a1, d1, a2, d2)
	}
}
