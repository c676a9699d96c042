package arena

import (
	"context"
	"errors"
	"testing"
)

func TestReferee_ParsesVerdict(t *testing.T) {
	ref := NewReferee(&scriptedProvider{reply: `{"type": "FIRE_SLASH", "confidence": 0.85}`})

	got := ref.Analyze(context.Background(), "a fresh analogy", "topic")
	if got.Attack != FireSlash || got.Damage != 20 {
		t.Fatalf("analysis = %+v, want FIRE_SLASH/20", got)
	}
	if got.Confidence != 0.85 {
		t.Fatalf("confidence = %v, want 0.85", got.Confidence)
	}
}

func TestReferee_StripsMarkdownFences(t *testing.T) {
	ref := NewReferee(&scriptedProvider{reply: "```json\n{\"type\": \"LIGHTNING_STRIKE\", \"confidence\": 0.9}\n```"})

	got := ref.Analyze(context.Background(), "hard numbers", "topic")
	if got.Attack != LightningStrike || got.Damage != 30 {
		t.Fatalf("analysis = %+v, want LIGHTNING_STRIKE/30", got)
	}
}

func TestReferee_FailsClosed(t *testing.T) {
	cases := []struct {
		name     string
		provider *scriptedProvider
	}{
		{"transport error", &scriptedProvider{err: errors.New("gateway down")}},
		{"garbage output", &scriptedProvider{reply: "I think this argument is great!"}},
		{"unknown category", &scriptedProvider{reply: `{"type": "MEGA_PUNCH", "confidence": 1}`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewReferee(tc.provider).Analyze(context.Background(), "arg", "topic")
			if got.Attack != WeakBlow || got.Damage != 5 || got.Confidence != 0 {
				t.Fatalf("analysis = %+v, want weak blow default", got)
			}
		})
	}
}

func TestReferee_ClampsConfidence(t *testing.T) {
	ref := NewReferee(&scriptedProvider{reply: `{"type": "COUNTER_ATTACK", "confidence": 7.5}`})

	got := ref.Analyze(context.Background(), "arg", "topic")
	if got.Attack != CounterAttack {
		t.Fatalf("attack = %s, want COUNTER_ATTACK", got.Attack)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("out-of-range confidence should fall back to 0.5, got %v", got.Confidence)
	}
}
