package arena

import (
	"context"
	"errors"
	"testing"
)

func TestDetermineWinner_Labels(t *testing.T) {
	cases := []struct {
		name      string
		hpA, hpB  int
		wantSide  Side
		wantLabel string
	}{
		{"knockout", 80, 0, SideA, VictoryKnockout},
		{"dominant", 90, 30, SideA, VictoryDominant},
		{"clear", 70, 40, SideA, VictoryClear},
		{"close", 60, 55, SideA, VictoryClose},
		{"underdog takes it", 20, 45, SideB, VictoryClear},
		{"dead tie goes to side a", 50, 50, SideA, VictoryClose},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ps := []Participant{
				{ID: 1, Side: SideA, ModelName: "Alpha", HP: tc.hpA},
				{ID: 2, Side: SideB, ModelName: "Beta", HP: tc.hpB},
			}
			winner, _, label := DetermineWinner(ps)
			if winner.Side != tc.wantSide {
				t.Fatalf("winner side = %s, want %s", winner.Side, tc.wantSide)
			}
			if label != tc.wantLabel {
				t.Fatalf("label = %q, want %q", label, tc.wantLabel)
			}
		})
	}
}

func TestNarrate_FallsBackWhenModelFails(t *testing.T) {
	room := &Room{Topic: "topic", CurrentRound: 2}
	ps := []Participant{
		{ID: 1, Side: SideA, ModelName: "Alpha", HP: 70},
		{ID: 2, Side: SideB, ModelName: "Beta", HP: 40},
	}

	c := NewCommentator(&scriptedProvider{err: errors.New("gateway down")})
	got := c.Narrate(context.Background(), room, ps, nil)

	if got.Winner != "Alpha" || got.Loser != "Beta" {
		t.Fatalf("winner/loser = %q/%q", got.Winner, got.Loser)
	}
	if got.Summary == "" {
		t.Fatalf("summary must not be empty when the model fails")
	}
	if got.VictoryType != VictoryClear {
		t.Fatalf("victory = %q, want clear win", got.VictoryType)
	}
}

func TestNarrate_UsesModelSummary(t *testing.T) {
	room := &Room{Topic: "topic", CurrentRound: 1}
	ps := []Participant{
		{ID: 1, Side: SideA, ModelName: "Alpha", HP: 100},
		{ID: 2, Side: SideB, ModelName: "Beta", HP: 0},
	}
	attack := string(LightningStrike)
	msgs := []Message{{ParticipantID: 1, AttackType: &attack}}

	c := NewCommentator(&scriptedProvider{reply: "WHAT A FIGHT!"})
	got := c.Narrate(context.Background(), room, ps, msgs)

	if got.Summary != "WHAT A FIGHT!" {
		t.Fatalf("summary = %q", got.Summary)
	}
	if got.VictoryType != VictoryKnockout {
		t.Fatalf("victory = %q, want knockout", got.VictoryType)
	}
}
