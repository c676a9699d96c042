package arena

import "testing"

func TestActorSide_Alternates(t *testing.T) {
	cases := []struct {
		turn int
		want Side
	}{
		{1, SideA},
		{2, SideB},
		{3, SideA},
		{4, SideB},
		{5, SideA},
		{6, SideB},
	}
	for _, tc := range cases {
		if got := ActorSide(tc.turn); got != tc.want {
			t.Fatalf("ActorSide(%d) = %s, want %s", tc.turn, got, tc.want)
		}
	}
}

func TestIsRoundComplete(t *testing.T) {
	cases := []struct {
		round, turn int
		want        bool
	}{
		{1, 1, false}, // first turn pending
		{1, 2, false}, // second turn pending
		{1, 3, true},  // both turns done
		{2, 4, false},
		{2, 5, true},
		{3, 6, false},
		{3, 7, true},
	}
	for _, tc := range cases {
		if got := IsRoundComplete(tc.round, tc.turn); got != tc.want {
			t.Fatalf("IsRoundComplete(%d, %d) = %v, want %v", tc.round, tc.turn, got, tc.want)
		}
	}
}

func TestIsBattleComplete(t *testing.T) {
	if IsBattleComplete(2, 5, 3) {
		t.Fatalf("round 2 of 3 should not end the battle")
	}
	if IsBattleComplete(3, 6, 3) {
		t.Fatalf("final round with a turn pending should not end the battle")
	}
	if !IsBattleComplete(3, 7, 3) {
		t.Fatalf("final round fully played should end the battle")
	}
}

func TestFirstTurnOfRound(t *testing.T) {
	for round, want := range map[int]int{1: 1, 2: 3, 3: 5, 4: 7} {
		if got := FirstTurnOfRound(round); got != want {
			t.Fatalf("FirstTurnOfRound(%d) = %d, want %d", round, got, want)
		}
	}
}
