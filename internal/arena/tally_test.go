package arena

import (
	"errors"
	"testing"
)

func twoFighters() []Participant {
	return []Participant{
		{ID: 1, RoomID: "r", Side: SideA, HP: 70, MaxHP: 100},
		{ID: 2, RoomID: "r", Side: SideB, HP: 70, MaxHP: 100},
	}
}

func makeVotes(forA, forB int) []Vote {
	votes := make([]Vote, 0, forA+forB)
	for i := 0; i < forA; i++ {
		votes = append(votes, Vote{RoomID: "r", RoundNumber: 1, ParticipantID: 1})
	}
	for i := 0; i < forB; i++ {
		votes = append(votes, Vote{RoomID: "r", RoundNumber: 1, ParticipantID: 2})
	}
	return votes
}

func TestTally_MajorityWins(t *testing.T) {
	res, err := Tally(twoFighters(), makeVotes(7, 3))
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if res.Winner.ID != 1 || res.Loser.ID != 2 {
		t.Fatalf("winner=%d loser=%d, want 1/2", res.Winner.ID, res.Loser.ID)
	}
	if res.WinnerVotes != 7 || res.LoserVotes != 3 || res.TotalVotes != 10 {
		t.Fatalf("counts = %d/%d/%d", res.WinnerVotes, res.LoserVotes, res.TotalVotes)
	}
	// loser share 0.3 -> round(5 + 0.7*10) = 12
	if res.Damage != 12 {
		t.Fatalf("damage = %d, want 12", res.Damage)
	}
}

func TestTally_UnanimousIsMaxDamage(t *testing.T) {
	res, err := Tally(twoFighters(), makeVotes(5, 0))
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if res.Damage != 15 {
		t.Fatalf("damage = %d, want 15", res.Damage)
	}
}

func TestTally_TieGoesToSideA(t *testing.T) {
	// Side order in the input must not matter.
	flipped := twoFighters()
	flipped[0], flipped[1] = flipped[1], flipped[0]

	res, err := Tally(flipped, makeVotes(4, 4))
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if res.Winner.Side != SideA {
		t.Fatalf("tie winner side = %s, want A", res.Winner.Side)
	}
	// loser share 0.5 -> round(5 + 0.5*10) = 10
	if res.Damage != 10 {
		t.Fatalf("damage = %d, want 10", res.Damage)
	}
}

func TestTally_DamageStaysInRange(t *testing.T) {
	splits := [][2]int{{1, 0}, {1, 1}, {9, 1}, {1, 9}, {100, 1}}
	for _, s := range splits {
		res, err := Tally(twoFighters(), makeVotes(s[0], s[1]))
		if err != nil {
			t.Fatalf("tally %v: %v", s, err)
		}
		if res.Damage < 5 || res.Damage > 15 {
			t.Fatalf("damage %d out of [5, 15] for split %v", res.Damage, s)
		}
	}
}

func TestTally_NoVotes(t *testing.T) {
	_, err := Tally(twoFighters(), nil)
	if !errors.Is(err, ErrNoVotes) {
		t.Fatalf("err = %v, want ErrNoVotes", err)
	}
}

func TestTally_NeedsTwoParticipants(t *testing.T) {
	one := []Participant{{ID: 1, Side: SideA}}
	_, err := Tally(one, makeVotes(1, 0))
	if !errors.Is(err, ErrInsufficientParticipants) {
		t.Fatalf("err = %v, want ErrInsufficientParticipants", err)
	}
}
