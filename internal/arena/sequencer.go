package arena

// Turn sequencing is pure arithmetic over the room counters. Each round is
// exactly two turns, one per side; the absolute turn index never resets.

// ActorSide returns which fighter owns a turn: odd turns belong to side A,
// even turns to side B.
func ActorSide(turn int) Side {
	if turn%2 == 1 {
		return SideA
	}
	return SideB
}

// IsRoundComplete reports whether both turns of the current round have
// resolved. currentTurn points at the next turn to execute, so the round is
// done once it passes round*2.
func IsRoundComplete(currentRound, currentTurn int) bool {
	return currentTurn > currentRound*2
}

// IsBattleComplete reports whether the final round's turns are both resolved.
func IsBattleComplete(currentRound, currentTurn, totalRounds int) bool {
	return currentRound >= totalRounds && IsRoundComplete(currentRound, currentTurn)
}

// FirstTurnOfRound returns the absolute turn index that opens a round.
func FirstTurnOfRound(round int) int {
	return (round-1)*2 + 1
}
