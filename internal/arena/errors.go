package arena

import "errors"

var (
	// ErrWrongStatus means the room is not in the status the operation needs
	// (e.g. voting on a room that is still debating).
	ErrWrongStatus = errors.New("room is not in the required status")

	// ErrTurnConflict means another caller advanced the room first; the
	// compare-and-swap on Room.Version lost.
	ErrTurnConflict = errors.New("room state changed concurrently")

	// ErrNoVotes distinguishes an empty voting round from a failure; the
	// battle still advances, just without bonus damage.
	ErrNoVotes = errors.New("no votes cast this round")

	ErrInsufficientParticipants = errors.New("not enough participants")

	ErrAlreadyVoted = errors.New("session already voted in this round")
)
