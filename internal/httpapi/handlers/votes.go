package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/drossan/arena-ai/internal/arena"
	"github.com/drossan/arena-ai/internal/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type castVoteReq struct {
	ParticipantID uint64 `json:"participant_id" binding:"required"`
}

func (h *Handler) CastVote(c *gin.Context) {
	var req castVoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "participant_id required")
		return
	}

	sid := sessionID(c)
	vote, err := h.Svc.CastVote(c.Request.Context(), c.Param("room_id"), req.ParticipantID, sid, optionalUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			common.Fail(c, http.StatusNotFound, 40402, "room not found")
		case errors.Is(err, arena.ErrWrongStatus):
			common.Fail(c, http.StatusBadRequest, 40001, "room is not in voting status")
		case errors.Is(err, arena.ErrInsufficientParticipants):
			common.Fail(c, http.StatusBadRequest, 10007, "participant does not belong to this room")
		case errors.Is(err, arena.ErrAlreadyVoted):
			common.Fail(c, http.StatusConflict, 40902, "already voted in this round")
		default:
			common.Fail(c, http.StatusInternalServerError, 50006, "failed to cast vote")
		}
		return
	}

	common.OK(c, gin.H{
		"vote_id":      vote.ID,
		"round_number": vote.RoundNumber,
	})
}

func (h *Handler) RoundVotes(c *gin.Context) {
	round, err := strconv.Atoi(c.Param("round"))
	if err != nil || round < 1 {
		common.Fail(c, http.StatusBadRequest, 10008, "invalid round number")
		return
	}

	total, byParticipant, err := h.Svc.RoundVotes(c.Request.Context(), c.Param("room_id"), round)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50006, "failed to load votes")
		return
	}

	common.OK(c, gin.H{
		"total":          total,
		"by_participant": byParticipant,
	})
}

func (h *Handler) HasVoted(c *gin.Context) {
	round, err := strconv.Atoi(c.Param("round"))
	if err != nil || round < 1 {
		common.Fail(c, http.StatusBadRequest, 10008, "invalid round number")
		return
	}

	sid := sessionID(c)
	voted, err := h.Svc.HasVoted(c.Request.Context(), c.Param("room_id"), round, sid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50006, "failed to check vote")
		return
	}

	common.OK(c, gin.H{"has_voted": voted})
}
