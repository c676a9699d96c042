package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/drossan/arena-ai/internal/arena"
	"github.com/drossan/arena-ai/internal/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// failBattle maps orchestrator errors onto the envelope. Conflicts from the
// optimistic turn claim come back as 409 so pollers know to re-poll.
func failBattle(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		common.Fail(c, http.StatusNotFound, 40402, "room not found")
	case errors.Is(err, arena.ErrWrongStatus):
		common.Fail(c, http.StatusBadRequest, 40001, "room is not in the required status")
	case errors.Is(err, arena.ErrInsufficientParticipants):
		common.Fail(c, http.StatusBadRequest, 40002, "not enough participants")
	case errors.Is(err, arena.ErrTurnConflict):
		common.Fail(c, http.StatusConflict, 40901, "turn already being executed")
	default:
		common.Fail(c, http.StatusInternalServerError, 50004, "battle operation failed")
	}
}

func (h *Handler) StartBattle(c *gin.Context) {
	if err := h.Svc.StartBattle(c.Request.Context(), c.Param("room_id")); err != nil {
		failBattle(c, err)
		return
	}
	common.OK(c, gin.H{"started": true})
}

func (h *Handler) ExecuteTurn(c *gin.Context) {
	res, err := h.Svc.ExecuteTurn(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		failBattle(c, err)
		return
	}
	common.OK(c, res)
}

// ExecuteTurnStream runs the turn while streaming argument deltas over SSE.
// Client disconnect cancels the in-flight generation via the request context.
func (h *Handler) ExecuteTurnStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // helpful if behind nginx

	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		fmt.Fprintf(c.Writer, "event: error\ndata: flusher not supported\n\n")
		return
	}

	writeJSON := func(event string, payload any) {
		b, err := json.Marshal(payload)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"message\":\"json marshal failed\"}\n\n")
			flusher.Flush()
			return
		}
		if event != "" {
			fmt.Fprintf(c.Writer, "event: %s\n", event)
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", string(b))
		flusher.Flush()
	}

	ctx := c.Request.Context()
	chunks, results, errs := h.Svc.ExecuteTurnStream(ctx, c.Param("room_id"))

	// heartbeat keeps proxies from cutting the connection
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ch, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			writeJSON("chunk", gin.H{"type": "chunk", "delta": ch})

		case <-ticker.C:
			writeJSON("ping", gin.H{"type": "ping", "ts": time.Now().Unix()})

		case err := <-errs:
			if err == nil {
				continue
			}
			writeJSON("error", gin.H{"type": "error", "message": err.Error()})
			return

		case res := <-results:
			if res == nil {
				continue
			}
			writeJSON("done", gin.H{"type": "done", "result": res})
			return

		case <-ctx.Done():
			return
		}
	}
}

// ExecuteTurnAsync queues the turn for the worker instead of running it inline.
func (h *Handler) ExecuteTurnAsync(c *gin.Context) {
	roomID := c.Param("room_id")

	job, err := h.Svc.CreateTurnJob(c.Request.Context(), roomID)
	if err != nil {
		failBattle(c, err)
		return
	}

	if err := h.Rabbit.PublishJob(c.Request.Context(), job.ID, job.RoomID); err != nil {
		log.Printf("[ExecuteTurnAsync] publish failed room=%s job=%s err=%v", roomID, job.ID, err)
		common.Fail(c, http.StatusInternalServerError, 50005, "enqueue failed")
		return
	}

	common.OK(c, gin.H{"job_id": job.ID})
}

func (h *Handler) GetTurnJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		common.Fail(c, http.StatusBadRequest, 10006, "job_id required")
		return
	}

	job, err := h.Svc.GetTurnJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40403, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	common.OK(c, gin.H{"job": job})
}

func (h *Handler) EndVoting(c *gin.Context) {
	outcome, err := h.Svc.EndVoting(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		failBattle(c, err)
		return
	}
	common.OK(c, outcome)
}

func (h *Handler) BattleCommentary(c *gin.Context) {
	commentary, err := h.Svc.BattleCommentary(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		failBattle(c, err)
		return
	}
	common.OK(c, commentary)
}
