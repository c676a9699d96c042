package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/drossan/arena-ai/internal/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createRoomReq struct {
	Topic     string `json:"topic" binding:"required"`
	ModelA    string `json:"model_a" binding:"required"`
	ModelB    string `json:"model_b" binding:"required"`
	StartTime int64  `json:"start_time" binding:"required"` // unix seconds
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "topic, model_a, model_b and start_time required")
		return
	}

	detail, err := h.Svc.CreateRoom(c.Request.Context(),
		req.Topic, req.ModelA, req.ModelB,
		time.Unix(req.StartTime, 0), optionalUserID(c))
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to create room")
		return
	}

	common.OK(c, detail)
}

// GenerateTopic proposes a debate topic for a new room.
func (h *Handler) GenerateTopic(c *gin.Context) {
	topic, err := h.Svc.GenerateTopic(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50007, "failed to generate topic")
		return
	}
	common.OK(c, gin.H{"topic": topic})
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Svc.ListRooms(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list rooms")
		return
	}
	common.OK(c, gin.H{"rooms": rooms})
}

func (h *Handler) GetRoom(c *gin.Context) {
	detail, err := h.Svc.GetRoomDetail(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "room not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to load room")
		return
	}
	common.OK(c, detail)
}

func (h *Handler) JoinRoom(c *gin.Context) {
	sid := sessionID(c)
	roomID := c.Param("room_id")

	if err := h.Svc.JoinRoom(c.Request.Context(), sid, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "room not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to join room")
		return
	}
	common.OK(c, gin.H{"room_id": roomID})
}

func (h *Handler) LeaveRoom(c *gin.Context) {
	sid := sessionID(c)
	if err := h.Svc.LeaveRoom(c.Request.Context(), sid); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to leave room")
		return
	}
	common.OK(c, gin.H{"left": true})
}
