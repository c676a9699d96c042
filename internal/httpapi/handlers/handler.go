package handlers

import (
	"github.com/drossan/arena-ai/internal/arena"
	"github.com/drossan/arena-ai/internal/config"
	"github.com/drossan/arena-ai/internal/store/rabbitmq"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Handler struct {
	DB     *gorm.DB
	Cfg    config.Config
	Svc    *arena.Service
	Rabbit *rabbitmq.Publisher
}

func NewHandler(db *gorm.DB, cfg config.Config, svc *arena.Service, rabbit *rabbitmq.Publisher) *Handler {
	return &Handler{DB: db, Cfg: cfg, Svc: svc, Rabbit: rabbit}
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"message": "pong"})
}

const sessionCookie = "arena_session"

// sessionID returns the caller's anonymous session id, minting a cookie on
// first contact. Votes and viewer presence key off this id.
func sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(sessionCookie, sid, 60*60*24*30, "/", "", false, true)
	return sid
}
