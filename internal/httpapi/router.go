package httpapi

import (
	"net/http"

	"github.com/drossan/arena-ai/internal/arena"
	"github.com/drossan/arena-ai/internal/common"
	"github.com/drossan/arena-ai/internal/config"
	"github.com/drossan/arena-ai/internal/httpapi/handlers"
	"github.com/drossan/arena-ai/internal/httpapi/middleware"
	"github.com/drossan/arena-ai/internal/store/rabbitmq"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, cfg config.Config, svc *arena.Service, rabbit *rabbitmq.Publisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	// The session cookie rides along on votes and presence calls, so origins
	// are echoed rather than wildcarded.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOriginFunc = func(origin string) bool { return true }
	corsCfg.AllowCredentials = true
	corsCfg.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsCfg))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	h := handlers.NewHandler(db, cfg, svc, rabbit)

	r.GET("/ping", h.Ping)

	// auth
	r.POST("/users", h.Register)
	r.POST("/login", h.Login)
	r.POST("/setup-admin", h.BootstrapAdmin)

	// public arena surface: anyone can watch, vote and drive due turns
	r.GET("/rooms", h.ListRooms)
	r.GET("/rooms/:room_id", h.GetRoom)
	r.POST("/rooms/:room_id/join", h.JoinRoom)
	r.POST("/viewer/leave", h.LeaveRoom)

	r.POST("/battle/:room_id/execute", h.ExecuteTurn)
	r.POST("/battle/:room_id/execute/stream", h.ExecuteTurnStream)
	r.POST("/battle/:room_id/execute/async", h.ExecuteTurnAsync)
	r.GET("/jobs/:job_id", h.GetTurnJob)
	r.GET("/battle/:room_id/commentary", h.BattleCommentary)

	r.POST("/battle/:room_id/vote", h.CastVote)
	r.GET("/battle/:room_id/votes/:round", h.RoundVotes)
	r.GET("/battle/:room_id/votes/:round/me", h.HasVoted)

	// admin (JWT + admin role)
	adminGroup := r.Group("/")
	adminGroup.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.AdminRequired())
	adminGroup.POST("/rooms", h.CreateRoom)
	adminGroup.POST("/topics/generate", h.GenerateTopic)
	adminGroup.POST("/battle/:room_id/start", h.StartBattle)
	adminGroup.POST("/battle/:room_id/end-voting", h.EndVoting)
	adminGroup.GET("/users", h.ListUsers)
	adminGroup.GET("/users/:id", h.GetUser)
	adminGroup.PATCH("/users/:id", h.UpdateUser)
	adminGroup.DELETE("/users/:id", h.DeleteUser)

	// signed-in
	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/me", h.Me)

	return r
}
