package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/drossan/arena-ai/internal/auth"
	"github.com/drossan/arena-ai/internal/common"
	"github.com/drossan/arena-ai/internal/httpapi/middleware"
	"github.com/drossan/arena-ai/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type registerReq struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "username, password and display_name required")
		return
	}

	var cnt int64
	if err := h.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&cnt).Error; err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if cnt > 0 {
		common.Fail(c, http.StatusBadRequest, 10002, "username already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         models.RoleViewer,
		IsActive:     true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "failed to create user")
		return
	}

	token, err := auth.SignJWT(user.ID, user.Role, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"role":         user.Role,
		"token":        token,
	})
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "username and password required")
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusUnauthorized, 40103, "invalid credentials")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	if !user.IsActive {
		common.Fail(c, http.StatusUnauthorized, 40104, "account disabled")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40103, "invalid credentials")
		return
	}

	token, err := auth.SignJWT(user.ID, user.Role, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"role":         user.Role,
		"token":        token,
	})
}

func (h *Handler) Me(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	common.OK(c, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	common.OK(c, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"users": users})
}

type updateUserReq struct {
	DisplayName *string `json:"display_name"`
	IsActive    *bool   `json:"is_active"`
	NewPassword *string `json:"new_password"`
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	updates := map[string]any{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.NewPassword != nil {
		hash, err := auth.HashPassword(*req.NewPassword)
		if err != nil {
			common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
			return
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
			common.Fail(c, http.StatusInternalServerError, 20001, "db error")
			return
		}
	}

	common.OK(c, gin.H{"id": user.ID})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}

	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if res.RowsAffected == 0 {
		common.Fail(c, http.StatusNotFound, 40401, "user not found")
		return
	}

	common.OK(c, gin.H{"deleted": id})
}

// BootstrapAdmin creates the first admin account. Refused once any user exists.
func (h *Handler) BootstrapAdmin(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "username, password and display_name required")
		return
	}

	var cnt int64
	if err := h.DB.Model(&models.User{}).Count(&cnt).Error; err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if cnt > 0 {
		common.Fail(c, http.StatusBadRequest, 10005, "admin already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "failed to create user")
		return
	}

	common.OK(c, gin.H{"id": user.ID, "username": user.Username})
}

func userIDFromContext(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// optionalUserID is for routes that work both anonymously and signed in.
func optionalUserID(c *gin.Context) *uint64 {
	if id, ok := userIDFromContext(c); ok {
		return &id
	}
	return nil
}
