package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cash-flow/internal/config"
	"cash-flow/internal/finance"
	"cash-flow/internal/logger"
	"cash-flow/internal/models"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Store *store.Store
	Cfg   *config.Config
	Log   *slog.Logger
	Now   func() time.Time
}

func NewAuthHandler(st *store.Store, cfg *config.Config, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Store: st, Cfg: cfg, Log: logger.Component(log, logger.ComponentHTTP), Now: time.Now}
}

type registerReq struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	PhoneNumber     string `json:"phone_number"`
	Language        string `json:"language"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ---------- 注册 ----------

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := util.ValidateRegistration(req.Email, req.Password, req.ConfirmPassword); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	lang := h.Cfg.App.DefaultLanguage
	if req.Language != "" {
		if !finance.ValidLanguage(req.Language) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unsupported language")
			return
		}
		lang = req.Language
	}

	hash, err := util.HashPasswordCost(req.Password, h.Cfg.Security.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "密码加密失败")
		return
	}

	user := &models.User{
		Email:       req.Email,
		Password:    hash,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Language:    lang,
	}
	if err := h.Store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			util.Error(c, http.StatusConflict, util.CodeConflict, "该邮箱已被注册")
			return
		}
		h.Log.Error("create user failed", logger.FieldError, err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建用户失败")
		return
	}

	util.Success(c, util.Response{"user": user})
}

// ---------- 登录 ----------

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	ctx := c.Request.Context()
	user, err := h.Store.UserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Log.Error("login lookup failed", logger.FieldError, err)
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "登录失败")
			return
		}
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "邮箱或密码错误")
		return
	}
	if !util.CheckPassword(req.Password, user.Password) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "邮箱或密码错误")
		return
	}

	now := h.Now()
	ttl := h.Cfg.TokenTTL()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(ttl),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if err := h.Store.CreateSession(ctx, sess); err != nil {
		h.Log.Error("create session failed", logger.FieldError, err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建会话失败")
		return
	}

	token, err := util.GenerateToken(util.TokenParams{
		Secret:    h.Cfg.JWT.Secret,
		Issuer:    h.Cfg.JWT.Issuer,
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: sess.ID,
		TTL:       ttl,
		Now:       now,
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "生成 token 失败")
		return
	}

	if err := h.Store.TouchLogin(ctx, user.ID, c.ClientIP(), now); err != nil {
		h.Log.Warn("update last login failed", logger.FieldError, err)
	}

	util.Success(c, util.Response{
		"token":      token,
		"expires_at": sess.ExpiresAt,
		"user":       user,
	})
}

// ---------- 退出 ----------

func (h *AuthHandler) Logout(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	if err := h.Store.RevokeSession(c.Request.Context(), app.SessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "退出失败")
		return
	}
	util.Success(c, util.Response{"message": "已退出"})
}

// Me returns the logged-in user.
func (h *AuthHandler) Me(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{
		"user":     app.User,
		"language": app.Language,
	})
}
