package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"cash-flow/internal/finance"
	"cash-flow/internal/store"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
)

const maxPhoneLength = 32

type ProfileHandler struct {
	Store      *store.Store
	BcryptCost int
}

func NewProfileHandler(st *store.Store, bcryptCost int) *ProfileHandler {
	return &ProfileHandler{Store: st, BcryptCost: bcryptCost}
}

// GetProfile 返回当前用户资料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{"profile": app.User})
}

type updateProfileReq struct {
	PhoneNumber     *string `json:"phone_number"`
	CurrentPassword string  `json:"current_password"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
}

// UpdateProfile 修改手机号和/或密码。修改密码需要提供当前密码。
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "参数错误")
		return
	}

	var upd store.ProfileUpdate
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if utf8.RuneCountInString(phone) > maxPhoneLength {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "phone number too long")
			return
		}
		upd.PhoneNumber = &phone
	}

	if req.Password != "" {
		if !util.CheckPassword(req.CurrentPassword, app.User.Password) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "当前密码错误")
			return
		}
		if err := util.ValidatePassword(req.Password); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		if req.Password != req.ConfirmPassword {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "passwords do not match")
			return
		}
		hash, err := util.HashPasswordCost(req.Password, h.BcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "密码加密失败")
			return
		}
		upd.PasswordHash = &hash
	}

	user, err := h.Store.UpdateProfile(c.Request.Context(), app.User.ID, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "用户不存在")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "更新资料失败")
		return
	}

	util.Success(c, util.Response{"profile": user})
}

type languageReq struct {
	Language string `json:"language"`
}

// SetLanguage 切换显示语言（en / zh）
func (h *ProfileHandler) SetLanguage(c *gin.Context) {
	app, ok := currentApp(c)
	if !ok {
		return
	}

	var req languageReq
	if err := c.ShouldBindJSON(&req); err != nil || !finance.ValidLanguage(req.Language) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "language must be en or zh")
		return
	}

	if err := h.Store.SetLanguage(c.Request.Context(), app.User.ID, req.Language); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "更新语言失败")
		return
	}

	util.Success(c, util.Response{"language": req.Language})
}
