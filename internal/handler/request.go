package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"cash-flow/internal/middleware"
	"cash-flow/internal/util"

	"github.com/gin-gonic/gin"
)

// flexString accepts either a JSON string or a JSON number and keeps its text.
// Set is false when the field is absent or null.
type flexString struct {
	Raw string
	Set bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = flexString{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString{Raw: s, Set: true}
		return nil
	}
	*f = flexString{Raw: string(b), Set: true}
	return nil
}

// Missing reports absent, null or blank.
func (f flexString) Missing() bool {
	return !f.Set || strings.TrimSpace(f.Raw) == ""
}

func (f flexString) String() string { return strings.TrimSpace(f.Raw) }

// currentApp loads the caller or answers 401.
func currentApp(c *gin.Context) (*middleware.AppContext, bool) {
	app, ok := middleware.CurrentApp(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "未登录")
		return nil, false
	}
	return app, true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// queryBool treats "1", "true" and "yes" as true.
func queryBool(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
