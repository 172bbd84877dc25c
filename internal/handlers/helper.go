package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive numeric path parameter. On failure it writes
// a 400 response and returns false.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		details := "must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		h.RespondWithError(c, http.StatusBadRequest, CodeValidation, "Invalid "+param, nil, details)
		return 0, false
	}
	return uint(id), true
}

// getUserID returns the authenticated user set by AuthMiddleware. On failure
// it writes a 401 response and returns false.
func (h *BaseHandler) getUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		h.RespondWithError(c, http.StatusUnauthorized, CodeUnauthorized, "User not authenticated", nil)
		return "", false
	}
	return userID, true
}

// bindJSON decodes the request body. On failure it writes a 400 response and returns false.
func (h *BaseHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeValidation, "Invalid request payload", nil, err.Error())
		return false
	}
	return true
}
