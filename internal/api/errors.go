package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maintenance-backend/internal/apperr"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindAuthenticationRequired:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError maps a service failure to its status code and a
// {kind, message} body.
func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.AbortWithStatusJSON(statusFor(ae.Kind), gin.H{"kind": ae.Kind, "message": ae.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"kind": "INTERNAL", "message": err.Error()})
}

func respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"kind": apperr.KindValidation, "message": err.Error()})
}

// idParam parses the numeric path parameter with the given name.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"kind":    apperr.KindValidation,
			"message": "invalid " + name,
		})
		return 0, false
	}
	return id, true
}
