package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"progpath.app/api-server/common/apperr"
)

// respondError maps the business error taxonomy onto HTTP statuses. Errors
// outside the taxonomy are internal: logged with the cause, reported without
// it.
func respondError(c *gin.Context, err error) {
	e := apperr.As(err)

	status := http.StatusInternalServerError
	switch e.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindQuotaExceeded:
		status = http.StatusForbidden
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	}

	if e.Kind == apperr.KindInternal {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": e.Message, "kind": e.Kind.String()}
	if e.Notify {
		body["notify"] = true
	}
	if e.Kind == apperr.KindQuotaExceeded {
		body["is_premium_user"] = e.IsPremiumUser
	}
	c.JSON(status, body)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
