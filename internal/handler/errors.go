package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gachwala/storefront/internal/apperror"
)

// respondError writes err as {"error": message} with the status of its kind.
// Unclassified errors are logged and reported as 500.
func respondError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindServer {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(kind.HTTPStatus(), gin.H{"error": apperror.Message(err)})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// paramID parses the :id path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}
