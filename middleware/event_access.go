package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"utsav/database"
	"utsav/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const ctxEvent = "event"

// EventAccess loads the :eventId route parameter as an event owned by the
// current user. Missing and foreign events both answer 404 so ownership
// cannot be probed. Must run after JWTAuth.
func EventAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    http.StatusBadRequest,
				"message": "invalid event id",
			})
			return
		}

		event, err := database.Events.Get(c.Request.Context(), database.Filter{
			"id":      uint(id),
			"user_id": GetCurrentUserID(c),
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"code":    http.StatusNotFound,
					"message": "event not found",
				})
				return
			}
			slog.Error("load event", "event_id", id, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "failed to load event",
			})
			return
		}

		c.Set(ctxEvent, event)
		c.Next()
	}
}

// GetEvent returns the event loaded by EventAccess
func GetEvent(c *gin.Context) *models.Event {
	if v, ok := c.Get(ctxEvent); ok {
		if e, ok := v.(*models.Event); ok {
			return e
		}
	}
	return nil
}
