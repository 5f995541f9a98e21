package api

import (
	"errors"
	"log/slog"

	"utsav/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SafeErrorMessage hides internal error details from clients in release mode
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// storeError maps a store failure to 404 or 500 and logs the latter
func storeError(c *gin.Context, err error, notFound, fallback string) {
	if isNotFound(err) {
		NotFound(c, notFound)
		return
	}
	slog.ErrorContext(c.Request.Context(), fallback, "path", c.FullPath(), "error", err)
	_ = c.Error(err)
	InternalError(c, SafeErrorMessage(err, fallback))
}
