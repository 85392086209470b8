package middleware

import (
	"fmt"
	"net/http"

	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RecoveryMiddleware turns a panic into the opaque 500 envelope.
func RecoveryMiddleware(c *gin.Context) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}

		event := log.Error()
		if err, ok := recovered.(error); ok {
			event = event.Err(err)
		} else {
			event = event.Str("panic", fmt.Sprint(recovered))
		}
		event.
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Msg("PANIC_RECOVERED")

		c.AbortWithStatusJSON(http.StatusInternalServerError,
			errorEnvelope(model.CodeInternalServerError, model.InternalErrorMessage))
	}()
	c.Next()
}
