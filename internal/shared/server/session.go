package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resumefit/internal/shared/server/middleware"
	"resumefit/internal/shared/server/respond"
)

// registerSessionRoutes attaches the /session endpoint.
func registerSessionRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", sessionHandler)
}

// sessionHandler reports the session id in effect, which is new when the
// caller sent none.
func sessionHandler(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"sessionId": middleware.SessionIDFromContext(c)})
}
