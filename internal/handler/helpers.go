package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/matthew8541/YelpCamp/internal/middleware"
	"github.com/matthew8541/YelpCamp/internal/session"
)

// popFlashes drains the session's pending flash messages for rendering.
func popFlashes(c *gin.Context, manager *session.Manager) []session.Flash {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return []session.Flash{}
	}
	flashes := sess.PopFlashes()
	if len(flashes) == 0 {
		return []session.Flash{}
	}
	_ = manager.Save(c, sess)
	return flashes
}
