// Package middleware holds the gin middleware chain: session resolution,
// authentication and ownership gates, request logging, and the terminal
// error handler.
package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matthew8541/YelpCamp/internal/apperr"
	"github.com/matthew8541/YelpCamp/internal/model"
	"github.com/matthew8541/YelpCamp/internal/session"
)

const (
	sessionKey   = "session"
	principalKey = "principal"
)

// Sessions resolves the request's session cookie and, when the session is
// bound to a user, attaches the principal to the request context.
func Sessions(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := manager.Load(c); sess != nil {
			c.Set(sessionKey, sess)
			if sess.UserID != "" {
				c.Set(principalKey, model.Principal{ID: sess.UserID, Username: sess.Username})
			}
		}
		c.Next()
	}
}

// CurrentSession returns the request's session, or nil when there is none.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	return v.(*session.Session)
}

// CurrentPrincipal returns the authenticated identity for this request.
func CurrentPrincipal(c *gin.Context) (model.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	return v.(model.Principal), true
}

// RequireLogin redirects unauthenticated requests to /login, remembering
// the originally requested path in the session's single ReturnTo slot.
func RequireLogin(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); ok {
			c.Next()
			return
		}
		sess := CurrentSession(c)
		if sess == nil {
			var err error
			sess, err = manager.Issue(c)
			if err != nil {
				apperr.Abort(c, err)
				return
			}
			c.Set(sessionKey, sess)
		}
		sess.ReturnTo = c.Request.URL.Path
		sess.Flash("error", "you must be signed in")
		if err := manager.Save(c, sess); err != nil {
			apperr.Abort(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// CampgroundFinder loads a campground for the ownership check.
type CampgroundFinder interface {
	FindByID(ctx context.Context, id string) (*model.Campground, error)
}

// ReviewFinder loads a review for the ownership check.
type ReviewFinder interface {
	FindByID(ctx context.Context, id string) (*model.Review, error)
}

// CampgroundAuthor rejects requests whose principal does not own the
// campground named by the :id parameter. Failure is a soft redirect with a
// flash message, never a hard 403 page.
func CampgroundAuthor(campgrounds CampgroundFinder, manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		cg, err := campgrounds.FindByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				RedirectWithFlash(c, manager, "error", "Cannot find that campground!", "/campgrounds")
				return
			}
			apperr.Abort(c, err)
			return
		}
		principal, _ := CurrentPrincipal(c)
		if cg.AuthorID != principal.ID {
			RedirectWithFlash(c, manager, "error", "You don't have the permission to do that!", "/campgrounds/"+id)
			return
		}
		c.Next()
	}
}

// ReviewAuthor rejects requests whose principal does not own the review
// named by the :reviewId parameter. Failure redirects to the containing
// campground's detail view.
func ReviewAuthor(reviews ReviewFinder, manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		campgroundID := c.Param("id")
		rev, err := reviews.FindByID(c.Request.Context(), c.Param("reviewId"))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				RedirectWithFlash(c, manager, "error", "Cannot find that review!", "/campgrounds/"+campgroundID)
				return
			}
			apperr.Abort(c, err)
			return
		}
		principal, _ := CurrentPrincipal(c)
		if rev.AuthorID != principal.ID {
			RedirectWithFlash(c, manager, "error", "You don't have the permission to do that!", "/campgrounds/"+campgroundID)
			return
		}
		c.Next()
	}
}

// RedirectWithFlash queues a flash message on the session and answers with
// a 302 to target, aborting the handler chain.
func RedirectWithFlash(c *gin.Context, manager *session.Manager, kind, message, target string) {
	sess := CurrentSession(c)
	if sess == nil {
		var err error
		sess, err = manager.Issue(c)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.Set(sessionKey, sess)
	}
	sess.Flash(kind, message)
	if err := manager.Save(c, sess); err != nil {
		apperr.Abort(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}
