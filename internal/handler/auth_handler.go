package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matthew8541/YelpCamp/internal/apperr"
	"github.com/matthew8541/YelpCamp/internal/middleware"
	"github.com/matthew8541/YelpCamp/internal/model"
	"github.com/matthew8541/YelpCamp/internal/service"
	"github.com/matthew8541/YelpCamp/internal/session"
)

// AuthService registers and authenticates users on behalf of the handler.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

// AuthHandler manages registration, login and logout.
type AuthHandler struct {
	Auth     AuthService
	Sessions *session.Manager
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(c *gin.Context) (credentialsPayload, bool) {
	var p credentialsPayload
	if err := json.NewDecoder(c.Request.Body).Decode(&p); err != nil || p.Username == "" || p.Password == "" {
		apperr.Abort(c, apperr.New(http.StatusBadRequest, `"username" and "password" are required`))
		return p, false
	}
	return p, true
}

// GET /register
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"view":    "users/register",
		"flashes": popFlashes(c, h.Sessions),
	})
}

// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	payload, ok := decodeCredentials(c)
	if !ok {
		return
	}
	user, err := h.Auth.Register(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			middleware.RedirectWithFlash(c, h.Sessions, "error", "A user with the given username is already registered", "/register")
			return
		}
		apperr.Abort(c, err)
		return
	}
	h.login(c, user, "Welcome to Yelp Camp!")
}

// GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"view":    "users/login",
		"flashes": popFlashes(c, h.Sessions),
	})
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	payload, ok := decodeCredentials(c)
	if !ok {
		return
	}
	user, err := h.Auth.Authenticate(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RedirectWithFlash(c, h.Sessions, "error", "Invalid username or password", "/login")
			return
		}
		apperr.Abort(c, err)
		return
	}
	h.login(c, user, "Welcome back!")
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := middleware.CurrentSession(c); sess != nil {
		if err := h.Sessions.Destroy(c, sess); err != nil {
			apperr.Abort(c, err)
			return
		}
	}
	c.Redirect(http.StatusFound, "/campgrounds")
}

// login binds the user to the session and redirects to the remembered
// ReturnTo path, clearing the slot.
func (h *AuthHandler) login(c *gin.Context, user *model.User, greeting string) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		var err error
		sess, err = h.Sessions.Issue(c)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
	}
	sess.UserID = user.ID
	sess.Username = user.Username

	target := sess.ReturnTo
	if target == "" {
		target = "/campgrounds"
	}
	sess.ReturnTo = ""
	sess.Flash("success", greeting)

	if err := h.Sessions.Save(c, sess); err != nil {
		apperr.Abort(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
