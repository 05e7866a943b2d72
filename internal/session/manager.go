package session

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// Manager reads and writes the session cookie. The cookie value is an
// HS256-signed token carrying only the session id; session state itself
// lives in the Store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// NewManager returns a Manager signing cookies with secret.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// Issue creates and persists a fresh session and sets its cookie on the
// response.
func (m *Manager) Issue(c *gin.Context) (*Session, error) {
	sess := New()
	if err := m.store.Save(c.Request.Context(), sess); err != nil {
		return nil, err
	}
	signed, err := m.Sign(sess.ID)
	if err != nil {
		return nil, err
	}
	c.SetCookie(CookieName, signed, int(m.ttl.Seconds()), "/", "", false, true)
	return sess, nil
}

// Load returns the session referenced by the request cookie, or nil when
// the cookie is absent, tampered with, or expired.
func (m *Manager) Load(c *gin.Context) *Session {
	raw, err := c.Cookie(CookieName)
	if err != nil {
		return nil
	}
	id, err := m.parse(raw)
	if err != nil {
		return nil
	}
	sess, err := m.store.Get(c.Request.Context(), id)
	if err != nil {
		return nil
	}
	return sess
}

// Save persists the session's current state.
func (m *Manager) Save(c *gin.Context, sess *Session) error {
	return m.store.Save(c.Request.Context(), sess)
}

// Destroy deletes the session and expires its cookie.
func (m *Manager) Destroy(c *gin.Context, sess *Session) error {
	if err := m.store.Delete(c.Request.Context(), sess.ID); err != nil {
		return err
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	return nil
}

// Sign produces the cookie token for a session id.
func (m *Manager) Sign(id string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": id,
		"exp": time.Now().Add(m.ttl).Unix(),
	})
	return token.SignedString(m.secret)
}

func (m *Manager) parse(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session claims")
	}
	id, ok := claims["sid"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid session claims")
	}
	return id, nil
}
