package handler_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matthew8541/YelpCamp/internal/apperr"
	"github.com/matthew8541/YelpCamp/internal/handler"
	"github.com/matthew8541/YelpCamp/internal/middleware"
	"github.com/matthew8541/YelpCamp/internal/model"
	"github.com/matthew8541/YelpCamp/internal/service"
	"github.com/matthew8541/YelpCamp/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memDB is an in-memory stand-in for the PostgreSQL store, shared by the
// per-entity fakes below.
type memDB struct {
	mu          sync.Mutex
	users       map[string]model.User
	campgrounds map[string]model.Campground
	reviews     map[string]model.Review
	order       []string
}

func newMemDB() *memDB {
	return &memDB{
		users:       make(map[string]model.User),
		campgrounds: make(map[string]model.Campground),
		reviews:     make(map[string]model.Review),
	}
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
}

type fakeUsers struct{ db *memDB }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, notFound("fakeUsers.FindByUsername")
}

func (f *fakeUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeCampgrounds struct{ db *memDB }

func (f *fakeCampgrounds) Create(_ context.Context, cg *model.Campground) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.campgrounds[cg.ID] = *cg
	f.db.order = append(f.db.order, cg.ID)
	return nil
}

func (f *fakeCampgrounds) FindAll(_ context.Context) ([]model.Campground, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]model.Campground, 0, len(f.db.order))
	for _, id := range f.db.order {
		if cg, ok := f.db.campgrounds[id]; ok {
			out = append(out, cg)
		}
	}
	return out, nil
}

func (f *fakeCampgrounds) FindByID(_ context.Context, id string) (*model.Campground, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	cg, ok := f.db.campgrounds[id]
	if !ok {
		return nil, notFound("fakeCampgrounds.FindByID")
	}
	out := cg
	return &out, nil
}

func (f *fakeCampgrounds) FindDetail(_ context.Context, id string) (*model.CampgroundDetail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	cg, ok := f.db.campgrounds[id]
	if !ok {
		return nil, notFound("fakeCampgrounds.FindDetail")
	}
	detail := &model.CampgroundDetail{Campground: cg}
	detail.Author = f.db.users[cg.AuthorID].Username
	for _, rid := range cg.ReviewIDs {
		if rev, ok := f.db.reviews[rid]; ok {
			detail.Reviews = append(detail.Reviews, model.ReviewDetail{
				Review: rev,
				Author: f.db.users[rev.AuthorID].Username,
			})
		}
	}
	return detail, nil
}

func (f *fakeCampgrounds) Update(_ context.Context, cg *model.Campground) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	current, ok := f.db.campgrounds[cg.ID]
	if !ok {
		return notFound("fakeCampgrounds.Update")
	}
	current.Title = cg.Title
	current.Image = cg.Image
	current.Price = cg.Price
	current.Description = cg.Description
	current.Location = cg.Location
	current.UpdatedAt = cg.UpdatedAt
	f.db.campgrounds[cg.ID] = current
	return nil
}

func (f *fakeCampgrounds) Delete(_ context.Context, id string) ([]string, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	cg, ok := f.db.campgrounds[id]
	if !ok {
		return nil, notFound("fakeCampgrounds.Delete")
	}
	delete(f.db.campgrounds, id)
	return append([]string(nil), cg.ReviewIDs...), nil
}

func (f *fakeCampgrounds) Exists(_ context.Context, id string) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	_, ok := f.db.campgrounds[id]
	return ok, nil
}

func (f *fakeCampgrounds) AttachReview(_ context.Context, campgroundID, reviewID string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	cg, ok := f.db.campgrounds[campgroundID]
	if !ok {
		return notFound("fakeCampgrounds.AttachReview")
	}
	cg.ReviewIDs = append(cg.ReviewIDs, reviewID)
	f.db.campgrounds[campgroundID] = cg
	return nil
}

func (f *fakeCampgrounds) DetachReview(_ context.Context, campgroundID, reviewID string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	cg, ok := f.db.campgrounds[campgroundID]
	if !ok {
		return notFound("fakeCampgrounds.DetachReview")
	}
	kept := cg.ReviewIDs[:0]
	for _, id := range cg.ReviewIDs {
		if id != reviewID {
			kept = append(kept, id)
		}
	}
	cg.ReviewIDs = kept
	f.db.campgrounds[campgroundID] = cg
	return nil
}

type fakeReviews struct{ db *memDB }

func (f *fakeReviews) Insert(_ context.Context, rev *model.Review) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	rev.CreatedAt = time.Now().UTC()
	f.db.reviews[rev.ID] = *rev
	return nil
}

func (f *fakeReviews) FindByID(_ context.Context, id string) (*model.Review, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	rev, ok := f.db.reviews[id]
	if !ok {
		return nil, notFound("fakeReviews.FindByID")
	}
	out := rev
	return &out, nil
}

func (f *fakeReviews) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.reviews[id]; !ok {
		return notFound("fakeReviews.Delete")
	}
	delete(f.db.reviews, id)
	return nil
}

func (f *fakeReviews) DeleteByIDs(_ context.Context, ids []string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, id := range ids {
		delete(f.db.reviews, id)
	}
	return nil
}

// testApp assembles the router exactly as main.go does, with in-memory
// fakes behind the handler interfaces.
type testApp struct {
	router      *gin.Engine
	db          *memDB
	campgrounds *fakeCampgrounds
	reviews     *fakeReviews
	sessions    *session.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := newMemDB()
	users := &fakeUsers{db: db}
	campgrounds := &fakeCampgrounds{db: db}
	reviews := &fakeReviews{db: db}

	sessions := session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour)
	authService := service.NewAuthService(users)
	reviewService := service.NewReviewService(reviews, campgrounds)

	authHandler := &handler.AuthHandler{Auth: authService, Sessions: sessions}
	campgroundHandler := &handler.CampgroundHandler{
		Campgrounds: campgrounds,
		Reviews:     reviews,
		Sessions:    sessions,
	}
	reviewHandler := &handler.ReviewHandler{Reviews: reviewService, Sessions: sessions}

	r := gin.New()
	r.Use(
		middleware.ErrorHandler(zap.NewNop()),
		middleware.Sessions(sessions),
	)

	requireLogin := middleware.RequireLogin(sessions)
	campgroundAuthor := middleware.CampgroundAuthor(campgrounds, sessions)
	reviewAuthor := middleware.ReviewAuthor(reviews, sessions)

	r.GET("/register", authHandler.RegisterForm)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	r.GET("/campgrounds", campgroundHandler.Index)
	r.GET("/campgrounds/new", requireLogin, campgroundHandler.New)
	r.POST("/campgrounds", requireLogin, campgroundHandler.Create)
	r.GET("/campgrounds/:id", campgroundHandler.Show)
	r.GET("/campgrounds/:id/edit", requireLogin, campgroundAuthor, campgroundHandler.Edit)
	r.PUT("/campgrounds/:id", requireLogin, campgroundAuthor, campgroundHandler.Update)
	r.DELETE("/campgrounds/:id", requireLogin, campgroundAuthor, campgroundHandler.Delete)

	r.POST("/campgrounds/:id/reviews", requireLogin, reviewHandler.Create)
	r.DELETE("/campgrounds/:id/reviews/:reviewId", requireLogin, reviewAuthor, reviewHandler.Delete)

	r.NoRoute(func(c *gin.Context) {
		apperr.Abort(c, apperr.New(http.StatusNotFound, "Page Not Found"))
	})

	return &testApp{
		router:      r,
		db:          db,
		campgrounds: campgrounds,
		reviews:     reviews,
		sessions:    sessions,
	}
}

func (a *testApp) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	a.router.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns their session cookie.
func (a *testApp) signup(t *testing.T, username string) *http.Cookie {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":"hunter2"}`, username)
	w := a.do(http.MethodPost, "/register", body, nil)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatalf("signup for %s did not set a session cookie", username)
	return nil
}

// createCampground posts a valid campground as the cookie's user and
// returns the new id parsed from the redirect Location.
func (a *testApp) createCampground(t *testing.T, cookie *http.Cookie, title string) string {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"price":15,"location":"CO","description":"x","image":"http://x"}`, title)
	w := a.do(http.MethodPost, "/campgrounds", body, cookie)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/campgrounds/"), loc)
	return strings.TrimPrefix(loc, "/campgrounds/")
}

// createReview posts a valid review and returns the review id recorded in
// the campground's reference list.
func (a *testApp) createReview(t *testing.T, cookie *http.Cookie, campgroundID, bodyText string) string {
	t.Helper()
	payload := fmt.Sprintf(`{"body":%q,"rating":4}`, bodyText)
	w := a.do(http.MethodPost, "/campgrounds/"+campgroundID+"/reviews", payload, cookie)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	a.db.mu.Lock()
	defer a.db.mu.Unlock()
	cg := a.db.campgrounds[campgroundID]
	require.NotEmpty(t, cg.ReviewIDs)
	return cg.ReviewIDs[len(cg.ReviewIDs)-1]
}

// showJSON fetches a campground detail and decodes the response document.
func (a *testApp) showJSON(t *testing.T, campgroundID string, cookie *http.Cookie) map[string]json.RawMessage {
	t.Helper()
	w := a.do(http.MethodGet, "/campgrounds/"+campgroundID, "", cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	return doc
}
