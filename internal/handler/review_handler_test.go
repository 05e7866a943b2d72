package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCreateAppearsInDetail(t *testing.T) {
	app := newTestApp(t)
	bob := app.signup(t, "bob")
	eve := app.signup(t, "eve")
	id := app.createCampground(t, bob, "Pine Ridge")

	w := app.do(http.MethodPost, "/campgrounds/"+id+"/reviews", `{"body":"great spot","rating":5}`, eve)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/campgrounds/"+id, w.Header().Get("Location"))

	doc := decodeCampground(t, app.showJSON(t, id, eve)["campground"])
	require.Len(t, doc.Reviews, 1)
	assert.Equal(t, "great spot", doc.Reviews[0].Body)
	assert.Equal(t, 5, doc.Reviews[0].Rating)
	assert.Equal(t, "eve", doc.Reviews[0].Author)
}

func TestReviewCreate_InvalidRating(t *testing.T) {
	app := newTestApp(t)
	bob := app.signup(t, "bob")
	id := app.createCampground(t, bob, "Pine Ridge")

	w := app.do(http.MethodPost, "/campgrounds/"+id+"/reviews", `{"body":"x","rating":6}`, bob)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"rating" must be less than or equal to 5`)
	assert.Empty(t, app.db.reviews)
}

func TestReviewCreate_CampgroundMissing(t *testing.T) {
	app := newTestApp(t)
	bob := app.signup(t, "bob")

	w := app.do(http.MethodPost, "/campgrounds/ghost/reviews", `{"body":"x","rating":3}`, bob)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/campgrounds", w.Header().Get("Location"))
	assert.Empty(t, app.db.reviews)
}

func TestReviewCreate_RequiresLogin(t *testing.T) {
	app := newTestApp(t)
	bob := app.signup(t, "bob")
	id := app.createCampground(t, bob, "Pine Ridge")

	w := app.do(http.MethodPost, "/campgrounds/"+id+"/reviews", `{"body":"x","rating":3}`, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Empty(t, app.db.reviews)
}

func TestReviewDelete_RemovesRowAndReference(t *testing.T) {
	app := newTestApp(t)
	bob := app.signup(t, "bob")
	id := app.createCampground(t, bob, "Pine Ridge")
	keep := app.createReview(t, bob, id, "first")
	doomed := app.createReview(t, bob, id, "second")

	w := app.do(http.MethodDelete, "/campgrounds/"+id+"/reviews/"+doomed, "", bob)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/campgrounds/"+id, w.Header().Get("Location"))

	doc := decodeCampground(t, app.showJSON(t, id, bob)["campground"])
	require.Len(t, doc.Reviews, 1)
	assert.Equal(t, keep, doc.Reviews[0].ID)

	app.db.mu.Lock()
	defer app.db.mu.Unlock()
	_, ok := app.db.reviews[doomed]
	assert.False(t, ok, "the review row is gone, not just the reference")
}

func TestReviewDelete_NonAuthor(t *testing.T) {
	app := newTestApp(t)
	bob := app.signup(t, "bob")
	eve := app.signup(t, "eve")
	id := app.createCampground(t, bob, "Pine Ridge")
	rid := app.createReview(t, bob, id, "mine")

	w := app.do(http.MethodDelete, "/campgrounds/"+id+"/reviews/"+rid, "", eve)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/campgrounds/"+id, w.Header().Get("Location"))

	app.db.mu.Lock()
	defer app.db.mu.Unlock()
	_, ok := app.db.reviews[rid]
	assert.True(t, ok, "a non-author must not delete the review")
}
