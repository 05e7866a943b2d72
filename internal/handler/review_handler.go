package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matthew8541/YelpCamp/internal/apperr"
	"github.com/matthew8541/YelpCamp/internal/middleware"
	"github.com/matthew8541/YelpCamp/internal/model"
	"github.com/matthew8541/YelpCamp/internal/service"
	"github.com/matthew8541/YelpCamp/internal/session"
	"github.com/matthew8541/YelpCamp/internal/validation"
)

// ReviewService attaches and detaches reviews on behalf of the handler.
type ReviewService interface {
	Create(ctx context.Context, campgroundID, authorID, body string, rating int) (*model.Review, error)
	Delete(ctx context.Context, campgroundID, reviewID string) error
}

// ReviewHandler manages review creation and deletion under a campground.
type ReviewHandler struct {
	Reviews  ReviewService
	Sessions *session.Manager
}

// POST /campgrounds/:id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	payload, res := validation.DecodeReview(c.Request.Body)
	if !res.OK() {
		apperr.Abort(c, apperr.New(http.StatusBadRequest, res.Message()))
		return
	}

	campgroundID := c.Param("id")
	principal, _ := middleware.CurrentPrincipal(c)
	_, err := h.Reviews.Create(c.Request.Context(), campgroundID, principal.ID, payload.Body, *payload.Rating)
	if err != nil {
		if errors.Is(err, service.ErrCampgroundNotFound) {
			middleware.RedirectWithFlash(c, h.Sessions, "error", "Cannot find that campground!", "/campgrounds")
			return
		}
		apperr.Abort(c, err)
		return
	}
	middleware.RedirectWithFlash(c, h.Sessions, "success", "Created new review!", "/campgrounds/"+campgroundID)
}

// DELETE /campgrounds/:id/reviews/:reviewId
func (h *ReviewHandler) Delete(c *gin.Context) {
	campgroundID := c.Param("id")
	err := h.Reviews.Delete(c.Request.Context(), campgroundID, c.Param("reviewId"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			middleware.RedirectWithFlash(c, h.Sessions, "error", "Cannot find that review!", "/campgrounds/"+campgroundID)
			return
		}
		apperr.Abort(c, err)
		return
	}
	middleware.RedirectWithFlash(c, h.Sessions, "success", "Successfully deleted a review!", "/campgrounds/"+campgroundID)
}
