// Package handler ties HTTP requests to services and repositories. GET
// endpoints render JSON view documents; every mutation answers with a
// redirect, matching the server-rendered flow the service fronts.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/matthew8541/YelpCamp/internal/apperr"
	"github.com/matthew8541/YelpCamp/internal/middleware"
	"github.com/matthew8541/YelpCamp/internal/model"
	"github.com/matthew8541/YelpCamp/internal/session"
	"github.com/matthew8541/YelpCamp/internal/validation"
)

// CampgroundStore is the persistence surface the campground handler needs.
type CampgroundStore interface {
	Create(ctx context.Context, cg *model.Campground) error
	FindAll(ctx context.Context) ([]model.Campground, error)
	FindByID(ctx context.Context, id string) (*model.Campground, error)
	FindDetail(ctx context.Context, id string) (*model.CampgroundDetail, error)
	Update(ctx context.Context, cg *model.Campground) error
	Delete(ctx context.Context, id string) ([]string, error)
}

// ReviewCascade deletes the review rows referenced by a removed campground.
type ReviewCascade interface {
	DeleteByIDs(ctx context.Context, ids []string) error
}

// CampgroundHandler manages all campground operations.
type CampgroundHandler struct {
	Campgrounds CampgroundStore
	Reviews     ReviewCascade
	Sessions    *session.Manager
}

// GET /campgrounds
func (h *CampgroundHandler) Index(c *gin.Context) {
	list, err := h.Campgrounds.FindAll(c.Request.Context())
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	if list == nil {
		list = []model.Campground{}
	}
	c.JSON(http.StatusOK, gin.H{
		"campgrounds": list,
		"flashes":     popFlashes(c, h.Sessions),
	})
}

// GET /campgrounds/new
func (h *CampgroundHandler) New(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"view":    "campgrounds/new",
		"flashes": popFlashes(c, h.Sessions),
	})
}

// POST /campgrounds
func (h *CampgroundHandler) Create(c *gin.Context) {
	payload, res := validation.DecodeCampground(c.Request.Body)
	if !res.OK() {
		apperr.Abort(c, apperr.New(http.StatusBadRequest, res.Message()))
		return
	}

	principal, _ := middleware.CurrentPrincipal(c)
	now := time.Now().UTC()
	cg := &model.Campground{
		ID:          uuid.NewString(),
		AuthorID:    principal.ID,
		Title:       payload.Title,
		Image:       payload.Image,
		Price:       *payload.Price,
		Description: payload.Description,
		Location:    payload.Location,
		ReviewIDs:   pq.StringArray{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Campgrounds.Create(c.Request.Context(), cg); err != nil {
		apperr.Abort(c, err)
		return
	}

	middleware.RedirectWithFlash(c, h.Sessions, "success", "Successfully made a new campground!", "/campgrounds/"+cg.ID)
}

// GET /campgrounds/:id
func (h *CampgroundHandler) Show(c *gin.Context) {
	detail, err := h.Campgrounds.FindDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			middleware.RedirectWithFlash(c, h.Sessions, "error", "Cannot find that campground!", "/campgrounds")
			return
		}
		apperr.Abort(c, err)
		return
	}
	if detail.Reviews == nil {
		detail.Reviews = []model.ReviewDetail{}
	}
	c.JSON(http.StatusOK, gin.H{
		"campground": detail,
		"flashes":    popFlashes(c, h.Sessions),
	})
}

// GET /campgrounds/:id/edit
func (h *CampgroundHandler) Edit(c *gin.Context) {
	cg, err := h.Campgrounds.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			middleware.RedirectWithFlash(c, h.Sessions, "error", "Cannot find that campground!", "/campgrounds")
			return
		}
		apperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":       "campgrounds/edit",
		"campground": cg,
		"flashes":    popFlashes(c, h.Sessions),
	})
}

// PUT /campgrounds/:id
func (h *CampgroundHandler) Update(c *gin.Context) {
	payload, res := validation.DecodeCampground(c.Request.Body)
	if !res.OK() {
		apperr.Abort(c, apperr.New(http.StatusBadRequest, res.Message()))
		return
	}

	id := c.Param("id")
	current, err := h.Campgrounds.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			middleware.RedirectWithFlash(c, h.Sessions, "error", "Cannot find that campground!", "/campgrounds")
			return
		}
		apperr.Abort(c, err)
		return
	}

	// The author never changes on update.
	current.Title = payload.Title
	current.Image = payload.Image
	current.Price = *payload.Price
	current.Description = payload.Description
	current.Location = payload.Location
	current.UpdatedAt = time.Now().UTC()

	if err := h.Campgrounds.Update(c.Request.Context(), current); err != nil {
		apperr.Abort(c, err)
		return
	}
	middleware.RedirectWithFlash(c, h.Sessions, "success", "Successfully updated campground", "/campgrounds/"+id)
}

// DELETE /campgrounds/:id
//
// Deleting the campground row and deleting its reviews are two separate
// steps; there is no cross-table transaction.
func (h *CampgroundHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	reviewIDs, err := h.Campgrounds.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			middleware.RedirectWithFlash(c, h.Sessions, "error", "Cannot find that campground!", "/campgrounds")
			return
		}
		apperr.Abort(c, err)
		return
	}
	if err := h.Reviews.DeleteByIDs(c.Request.Context(), reviewIDs); err != nil {
		apperr.Abort(c, err)
		return
	}
	middleware.RedirectWithFlash(c, h.Sessions, "success", "Successfully deleted campground", "/campgrounds")
}
