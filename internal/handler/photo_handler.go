package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matthew8541/YelpCamp/internal/apperr"
	"github.com/matthew8541/YelpCamp/internal/middleware"
	"github.com/matthew8541/YelpCamp/internal/model"
	"github.com/matthew8541/YelpCamp/internal/session"
)

// PhotoStore stores and retrieves campground photo blobs.
type PhotoStore interface {
	Upload(file multipart.File, filename string) (string, error)
	Download(fileID string) ([]byte, string, error)
}

// PhotoCampgroundStore is the campground side of photo bookkeeping.
type PhotoCampgroundStore interface {
	FindByID(ctx context.Context, id string) (*model.Campground, error)
	UpdatePhotoFileID(ctx context.Context, id, fileID string) error
}

// PhotoHandler uploads and serves a campground's photo.
type PhotoHandler struct {
	Photos      PhotoStore
	Campgrounds PhotoCampgroundStore
	Sessions    *session.Manager
}

// POST /campgrounds/:id/photo
func (h *PhotoHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperr.Abort(c, apperr.New(http.StatusBadRequest, `"file" is required`))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	defer file.Close()

	campgroundID := c.Param("id")
	filename := fmt.Sprintf("campground_%s_%s", campgroundID, fileHeader.Filename)

	photoID, err := h.Photos.Upload(file, filename)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	if err := h.Campgrounds.UpdatePhotoFileID(c.Request.Context(), campgroundID, photoID); err != nil {
		apperr.Abort(c, err)
		return
	}
	middleware.RedirectWithFlash(c, h.Sessions, "success", "Photo uploaded", "/campgrounds/"+campgroundID)
}

// GET /campgrounds/:id/photo
func (h *PhotoHandler) Download(c *gin.Context) {
	cg, err := h.Campgrounds.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			middleware.RedirectWithFlash(c, h.Sessions, "error", "Cannot find that campground!", "/campgrounds")
			return
		}
		apperr.Abort(c, err)
		return
	}
	if cg.PhotoFileID == "" {
		apperr.Abort(c, apperr.New(http.StatusNotFound, "photo not found for this campground"))
		return
	}

	data, filename, err := h.Photos.Download(cg.PhotoFileID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}
	c.Header("Content-Disposition", "inline; filename="+filename)
	c.Data(http.StatusOK, "image/jpeg", data)
}
