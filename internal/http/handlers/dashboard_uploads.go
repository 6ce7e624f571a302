package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"tabletap-platform/internal/middleware"
	"tabletap-platform/internal/utils"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DashboardMenuItemImage accepts a multipart upload, normalizes it to
// JPEG (EXIF rotation applied), and stores a 1280px main image plus a
// 512px square thumbnail.
func (h *Handler) DashboardMenuItemImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	if h.Store == nil {
		response.Error(w, http.StatusServiceUnavailable, "INTERNAL_ERROR", "Image storage is not configured")
		return
	}

	itemID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid menu item id")
		return
	}

	var (
		oldImageURL pgtype.Text
		oldThumbURL pgtype.Text
	)
	err = h.DB.QueryRow(ctx, `
		select image_url, thumbnail_url
		from menu_items
		where id = $1 and restaurant_id = $2
	`, itemID, authCtx.RestaurantID).Scan(&oldImageURL, &oldThumbURL)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
			return
		}
		h.Logger.Error("menu image item lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload image")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxFileSizeBytes)
	if err := r.ParseMultipartForm(h.Config.MaxFileSizeBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "File too large or malformed upload")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "image file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to read upload")
		return
	}

	contentType := utils.DetectContentType(data)
	if !utils.ValidateImageContentType(contentType) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported image type")
		return
	}

	mainJpeg, err := utils.EncodeJpegFitInside(data, 1280, 85)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Could not decode image")
		return
	}
	thumbJpeg, err := utils.EncodeJpegCoverSquare(data, 512, 80)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Could not decode image")
		return
	}

	stamp := time.Now().UnixMilli()
	mainKey := fmt.Sprintf("menu/%d/%d/%d.jpg", authCtx.RestaurantID, itemID, stamp)
	thumbKey := fmt.Sprintf("menu/%d/%d/%d_thumb.jpg", authCtx.RestaurantID, itemID, stamp)

	mainURL, err := h.Store.PutObject(ctx, mainKey, mainJpeg, "image/jpeg")
	if err != nil {
		h.Logger.Error("menu image upload failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload image")
		return
	}
	thumbURL, err := h.Store.PutObject(ctx, thumbKey, thumbJpeg, "image/jpeg")
	if err != nil {
		h.Logger.Error("menu thumbnail upload failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload image")
		return
	}

	_, err = h.DB.Exec(ctx, `
		update menu_items
		set image_url = $3, thumbnail_url = $4, updated_at = now()
		where id = $1 and restaurant_id = $2
	`, itemID, authCtx.RestaurantID, mainURL, thumbURL)
	if err != nil {
		h.Logger.Error("menu image url persist failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload image")
		return
	}

	// Replaced objects are removed best effort.
	if oldImageURL.Valid {
		if err := h.Store.DeleteURL(ctx, oldImageURL.String); err != nil {
			h.Logger.Warn("old menu image delete failed", zapError(err))
		}
	}
	if oldThumbURL.Valid {
		if err := h.Store.DeleteURL(ctx, oldThumbURL.String); err != nil {
			h.Logger.Warn("old menu thumbnail delete failed", zapError(err))
		}
	}

	response.Success(w, map[string]any{
		"image_url":     mainURL,
		"thumbnail_url": thumbURL,
	})
}
