package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propertyhub/propertyhub/infra"
	"github.com/propertyhub/propertyhub/service"
	"github.com/propertyhub/propertyhub/utils"
)

const detailCacheTTL = 10 * time.Minute

func propertyCacheKey(slug string) string {
	return "property:slug:" + slug
}

func projectCacheKey(slug string) string {
	return "project:slug:" + slug
}

// actorFromContext rebuilds the caller identity the auth middleware injected.
// A false return means the handler already responded with 401.
func actorFromContext(c *gin.Context) (service.Actor, bool) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return service.Actor{}, false
	}
	return service.Actor{ID: userID, Role: c.GetString("role")}, true
}

// readImages drains every file uploaded under the given multipart field.
// An absent field is not an error: it means "keep current images".
func readImages(c *gin.Context, field string) ([][]byte, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Plain urlencoded submissions carry no files at all.
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}

	blobs := make([][]byte, 0, len(headers))
	for _, header := range headers {
		blob, err := readFile(header)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// respondListingError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy wraps store or driver detail, which stays in
// the logs and never reaches the client.
func respondListingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, infra.ErrInvalidBlob):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrDuplicateSlug):
		utils.JSON409(c, err.Error())
	case errors.Is(err, service.ErrNotFoundOrForbidden):
		utils.JSON404(c, err.Error())
	default:
		utils.JSON500(c, "Internal server error")
	}
}

func respondAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrWeakPassword):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrDuplicateEmail):
		utils.JSON409(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.JSON401(c, err.Error())
	case errors.Is(err, service.ErrAccountNotFound):
		utils.JSON404(c, err.Error())
	default:
		utils.JSON500(c, "Internal server error")
	}
}

// invalidateCache drops detail cache entries best-effort. A failed delete only
// shortens freshness, it is never surfaced to the client.
func (ctrl *Controller) invalidateCache(c *gin.Context, keys ...string) {
	if err := ctrl.Infra.Redis.Delete(c.Request.Context(), keys...); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(c.Request.Context(), "[Cache] Failed to invalidate %v: %v", keys, err)
	}
}
