package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/propertyhub/propertyhub/service"
)

func TestRespondListingErrorMapsTaxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: unknown property type %q", service.ErrValidation, "castle"), http.StatusBadRequest},
		{fmt.Errorf("%w: %q", service.ErrDuplicateSlug, "sunset-villa"), http.StatusConflict},
		{service.ErrNotFoundOrForbidden, http.StatusNotFound},
		{fmt.Errorf("%w: %v", service.ErrPersistence, errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondListingError(c, tc.err)
		if w.Code != tc.status {
			t.Errorf("respondListingError(%v): status = %d, want %d", tc.err, w.Code, tc.status)
		}
	}
}

// Wrapped store failures carry driver detail; the 500 body must stay generic
// while the detail lives only in the logs.
func TestInternalErrorsNeverLeakDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	driverErr := errors.New(`pq: password authentication failed for user "propertyhub"`)
	wrapped := fmt.Errorf("%w: %v", service.ErrPersistence, driverErr)

	for name, respond := range map[string]func(*gin.Context, error){
		"listing": respondListingError,
		"account": respondAccountError,
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respond(c, wrapped)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want 500", name, w.Code)
		}
		body := w.Body.String()
		if strings.Contains(body, "pq:") || strings.Contains(body, "password") {
			t.Errorf("%s: driver detail leaked to the client: %s", name, body)
		}
		if !strings.Contains(body, "Internal server error") {
			t.Errorf("%s: body = %s, want the generic message", name, body)
		}
	}
}
