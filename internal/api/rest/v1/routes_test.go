//go:build unit
// +build unit

package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestSetupRoutes_RoutesRegistered verifies that routes are properly registered
func TestSetupRoutes_RoutesRegistered(t *testing.T) {
	r := gin.New()

	SetupRoutes(r, new(MockKeyPairService), new(MockCryptoKeyMetadataService), new(MockSignatureService), new(MockDigestService))

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, route := range []string{
		"POST " + BasePath + "/keys",
		"POST " + BasePath + "/keys/import",
		"GET " + BasePath + "/keys",
		"GET " + BasePath + "/keys/:id",
		"GET " + BasePath + "/keys/:id/pem",
		"PUT " + BasePath + "/keys/:id/password",
		"DELETE " + BasePath + "/keys/:id",
		"POST " + BasePath + "/signatures",
		"POST " + BasePath + "/signatures/verify",
		"POST " + BasePath + "/digests",
	} {
		assert.True(t, registered[route], "route %s should be registered", route)
	}

	// Invalid bodies are rejected before any service is reached
	for _, url := range []string{"/api/v1/cf/keys", "/api/v1/cf/digests", "/api/v1/cf/signatures"} {
		req, _ := http.NewRequest("POST", url, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}
