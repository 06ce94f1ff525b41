package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ilmpact/steam-export-api/internal/models"
	"github.com/ilmpact/steam-export-api/internal/service"
	"github.com/ilmpact/steam-export-api/pkg/config"
)

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-export"), bcrypt.MinCost)
	require.NoError(t, err)
	return service.NewAuthService(nil, nil, config.AuthConfig{
		Username:     "export-bot",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		TokenExpiry:  time.Hour,
	})
}

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newAuthService(t)

	r := gin.New()
	r.Use(JWT(auth))
	r.GET("/protected", func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})

	perform := func(header string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}

	t.Run("missing header", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, perform("").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, perform("Token abc").Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, perform("Bearer garbage").Code)
	})

	t.Run("valid token", func(t *testing.T) {
		resp, err := auth.Login(models.LoginRequest{Username: "export-bot", Password: "s3cret-export"})
		require.NoError(t, err)

		rr := perform("Bearer " + resp.AccessToken)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), `"username":"export-bot"`)
	})
}
