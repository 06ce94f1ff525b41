package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ilmpact/steam-export-api/internal/service"
	"github.com/ilmpact/steam-export-api/pkg/config"
)

func buildAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-export"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := service.NewAuthService(nil, nil, config.AuthConfig{
		Username:     "export-bot",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		TokenExpiry:  time.Hour,
	})
	h := NewAuthHandler(svc)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	return r
}

func TestLoginEndpoint(t *testing.T) {
	router := buildAuthRouter(t)

	body := bytes.NewBufferString(`{"username":"export-bot","password":"s3cret-export"}`)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
			ExpiresIn   int64  `json:"expires_in"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, int64(3600), envelope.Data.ExpiresIn)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router := buildAuthRouter(t)

	body := bytes.NewBufferString(`{"username":"export-bot","password":"wrong"}`)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "INVALID_CREDENTIALS")
}

func TestLoginEndpointMalformedBody(t *testing.T) {
	router := buildAuthRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}
