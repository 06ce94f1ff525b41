package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ilmpact/steam-export-api/internal/models"
	"github.com/ilmpact/steam-export-api/internal/service"
	appErrors "github.com/ilmpact/steam-export-api/pkg/errors"
	"github.com/ilmpact/steam-export-api/pkg/response"
)

// AuthHandler exposes the login endpoint for the shared export account.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Issue an export access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Export account credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid login payload"))
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
