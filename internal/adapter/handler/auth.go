package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	"github.com/ShivamSharma6214/MeetAct/internal/usecase/auth"
)

// Auth handles authentication HTTP requests
type Auth struct {
	oauthService *auth.OAuthService
	logger       *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(oauthService *auth.OAuthService, logger *zap.Logger) *Auth {
	return &Auth{
		oauthService: oauthService,
		logger:       logger,
	}
}

// GoogleLogin handles GET /v1/auth/google/login
func (h *Auth) GoogleLogin(c echo.Context) error {
	authURL, err := h.oauthService.GetGoogleAuthURL(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", err))
	}

	return c.Redirect(http.StatusTemporaryRedirect, authURL.URL)
}

// GoogleCallback handles GET /v1/auth/google/callback
func (h *Auth) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("missing code or state parameter"))
	}

	resp, err := h.oauthService.HandleGoogleCallback(c.Request().Context(), &auth.GoogleCallbackRequest{
		Code:  code,
		State: state,
	})
	if err != nil {
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", err))
	}

	return c.JSON(http.StatusOK, resp)
}

// RefreshToken handles POST /v1/auth/refresh
func (h *Auth) RefreshToken(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := BindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	resp, err := h.oauthService.RefreshAccessToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// Me handles GET /v1/auth/me
func (h *Auth) Me(c echo.Context) error {
	user, ok := c.Get("user").(*entities.User)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	return c.JSON(http.StatusOK, user)
}
