package auth

import (
	"context"
	stdErrors "errors"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/repositories"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/external/oauth"
	"github.com/ShivamSharma6214/MeetAct/pkg/jwt"
)

// OAuthService handles OAuth authentication
type OAuthService struct {
	userRepo     repositories.UserRepository
	google       *oauth.GoogleProvider
	stateManager *oauth.StateManager
	jwtManager   *jwt.Manager
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(
	userRepo repositories.UserRepository,
	google *oauth.GoogleProvider,
	stateManager *oauth.StateManager,
	jwtManager *jwt.Manager,
) *OAuthService {
	return &OAuthService{
		userRepo:     userRepo,
		google:       google,
		stateManager: stateManager,
		jwtManager:   jwtManager,
	}
}

// GoogleAuthURLResponse represents the response for auth URL request
type GoogleAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// GetGoogleAuthURL generates Google OAuth URL
func (s *OAuthService) GetGoogleAuthURL(ctx context.Context) (*GoogleAuthURLResponse, error) {
	state, err := s.stateManager.GenerateState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	return &GoogleAuthURLResponse{
		URL:   s.google.GetAuthURL(state),
		State: state,
	}, nil
}

// GoogleCallbackRequest represents the callback request
type GoogleCallbackRequest struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state" validate:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User         *entities.User `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"`
}

// HandleGoogleCallback handles the OAuth callback from Google
func (s *OAuthService) HandleGoogleCallback(ctx context.Context, req *GoogleCallbackRequest) (*AuthResponse, error) {
	// Validate state (one-time use)
	if !s.stateManager.ValidateState(ctx, req.State) {
		return nil, entities.ErrOAuthStateMismatch
	}

	// Exchange code for token
	token, err := s.google.ExchangeCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	// Get user info from Google
	googleUser, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	// Find or create user by email
	user, err := s.userRepo.FindByEmail(ctx, googleUser.Email)
	switch {
	case err == nil:
		user.UpdateLastLogin()
		if googleUser.Picture != "" {
			user.AvatarURL = &googleUser.Picture
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	case err == entities.ErrUserNotFound:
		user = entities.NewUser(googleUser.Email, googleUser.Name)
		if googleUser.Picture != "" {
			user.AvatarURL = &googleUser.Picture
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.issueTokens(user)
}

// RefreshAccessToken issues a new token pair from a refresh token. An
// expired token is distinguished from a malformed or mis-signed one so the
// client knows to re-authenticate rather than retry.
func (s *OAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		if stdErrors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired()
		}
		return nil, apperrors.ErrInvalidToken()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken()
	}

	return s.issueTokens(user)
}

// ValidateSession validates an access token and loads the user it belongs to
func (s *OAuthService) ValidateSession(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *OAuthService) issueTokens(user *entities.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}
