package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	"github.com/ShivamSharma6214/MeetAct/pkg/jwt"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entities.User) error {
	r.users[user.ID] = user
	return nil
}

func TestRefreshAccessToken_ExpiredTokenIsDistinguished(t *testing.T) {
	user := entities.NewUser("john@example.com", "John")
	repo := &fakeUserRepo{users: map[uuid.UUID]*entities.User{user.ID: user}}

	// A manager whose refresh tokens are born expired
	expired := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, -time.Minute)
	token, err := expired.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	svc := NewOAuthService(repo, nil, nil, expired)
	_, err = svc.RefreshAccessToken(context.Background(), token)
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_AUTH_TOKEN_EXPIRED, appErr.Code)
}

func TestRefreshAccessToken_GarbageTokenIsInvalid(t *testing.T) {
	user := entities.NewUser("john@example.com", "John")
	repo := &fakeUserRepo{users: map[uuid.UUID]*entities.User{user.ID: user}}
	manager := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	svc := NewOAuthService(repo, nil, nil, manager)
	_, err := svc.RefreshAccessToken(context.Background(), "not-a-jwt")
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCode_AUTH_INVALID_TOKEN, appErr.Code)
}

func TestRefreshAccessToken_RoundTrip(t *testing.T) {
	user := entities.NewUser("john@example.com", "John")
	repo := &fakeUserRepo{users: map[uuid.UUID]*entities.User{user.ID: user}}
	manager := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)

	token, err := manager.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	svc := NewOAuthService(repo, nil, nil, manager)
	resp, err := svc.RefreshAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.ExpiresIn)
}
