package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, secret, issuer string, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(config.AuthConfig{
		JWTSecret:            secret,
		Issuer:               issuer,
		TokenLifetimeMinutes: 60,
	}, func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func signRaw(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	svc := newTestService(t, testSecret, "postpone-dev", fixedTime)

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "postpone-dev", claims.Issuer)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	issued := newTestService(t, testSecret, "", fixedTime)
	valid, err := issued.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		svc     *hmacJWTService
		token   string
		wantErr error
	}{
		{
			name:  "valid token",
			svc:   issued,
			token: valid,
		},
		{
			name:    "expired token",
			svc:     newTestService(t, testSecret, "", fixedTime.Add(2*time.Hour)),
			token:   valid,
			wantErr: ErrExpiredToken,
		},
		{
			name:  "within clock skew",
			svc:   newTestService(t, testSecret, "", fixedTime.Add(time.Hour+time.Minute)),
			token: valid,
		},
		{
			name: "not yet valid",
			svc:  issued,
			token: signRaw(t, testSecret, jwt.RegisteredClaims{
				Subject:   userID.String(),
				NotBefore: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
				ExpiresAt: jwt.NewNumericDate(fixedTime.Add(2 * time.Hour)),
			}),
			wantErr: ErrTokenNotYetValid,
		},
		{
			name:    "invalid signature",
			svc:     newTestService(t, wrongSecret, "", fixedTime),
			token:   valid,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed token",
			svc:     issued,
			token:   "this.is.not.a.valid.jwt.token",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty token",
			svc:     issued,
			token:   "",
			wantErr: ErrMissingToken,
		},
		{
			name:    "issuer required",
			svc:     newTestService(t, testSecret, "https://id.example.com", fixedTime),
			token:   valid,
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing expiry",
			svc:  issued,
			token: signRaw(t, testSecret, jwt.RegisteredClaims{
				Subject: userID.String(),
			}),
			wantErr: ErrInvalidToken,
		},
		{
			name: "subject is not a uuid",
			svc:  issued,
			token: signRaw(t, testSecret, jwt.RegisteredClaims{
				Subject:   "user@example.com",
				ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
			}),
			wantErr: ErrInvalidSubject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := tt.svc.ValidateToken(context.Background(), tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, testSecret, "", fixedTime)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
