package jwt

import (
	"context"
	"net/http"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWT_GenerateAndParse(t *testing.T) {
	j := New(WithSecretKey("test-secret"), WithExpiration(time.Minute))
	ctx := context.Background()

	token, err := j.Generate(ctx, 42, "alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "user_42_alice", token)

	claims, err := j.GetClaims(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestJWT_ExpiredToken(t *testing.T) {
	j := New(WithSecretKey("test-secret"), WithExpiration(-time.Minute))
	ctx := context.Background()

	token, err := j.Generate(ctx, 1, "alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := j.GetClaims(ctx, token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWT_InvalidToken(t *testing.T) {
	j := New(WithSecretKey("secret"))
	ctx := context.Background()

	claims, err := j.GetClaims(ctx, "invalid.token.string")
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = j.GetClaims(ctx, "user_1_alice")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWT_Validate_WrongSecret(t *testing.T) {
	j1 := New(WithSecretKey("secret1"))
	j2 := New(WithSecretKey("secret2"))
	ctx := context.Background()

	token, err := j1.Generate(ctx, 7, "bob")
	assert.NoError(t, err)

	claims, err := j2.GetClaims(ctx, token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	j := New()
	ctx := context.Background()

	tests := []struct {
		name          string
		header        string
		expectedToken string
		expectError   bool
	}{
		{"ValidBearer", "Bearer mytoken123", "mytoken123", false},
		{"LowercaseBearer", "bearer mytoken123", "mytoken123", false},
		{"NoHeader", "", "", true},
		{"InvalidFormat", "Token mytoken123", "", true},
		{"TooManyParts", "Bearer a b c", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := j.GetTokenFromRequest(ctx, req)
			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedToken, token)
			}
		})
	}
}

func TestJWT_ExpirationFollowsClock(t *testing.T) {
	issued := time.Now().Add(-30 * time.Minute).Truncate(time.Second)
	j := New(WithSecretKey("secret"), WithExpiration(time.Hour))
	j.now = func() time.Time { return issued }

	token, err := j.Generate(context.Background(), 3, "carol")
	assert.NoError(t, err)

	claims, err := j.GetClaims(context.Background(), token)
	assert.NoError(t, err)
	assert.True(t, claims.IssuedAt.Time.Equal(issued))
	assert.True(t, claims.ExpiresAt.Time.Equal(issued.Add(time.Hour)))
	assert.Equal(t, "readify", claims.Issuer)
}

func TestJWT_RejectsForeignTokens(t *testing.T) {
	j := New(WithSecretKey("secret"))
	ctx := context.Background()
	exp := jwtlib.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token func() string
	}{
		{
			name: "other issuer",
			token: func() string {
				s, _ := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
					UserID:           1,
					RegisteredClaims: jwtlib.RegisteredClaims{Issuer: "someone-else", ExpiresAt: exp},
				}).SignedString([]byte("secret"))
				return s
			},
		},
		{
			name: "no expiry",
			token: func() string {
				s, _ := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
					UserID:           1,
					RegisteredClaims: jwtlib.RegisteredClaims{Issuer: "readify"},
				}).SignedString([]byte("secret"))
				return s
			},
		},
		{
			name: "unsigned",
			token: func() string {
				s, _ := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{
					UserID:           1,
					RegisteredClaims: jwtlib.RegisteredClaims{Issuer: "readify", ExpiresAt: exp},
				}).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
				return s
			},
		},
		{
			name: "missing user id",
			token: func() string {
				s, _ := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
					RegisteredClaims: jwtlib.RegisteredClaims{Issuer: "readify", ExpiresAt: exp},
				}).SignedString([]byte("secret"))
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := j.GetClaims(ctx, tt.token())
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
