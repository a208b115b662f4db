package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, cfg Config, clk clock.Clock) *Authenticator {
	t.Helper()
	a, err := New(cfg, clk)
	require.NoError(t, err)
	return a
}

func TestLogin_PlainPassword(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := newAuth(t, Config{Password: "hunter2", Secret: []byte("s3cret"), TTL: time.Hour, Subject: "Maverick"}, clock.Fixed(now))

	_, err := a.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.EqualError(t, err, "Invalid credentials.")

	tok, err := a.Login("hunter2")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), tok.ExpiresAt)

	subject, err := a.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "Maverick", subject)
}

func TestLogin_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	a := newAuth(t, Config{PasswordHash: string(hash), Secret: []byte("s3cret")}, clock.Fixed(time.Now()))

	_, err = a.Login("hunter2")
	assert.NoError(t, err)
	_, err = a.Login("hunter3")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{Secret: []byte("x")}, clock.Fixed(time.Now()))
	assert.Error(t, err)
	_, err = New(Config{Password: "p"}, clock.Fixed(time.Now()))
	assert.Error(t, err)
	_, err = New(Config{PasswordHash: "not-bcrypt", Secret: []byte("x")}, clock.Fixed(time.Now()))
	assert.Error(t, err)
}

func TestVerify_Rejects(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := newAuth(t, Config{Password: "p", Secret: []byte("s3cret"), TTL: time.Hour}, clock.Fixed(now))
	tok, err := a.Login("p")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newAuth(t, Config{Password: "p", Secret: []byte("s3cret")}, clock.Fixed(now.Add(2*time.Hour)))
		_, err := later.Verify(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := newAuth(t, Config{Password: "p", Secret: []byte("different")}, clock.Fixed(now))
		_, err := other.Verify(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		forever, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = a.Verify(forever)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := a.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestMiddleware(t *testing.T) {
	a := newAuth(t, Config{Password: "p", Secret: []byte("s3cret"), Subject: "Maverick"}, clock.Fixed(time.Now()))
	tok, err := a.Login("p")
	require.NoError(t, err)

	var subject string
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = Subject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		code   int
		errMsg string
	}{
		{"missing", "", http.StatusUnauthorized, "No token provided"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "No token provided"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"valid", "Bearer " + tok.Token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.errMsg != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.errMsg, body["error"])
			}
		})
	}
	assert.Equal(t, "Maverick", subject)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))

	_, err = HashPassword("")
	assert.Error(t, err)
}
