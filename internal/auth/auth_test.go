// AngelaMos | 2026
// auth_test.go

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/decorbook/internal/config"
	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/middleware"
)

var testIdentity = config.IdentityConfig{
	Issuer:         "https://id.decorbook.test",
	Audience:       "decorbook",
	EmailClaim:     "email",
	AcceptableSkew: time.Second,
}

func newTestIssuer(t *testing.T, cfg config.IdentityConfig) (*Issuer, jwk.Key) {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)

	iss, err := NewIssuerFromKey(key, cfg.Issuer, cfg.Audience)
	require.NoError(t, err)

	pub, err := iss.PublicKey()
	require.NoError(t, err)
	return iss, pub
}

func TestVerifier(t *testing.T) {
	ctx := context.Background()

	t.Run("Should accept a token from the trusted key", func(t *testing.T) {
		iss, pub := newTestIssuer(t, testIdentity)
		v, err := NewStaticVerifier(pub, testIdentity)
		require.NoError(t, err)

		tok, err := iss.Issue(IdentityClaims{
			Subject: "uid-1",
			Email:   "Ann@Example.com",
			Name:    "Ann",
		}, time.Hour)
		require.NoError(t, err)

		p, err := v.Verify(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", p.Email)
		assert.Equal(t, "uid-1", p.Subject)
		assert.Equal(t, "Ann", p.Name)
	})

	t.Run("Should reject a token signed by another key", func(t *testing.T) {
		iss, _ := newTestIssuer(t, testIdentity)
		_, otherPub := newTestIssuer(t, testIdentity)
		v, err := NewStaticVerifier(otherPub, testIdentity)
		require.NoError(t, err)

		tok, err := iss.Issue(IdentityClaims{Email: "a@x.com"}, time.Hour)
		require.NoError(t, err)

		_, err = v.Verify(ctx, tok)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("Should reject the wrong audience", func(t *testing.T) {
		other := testIdentity
		other.Audience = "someone-else"
		iss, pub := newTestIssuer(t, other)
		v, err := NewStaticVerifier(pub, testIdentity)
		require.NoError(t, err)

		tok, err := iss.Issue(IdentityClaims{Email: "a@x.com"}, time.Hour)
		require.NoError(t, err)

		_, err = v.Verify(ctx, tok)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("Should report expiry distinctly", func(t *testing.T) {
		iss, pub := newTestIssuer(t, testIdentity)
		v, err := NewStaticVerifier(pub, testIdentity)
		require.NoError(t, err)

		tok, err := iss.Issue(IdentityClaims{Email: "a@x.com"}, -time.Hour)
		require.NoError(t, err)

		_, err = v.Verify(ctx, tok)
		assert.ErrorIs(t, err, core.ErrTokenExpired)
	})

	t.Run("Should require the email claim", func(t *testing.T) {
		iss, pub := newTestIssuer(t, testIdentity)
		v, err := NewStaticVerifier(pub, testIdentity)
		require.NoError(t, err)

		tok, err := iss.Issue(IdentityClaims{}, time.Hour)
		require.NoError(t, err)

		_, err = v.Verify(ctx, tok)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("Should fetch signing keys from a jwks endpoint", func(t *testing.T) {
		iss, pub := newTestIssuer(t, testIdentity)
		set := jwk.NewSet()
		require.NoError(t, set.AddKey(pub))

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(set)
		}))
		defer srv.Close()

		cfg := testIdentity
		cfg.JWKSURL = srv.URL
		v, err := NewVerifier(ctx, cfg)
		require.NoError(t, err)

		tok, err := iss.Issue(IdentityClaims{Email: "b@x.com"}, time.Hour)
		require.NoError(t, err)

		p, err := v.Verify(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "b@x.com", p.Email)
	})

	t.Run("Should load a public key written by GenerateKeyPair", func(t *testing.T) {
		dir := t.TempDir()
		privPath, pubPath := dir+"/private.pem", dir+"/public.pem"
		require.NoError(t, GenerateKeyPair(privPath, pubPath))

		iss, err := NewIssuer(privPath, testIdentity.Issuer, testIdentity.Audience)
		require.NoError(t, err)

		cfg := testIdentity
		cfg.PublicKeyPath = pubPath
		v, err := NewVerifier(ctx, cfg)
		require.NoError(t, err)

		tok, err := iss.Issue(IdentityClaims{Email: "c@x.com"}, time.Hour)
		require.NoError(t, err)

		p, err := v.Verify(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "c@x.com", p.Email)
	})
}

type mockRoleStore struct {
	mock.Mock
}

func (m *mockRoleStore) AccessFor(ctx context.Context, email string) (*middleware.Access, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*middleware.Access)
	return a, args.Error(1)
}

func TestGuard(t *testing.T) {
	ctx := context.Background()

	admin := &middleware.Access{Email: "admin@x.com", Role: middleware.RoleAdmin}
	approved := &middleware.Access{
		Email:           "d@x.com",
		Role:            middleware.RoleDecorator,
		DecoratorStatus: middleware.DecoratorApproved,
	}
	pending := &middleware.Access{
		Email:           "p@x.com",
		Role:            middleware.RoleDecorator,
		DecoratorStatus: "pending",
	}

	tests := []struct {
		name    string
		access  *middleware.Access
		req     middleware.Requirement
		wantErr error
	}{
		{"Should pass an admin on admin routes", admin, middleware.Requirement{Role: middleware.RoleAdmin}, nil},
		{"Should not treat admin as a decorator", admin, middleware.Requirement{Role: middleware.RoleDecorator, ApprovedOnly: true}, core.ErrForbidden},
		{"Should pass an approved decorator", approved, middleware.Requirement{Role: middleware.RoleDecorator, ApprovedOnly: true}, nil},
		{"Should refuse a pending decorator", pending, middleware.Requirement{Role: middleware.RoleDecorator, ApprovedOnly: true}, core.ErrForbidden},
		{"Should pass any user when no role is demanded", pending, middleware.Requirement{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockRoleStore{}
			store.On("AccessFor", ctx, tt.access.Email).Return(tt.access, nil)

			got, err := NewGuard(store).Authorize(ctx, tt.access.Email, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.access, got)
		})
	}

	t.Run("Should map a missing record to unauthorized", func(t *testing.T) {
		store := &mockRoleStore{}
		store.On("AccessFor", ctx, "ghost@x.com").
			Return(nil, fmt.Errorf("get user: %w", core.ErrNotFound))

		_, err := NewGuard(store).Authorize(ctx, "ghost@x.com", middleware.Requirement{})
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("Should consult the store on every call", func(t *testing.T) {
		store := &mockRoleStore{}
		store.On("AccessFor", ctx, "u@x.com").
			Return(&middleware.Access{Email: "u@x.com", Role: middleware.RoleUser}, nil).Once()
		store.On("AccessFor", ctx, "u@x.com").
			Return(admin, nil).Once()

		g := NewGuard(store)
		_, err := g.Authorize(ctx, "u@x.com", middleware.Requirement{Role: middleware.RoleAdmin})
		require.ErrorIs(t, err, core.ErrForbidden)

		_, err = g.Authorize(ctx, "u@x.com", middleware.Requirement{Role: middleware.RoleAdmin})
		require.NoError(t, err)
		store.AssertNumberOfCalls(t, "AccessFor", 2)
	})
}
