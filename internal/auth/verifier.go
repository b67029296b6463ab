// AngelaMos | 2026
// verifier.go

package auth

import (
	"context"
	"crypto"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/decorbook/internal/config"
	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/middleware"
)

const jwksRefreshInterval = 15 * time.Minute

type keySource interface {
	keySet(ctx context.Context) (jwk.Set, error)
}

// Verifier checks bearer tokens minted by the external identity provider
// and extracts the principal's email. It never consults the role store.
type Verifier struct {
	keys       keySource
	issuer     string
	audience   string
	emailClaim string
	skew       time.Duration
}

func NewVerifier(ctx context.Context, cfg config.IdentityConfig) (*Verifier, error) {
	var src keySource

	switch {
	case cfg.JWKSURL != "":
		remote := &remoteKeys{url: cfg.JWKSURL}
		if _, err := remote.keySet(ctx); err != nil {
			return nil, fmt.Errorf("fetch jwks: %w", err)
		}
		src = remote
	case cfg.PublicKeyPath != "":
		publicPEM, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read public key: %w", err)
		}
		key, err := jwk.ParseKey(publicPEM, jwk.WithPEM(true))
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		set, err := signingSet(key)
		if err != nil {
			return nil, err
		}
		src = staticKeys{set: set}
	default:
		return nil, fmt.Errorf("no identity key source configured")
	}

	return newVerifier(src, cfg), nil
}

// NewStaticVerifier trusts a single public key, as used with tokens minted
// by Issuer.
func NewStaticVerifier(
	publicKey jwk.Key,
	cfg config.IdentityConfig,
) (*Verifier, error) {
	set, err := signingSet(publicKey)
	if err != nil {
		return nil, err
	}
	return newVerifier(staticKeys{set: set}, cfg), nil
}

func newVerifier(src keySource, cfg config.IdentityConfig) *Verifier {
	emailClaim := cfg.EmailClaim
	if emailClaim == "" {
		emailClaim = "email"
	}

	return &Verifier{
		keys:       src,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		emailClaim: emailClaim,
		skew:       cfg.AcceptableSkew,
	}
}

func (v *Verifier) Verify(
	ctx context.Context,
	tokenString string,
) (*middleware.Principal, error) {
	set, err := v.keys.keySet(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify token: load keys: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithAcceptableSkew(v.skew),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	if err := token.Get(v.emailClaim, &email); err != nil || email == "" {
		return nil, fmt.Errorf(
			"verify token: missing %s claim: %w",
			v.emailClaim,
			core.ErrTokenInvalid,
		)
	}

	p := &middleware.Principal{
		Subject: subject,
		Email:   strings.ToLower(strings.TrimSpace(email)),
	}
	//nolint:errcheck // profile claims are optional
	_ = token.Get("name", &p.Name)
	//nolint:errcheck // profile claims are optional
	_ = token.Get("picture", &p.Picture)

	return p, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

func signingSet(key jwk.Key) (jwk.Set, error) {
	if err := prepareKey(key); err != nil {
		return nil, err
	}

	set := jwk.NewSet()
	if err := set.AddKey(key); err != nil {
		return nil, fmt.Errorf("add key to set: %w", err)
	}
	return set, nil
}

// prepareKey pins ES256 and derives the key id from the RFC 7638
// thumbprint so a private key and its public half agree on kid.
func prepareKey(key jwk.Key) error {
	if _, ok := key.Algorithm(); !ok {
		if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
			return fmt.Errorf("set algorithm: %w", err)
		}
	}

	if _, ok := key.KeyID(); ok {
		return nil
	}

	thumb, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return fmt.Errorf("key thumbprint: %w", err)
	}
	if err := key.Set(jwk.KeyIDKey, base64.RawURLEncoding.EncodeToString(thumb)); err != nil {
		return fmt.Errorf("set key id: %w", err)
	}
	return nil
}

type staticKeys struct {
	set jwk.Set
}

func (s staticKeys) keySet(context.Context) (jwk.Set, error) {
	return s.set, nil
}

// remoteKeys caches a provider's published JWKS and refetches it once the
// refresh interval lapses. A failed refetch keeps serving the stale set.
type remoteKeys struct {
	url string

	mu        sync.Mutex
	set       jwk.Set
	fetchedAt time.Time
}

func (r *remoteKeys) keySet(ctx context.Context) (jwk.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.set != nil && time.Since(r.fetchedAt) < jwksRefreshInterval {
		return r.set, nil
	}

	set, err := jwk.Fetch(ctx, r.url)
	if err != nil {
		if r.set != nil {
			return r.set, nil
		}
		return nil, err
	}

	r.set = set
	r.fetchedAt = time.Now()
	return set, nil
}
