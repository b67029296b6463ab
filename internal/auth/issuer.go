// AngelaMos | 2026
// issuer.go

package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Issuer signs identity tokens shaped like the external provider's. It
// exists for local development and tests; production tokens come from the
// provider itself.
type Issuer struct {
	privateKey jwk.Key
	issuer     string
	audience   string
}

type IdentityClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

func NewIssuer(privateKeyPath, issuer, audience string) (*Issuer, error) {
	privateKeyPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return NewIssuerFromKey(privateKey, issuer, audience)
}

func NewIssuerFromKey(privateKey jwk.Key, issuer, audience string) (*Issuer, error) {
	if err := prepareKey(privateKey); err != nil {
		return nil, err
	}

	return &Issuer{
		privateKey: privateKey,
		issuer:     issuer,
		audience:   audience,
	}, nil
}

func (i *Issuer) PublicKey() (jwk.Key, error) {
	publicKey, err := i.privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	return publicKey, nil
}

func (i *Issuer) Issue(claims IdentityClaims, ttl time.Duration) (string, error) {
	now := time.Now()

	subject := claims.Subject
	if subject == "" {
		subject = uuid.NewString()
	}

	builder := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(i.issuer).
		Audience([]string{i.audience}).
		Subject(subject).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		NotBefore(now).
		Claim("email", claims.Email)

	if claims.Name != "" {
		builder = builder.Claim("name", claims.Name)
	}
	if claims.Picture != "" {
		builder = builder.Claim("picture", claims.Picture)
	}

	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), i.privateKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// GenerateKey returns a fresh P-256 signing key ready for NewIssuerFromKey.
func GenerateKey() (jwk.Key, error) {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	key, err := jwk.Import(raw)
	if err != nil {
		return nil, fmt.Errorf("import private key: %w", err)
	}

	if err := prepareKey(key); err != nil {
		return nil, err
	}
	return key, nil
}

func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	jwkPrivate, err := GenerateKey()
	if err != nil {
		return err
	}

	privatePEM, err := jwk.Pem(jwkPrivate)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}

	if writeErr := os.WriteFile(privateKeyPath, privatePEM, 0o600); writeErr != nil {
		return fmt.Errorf("write private key: %w", writeErr)
	}

	jwkPublic, err := jwkPrivate.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	publicPEM, err := jwk.Pem(jwkPublic)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}

	//nolint:gosec // G306: public key is intentionally world-readable
	if writeErr := os.WriteFile(publicKeyPath, publicPEM, 0o644); writeErr != nil {
		return fmt.Errorf("write public key: %w", writeErr)
	}

	return nil
}
