package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
)

// HandoffJWTSigner implements RS256 signing for the hand-off token minted
// when a signup completes. Keys are held at adapter level so the application
// layer stays crypto-library agnostic.
type HandoffJWTSigner struct {
	kid        string
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewHandoffJWTSigner builds a signer from configured PEM keys.
func NewHandoffJWTSigner(kid, privateKeyPEM, publicKeyPEM string) (*HandoffJWTSigner, error) {
	if kid == "" {
		return nil, errors.New("jwt key id (kid) is required")
	}
	if privateKeyPEM == "" || publicKeyPEM == "" {
		return nil, errors.New("jwt private/public keys are required")
	}

	priv, err := parseRSAPrivate(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	pub, err := parseRSAPublic(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return &HandoffJWTSigner{
		kid:        kid,
		privateKey: priv,
		publicKey:  pub,
	}, nil
}

// NewEphemeralHandoffJWTSigner creates an in-memory keypair for local/dev use.
// This exists to unblock runtime startup when static keys are intentionally absent.
func NewEphemeralHandoffJWTSigner(kid string) (*HandoffJWTSigner, error) {
	if kid == "" {
		kid = "ephemeral-key-1"
	}
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	return &HandoffJWTSigner{
		kid:        kid,
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
	}, nil
}

type handoffJWTClaims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

func (s *HandoffJWTSigner) Sign(claims ports.HandoffClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, handoffJWTClaims{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	token.Header["kid"] = s.kid
	return token.SignedString(s.privateKey)
}

func (s *HandoffJWTSigner) ParseAndValidate(raw string) (ports.HandoffClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &handoffJWTClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return ports.HandoffClaims{}, err
	}
	claims, ok := parsed.Claims.(*handoffJWTClaims)
	if !ok || !parsed.Valid {
		return ports.HandoffClaims{}, errors.New("invalid token claims")
	}
	if claims.AccountID == "" {
		return ports.HandoffClaims{}, errors.New("token missing account_id")
	}

	kid, _ := parsed.Header["kid"].(string)

	return ports.HandoffClaims{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
		KeyID:     kid,
	}, nil
}

func parseRSAPrivate(raw string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, errors.New("invalid private PEM")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	keyAny, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := keyAny.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not RSA")
	}
	return key, nil
}

func parseRSAPublic(raw string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, errors.New("invalid public PEM")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := keyAny.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return key, nil
}
