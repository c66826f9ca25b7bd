// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, token signing)
// from the domain logic. It has no I/O beyond reading key material at startup.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/unimart/internal/platform/constants"
)

// maxTokenLength rejects oversized credentials before any decoding work.
const maxTokenLength = 4096

// # Validation Failures

var (
	// ErrTokenMalformed is returned when a token cannot be parsed, its signature
	// does not verify, or its claims are structurally unusable.
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrTokenExpired is returned for a correctly signed token whose expiry has passed.
	ErrTokenExpired = errors.New("sec: token is expired")
)

// # Codec

// TokenCodec issues and validates signed, time-bounded identity tokens.
//
// The codec carries only the signing key and immutable settings, so one instance
// is shared by every request goroutine.
type TokenCodec struct {
	method       jwt.SigningMethod
	signingKey   any
	verifyingKey any
	issuer       string
	ttl          time.Duration
	now          func() time.Time
}

// CodecOption customizes a [TokenCodec] at construction time.
type CodecOption func(*TokenCodec)

// WithClock replaces the wall clock used for issue and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) {
		if now != nil {
			codec.now = now
		}
	}
}

// NewHMACCodec creates a codec that signs with HS256 using a shared process-wide secret.
func NewHMACCodec(secret []byte, ttl time.Duration, issuer string, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) < constants.MinSecretLength {
		return nil, fmt.Errorf("sec: signing secret must be at least %d bytes", constants.MinSecretLength)
	}

	return newCodec(jwt.SigningMethodHS256, secret, secret, ttl, issuer, opts)
}

// NewRSACodec creates a codec that signs with RS256.
// It reads PEM encoded RSA keys from the provided filesystem paths.
func NewRSACodec(privateKeyPath, publicKeyPath string, ttl time.Duration, issuer string, opts ...CodecOption) (*TokenCodec, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return NewRSACodecFromKeys(privateKey, publicKey, ttl, issuer, opts...)
}

// NewRSACodecFromKeys creates an RS256 codec from already parsed keys.
func NewRSACodecFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, ttl time.Duration, issuer string, opts ...CodecOption) (*TokenCodec, error) {
	if privateKey == nil || publicKey == nil {
		return nil, errors.New("sec: rsa key pair is required")
	}
	return newCodec(jwt.SigningMethodRS256, privateKey, publicKey, ttl, issuer, opts)
}

func newCodec(method jwt.SigningMethod, signingKey, verifyingKey any, ttl time.Duration, issuer string, opts []CodecOption) (*TokenCodec, error) {
	if ttl < time.Second {
		return nil, fmt.Errorf("sec: token ttl must be at least one second, got %s", ttl)
	}

	codec := &TokenCodec{
		method:       method,
		signingKey:   signingKey,
		verifyingKey: verifyingKey,
		issuer:       issuer,
		ttl:          ttl,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(codec)
	}
	return codec, nil
}

// TTL returns the fixed lifetime applied to every issued token.
func (codec *TokenCodec) TTL() time.Duration {
	return codec.ttl
}

// # Issue & Validate

// Issue creates a signed token for subject that expires TTL after the issue time.
func (codec *TokenCodec) Issue(subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("sec: cannot issue a token without a subject")
	}

	// Expiry is compared with second granularity, so both instants are truncated.
	issuedAt := codec.now().Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    codec.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(codec.ttl)),
	}

	signed, err := jwt.NewWithClaims(codec.method, claims).SignedString(codec.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate verifies the signature and expiry of token and returns its subject.
//
// Every failure is reported as [ErrTokenExpired] or [ErrTokenMalformed]; the
// wrapped library error is kept for server-side logging.
func (codec *TokenCodec) Validate(token string) (string, error) {
	if token == "" || len(token) > maxTokenLength {
		return "", ErrTokenMalformed
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, codec.keyFunc,
		jwt.WithValidMethods([]string{codec.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(codec.issuer),
		jwt.WithTimeFunc(codec.now),
	)

	if err != nil {
		// The signature is verified before claims, so an expiry error implies authenticity.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return "", fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrTokenMalformed
	}

	return claims.Subject, nil
}

// keyFunc returns the verification key after confirming the algorithm family.
func (codec *TokenCodec) keyFunc(token *jwt.Token) (any, error) {
	if token.Method.Alg() != codec.method.Alg() {
		return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
	}
	return codec.verifyingKey, nil
}

// IsCredentialError reports whether err is one of the token validation failures.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) || errors.Is(err, ErrTokenExpired)
}
