package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrNotYetValid      = errors.New("jwtx: token not yet valid")
	ErrIssuer           = errors.New("jwtx: issuer mismatch")
	ErrWrongType        = errors.New("jwtx: wrong token type")

	// ErrWeakSecret is returned by NewCodec for secrets that must never
	// sign anything.
	ErrWeakSecret = errors.New("jwtx: signing secret too weak")
)

// MinSecretLen is the minimum accepted secret length in bytes. 32 bytes
// matches the HS256 hash width.
const MinSecretLen = 32

// Codec signs and verifies one class of token (access or refresh) with a
// dedicated HMAC-SHA256 secret. Pure apart from the clock; safe for
// concurrent use.
type Codec struct {
	tokenType TokenType
	secret    []byte
	issuer    string
	leeway    time.Duration
}

// CodecOption tweaks codec behaviour.
type CodecOption func(*Codec)

// WithLeeway allows small clock skew when validating exp/nbf.
func WithLeeway(d time.Duration) CodecOption {
	return func(c *Codec) { c.leeway = d }
}

// NewCodec builds a codec for one token type. The secret is mandatory and
// must meet the minimum length; there is deliberately no fallback default.
func NewCodec(tokenType TokenType, secret []byte, issuer string, opts ...CodecOption) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d",
			ErrWeakSecret, MinSecretLen, len(secret))
	}

	c := &Codec{
		tokenType: tokenType,
		secret:    secret,
		issuer:    issuer,
		leeway:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TokenType returns the class of token this codec handles.
func (c *Codec) TokenType() TokenType { return c.tokenType }

// Sign stamps iat/nbf/exp (now + ttl), a fresh jti, the issuer and the
// codec's token type onto the claims and returns the signed compact form.
func (c *Codec) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims.TokenType = c.tokenType
	claims.Issuer = c.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.ID == "" {
		claims.ID = NewJTI()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token. Failures are distinct: a tampered
// payload, an elapsed exp and an unparsable structure each map to their own
// sentinel so the caller can log the kind without leaking it to clients.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(c.leeway),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if claims.TokenType != c.tokenType {
		return Claims{}, fmt.Errorf("%w: got %q, want %q",
			ErrWrongType, claims.TokenType, c.tokenType)
	}

	return claims, nil
}

// mapParseError translates golang-jwt errors into the package sentinels.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
