package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess     TokenType = "access"
	TokenTypeGrant      TokenType = "grant"
	TokenTypeRedemption TokenType = "redemption"
)

// Claims extends jwt.RegisteredClaims with the loyalty payloads. Grant tokens
// carry PointCount + DefinitionID (Subject = issuer); redemption tokens carry
// InstanceID + DefinitionID (Subject = card holder).
type Claims struct {
	jwt.RegisteredClaims
	TokenType    TokenType `json:"token_type"`
	DefinitionID string    `json:"definition_id,omitempty"`
	InstanceID   string    `json:"instance_id,omitempty"`
	PointCount   int       `json:"point_count,omitempty"`
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongType    = errors.New("unexpected token type")
)

type Manager struct {
	signingKey         []byte
	issuer             string
	accessTokenTTL     time.Duration
	grantTokenTTL      time.Duration
	redemptionTokenTTL time.Duration
}

func NewManager(signingKey string, issuer string, accessTTL, grantTTL, redemptionTTL time.Duration) *Manager {
	return &Manager{
		signingKey:         []byte(signingKey),
		issuer:             issuer,
		accessTokenTTL:     accessTTL,
		grantTokenTTL:      grantTTL,
		redemptionTokenTTL: redemptionTTL,
	}
}

// GenerateAccessToken creates a signed JWT access token for a given user ID.
func (m *Manager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	claims := Claims{
		RegisteredClaims: m.registered(userID, m.accessTokenTTL),
		TokenType:        TokenTypeAccess,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

// GenerateGrantToken creates a signed token representing "pointCount points
// toward definitionID, issued by issuerID". Returns the token string and its
// claims; the claims ID (JTI) keys the single-use bookkeeping record.
func (m *Manager) GenerateGrantToken(issuerID, definitionID uuid.UUID, pointCount int) (string, *Claims, error) {
	claims := Claims{
		RegisteredClaims: m.registered(issuerID, m.grantTokenTTL),
		TokenType:        TokenTypeGrant,
		DefinitionID:     definitionID.String(),
		PointCount:       pointCount,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", nil, err
	}
	return signed, &claims, nil
}

// GenerateRedemptionToken creates a signed token representing "instanceID of
// definitionID, held by holderID, is full and may be redeemed".
func (m *Manager) GenerateRedemptionToken(holderID, instanceID, definitionID uuid.UUID) (string, error) {
	claims := Claims{
		RegisteredClaims: m.registered(holderID, m.redemptionTokenTTL),
		TokenType:        TokenTypeRedemption,
		DefinitionID:     definitionID.String(),
		InstanceID:       instanceID.String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

// GrantTokenTTL is the lifetime issued grant tokens carry; the bookkeeping
// record must not outlive it.
func (m *Manager) GrantTokenTTL() time.Duration { return m.grantTokenTTL }

// Validate parses and validates a token string, returning claims.
// Expired or tampered tokens fail here; the caller cannot distinguish the two
// beyond the wrapped jwt error.
func (m *Manager) Validate(tokenStr string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != m.issuer {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrWrongType
	}
	return claims, nil
}

func (m *Manager) registered(subject uuid.UUID, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}
}
