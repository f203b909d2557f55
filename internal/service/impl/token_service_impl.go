package impl

import (
	"errors"
	"fmt"
	"time"

	"blogapi/internal/domain"
	"blogapi/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type TokenConfig struct {
	Issuer     string        // e.g. "blogapi"
	Audience   string        // e.g. "blog-clients"
	AccessTTL  time.Duration // e.g. 10 * time.Minute
	RefreshTTL time.Duration // e.g. 30 * 24h
	SigningKey []byte        // HS256 secret; must be non-empty at startup
}

// ====== Claims ======

type AccessClaims struct {
	jwt.RegisteredClaims // sub == user id
}

type RefreshClaims struct {
	DID                  string `json:"did"` // device id
	jwt.RegisteredClaims        // sub == user id
}

// ====== Service ======

var _ service.TokenService = (*TokenServiceImpl)(nil)

type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) (*TokenServiceImpl, error) {
	if len(cfg.SigningKey) == 0 {
		// Configuration failure: the process must refuse to serve, callers
		// treat this as fatal at startup.
		return nil, errors.New("token service: empty signing key")
	}
	return &TokenServiceImpl{
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (t *TokenServiceImpl) IssueAccessToken(userID domain.UserID) (string, error) {
	now := t.now().Truncate(time.Second)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

// IssueRefreshToken signs a refresh token bound to (user, device) and returns
// the iat/exp it carries. Timestamps are second precision: the session row
// stores them verbatim and the rotation guard compares them for exact
// equality against a later presented token.
func (t *TokenServiceImpl) IssueRefreshToken(userID domain.UserID, deviceID domain.DeviceID) (string, time.Time, time.Time, error) {
	now := t.now().Truncate(time.Second)
	issuedAt := now
	expiresAt := now.Add(t.cfg.RefreshTTL)

	claims := RefreshClaims{
		DID: deviceID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.cfg.SigningKey)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return signed, issuedAt, expiresAt, nil
}

func (t *TokenServiceImpl) VerifyAccessToken(tokenStr string) (domain.UserID, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if claims.Issuer != t.cfg.Issuer {
		return uuid.Nil, fmt.Errorf("%w: bad issuer", domain.ErrInvalidToken)
	}
	if !containsAudience(claims.Audience, t.cfg.Audience) {
		return uuid.Nil, fmt.Errorf("%w: bad audience", domain.ErrInvalidToken)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", domain.ErrInvalidToken)
	}
	return userID, nil
}

func (t *TokenServiceImpl) VerifyRefreshToken(tokenStr string) (service.RefreshClaims, error) {
	claims := &RefreshClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !tok.Valid {
		return service.RefreshClaims{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if claims.Issuer != t.cfg.Issuer {
		return service.RefreshClaims{}, fmt.Errorf("%w: bad issuer", domain.ErrInvalidToken)
	}
	if !containsAudience(claims.Audience, t.cfg.Audience) {
		return service.RefreshClaims{}, fmt.Errorf("%w: bad audience", domain.ErrInvalidToken)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return service.RefreshClaims{}, fmt.Errorf("%w: bad subject", domain.ErrInvalidToken)
	}
	deviceID, err := uuid.Parse(claims.DID)
	if err != nil {
		return service.RefreshClaims{}, fmt.Errorf("%w: bad device id", domain.ErrInvalidToken)
	}
	if claims.IssuedAt == nil {
		return service.RefreshClaims{}, fmt.Errorf("%w: missing iat", domain.ErrInvalidToken)
	}
	return service.RefreshClaims{
		UserID:   userID,
		DeviceID: deviceID,
		IssuedAt: claims.IssuedAt.Time.UTC(),
	}, nil
}

// containsAudience checks if the expected audience is present in the claim audience list.
func containsAudience(aud jwt.ClaimStrings, expected string) bool {
	for _, a := range aud {
		if a == expected {
			return true
		}
	}
	return false
}
