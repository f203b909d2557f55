package service

import (
	"time"

	"blogapi/internal/domain"
)

// RefreshClaims are the verified contents of a refresh token.
type RefreshClaims struct {
	UserID   domain.UserID
	DeviceID domain.DeviceID
	IssuedAt time.Time
}

type TokenService interface {
	IssueAccessToken(userID domain.UserID) (string, error)
	// IssueRefreshToken returns the signed token together with the exact
	// iat/exp it carries, so the session row stores what the token asserts.
	IssueRefreshToken(userID domain.UserID, deviceID domain.DeviceID) (token string, issuedAt, expiresAt time.Time, err error)
	VerifyAccessToken(token string) (domain.UserID, error)
	VerifyRefreshToken(token string) (RefreshClaims, error)
}
