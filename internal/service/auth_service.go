package service

import (
	"context"

	"blogapi/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, r dto.LoginRequest, ip, deviceName string) (*dto.TokenPair, error)
	Refresh(ctx context.Context, refreshToken, ip string) (*dto.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	// ValidateRefresh checks a presented refresh token against the session
	// store without rotating it; the security endpoints authenticate with it.
	ValidateRefresh(ctx context.Context, refreshToken string) (RefreshClaims, error)
}
