package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blogapi/internal/domain"
	"blogapi/internal/dto"
	"blogapi/internal/netutil"
	"blogapi/internal/observability/metrics"
	"blogapi/internal/observability/middleware"
	"blogapi/internal/service"
	"blogapi/internal/store"

	"github.com/google/uuid"
)

var _ service.AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl is the session lifecycle manager: login mints a token pair
// and a device session, refresh rotates the pair behind the iat-equality
// anti-replay guard, logout revokes the caller's own session.
type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService
	now             func() time.Time
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
		TService:        tokenService,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Storage collaborators are consumed through narrow interfaces so tests can
// substitute in-memory fakes.

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
	Sessions() sessionStore
}

type storeTx interface {
	Users() userStore
	Credentials() credentialStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type credentialStore interface {
	UpsertPassword(ctx context.Context, c *domain.PasswordCredential) error
	GetPasswordByUserID(ctx context.Context, userID domain.UserID) (*domain.PasswordCredential, error)
}

type sessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByDeviceID(ctx context.Context, deviceID domain.DeviceID) (*domain.Session, error)
	Rotate(ctx context.Context, deviceID domain.DeviceID, prevIssuedAt, issuedAt, expiresAt time.Time, ip string) (bool, error)
	Revoke(ctx context.Context, s *domain.Session, at time.Time) error
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

func (g gormStoreAdapter) Sessions() sessionStore { return g.store.Sessions() }

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore             { return g.tx.Users() }
func (g gormTxAdapter) Credentials() credentialStore { return g.tx.Credentials() }

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if r.Login == "" || r.Email == "" {
		return nil, ErrEmptyCredential
	}
	if len(r.Password) < 8 {
		return nil, ErrPasswordLength
	}

	var out dto.RegisterResponse

	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		now := a.now()

		u := &domain.User{
			ID:        uuid.New(),
			Login:     r.Login,
			Email:     r.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err // unique constraints bubble up (login/email)
		}

		hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
		if err != nil {
			return err
		}
		cred := &domain.PasswordCredential{
			ID:          uuid.New(),
			UserID:      u.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  paramsJSON,
			PasswordVer: ver,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
			return err
		}

		out = dto.RegisterResponse{UserID: u.ID.String()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login verifies credentials, allocates a fresh device id and persists a new
// session carrying exactly the iat/exp the refresh token asserts. Concurrent
// sessions on other devices are left alone.
func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest, ip, deviceName string) (*dto.TokenPair, error) {
	result := "success"
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues(result).Inc()
	}()

	if r.LoginOrEmail == "" || r.Password == "" {
		result = "failure"
		return nil, ErrEmptyCredential
	}
	ip = normalizeIP(ip)
	deviceName = netutil.TruncateUserAgent(deviceName)

	var user *domain.User
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		var err error
		if looksLikeEmail(r.LoginOrEmail) {
			user, err = tx.Users().GetByEmail(ctx, r.LoginOrEmail)
		} else {
			user, err = tx.Users().GetByLogin(ctx, r.LoginOrEmail)
		}
		if err != nil {
			return domain.ErrInvalidCredentials // don't leak which field failed
		}

		cred, err := tx.Credentials().GetPasswordByUserID(ctx, user.ID)
		if err != nil {
			return domain.ErrInvalidCredentials
		}

		rehashNeeded, ok := a.PasswordService.Verify(r.Password, cred)
		if !ok {
			return domain.ErrInvalidCredentials
		}

		// Transparent rehash on policy upgrade.
		if rehashNeeded {
			newHash, newSalt, newParamsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
			if err != nil {
				return err
			}
			cred.Algo = algo
			cred.Hash = newHash
			cred.Salt = newSalt
			cred.ParamsJSON = newParamsJSON
			cred.PasswordVer = ver
			cred.UpdatedAt = a.now()
			if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	deviceID := uuid.New()
	pair, issuedAt, expiresAt, err := a.mintPair(user.ID, deviceID)
	if err != nil {
		result = "failure"
		return nil, err
	}

	sess := &domain.Session{
		ID:         uuid.New(),
		UserID:     user.ID,
		DeviceID:   deviceID,
		DeviceName: deviceName,
		IP:         ip,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
		CreatedAt:  a.now(),
	}
	if err := a.Store.Sessions().Create(ctx, sess); err != nil {
		result = "failure"
		return nil, err
	}

	metrics.TokensIssuedTotal.WithLabelValues("login", result).Inc()
	slog.Info("session created",
		"user_id", user.ID, "device_id", deviceID,
		"request_id", middleware.RequestIDFromContext(ctx))

	return pair, nil
}

// Refresh rotates the token pair for the presented refresh token. The stored
// issued_at must exactly equal the token's iat: a token that has already been
// rotated away carries a stale iat and is rejected even though its signature
// and expiry are still good. The swap itself is a conditional update, so of
// two racing refreshes only one wins.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken, ip string) (*dto.TokenPair, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", result).Inc()
	}()

	claims, sess, err := a.authenticateRefresh(ctx, refreshToken)
	if err != nil {
		result = "failure"
		return nil, err
	}

	pair, issuedAt, expiresAt, err := a.mintPair(claims.UserID, claims.DeviceID)
	if err != nil {
		result = "failure"
		return nil, err
	}

	rotated, err := a.Store.Sessions().Rotate(ctx, claims.DeviceID, sess.IssuedAt, issuedAt, expiresAt, normalizeIP(ip))
	if err != nil {
		result = "failure"
		return nil, err
	}
	if !rotated {
		// A concurrent refresh won the conditional update first.
		result = "failure"
		return nil, domain.ErrUnauthorized
	}

	slog.Info("session refreshed",
		"user_id", claims.UserID, "device_id", claims.DeviceID,
		"request_id", middleware.RequestIDFromContext(ctx))

	return pair, nil
}

// Logout revokes the session of the device the refresh token was issued to.
// A stale or replayed token cannot log anything out, and revoking twice fails.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	claims, sess, err := a.authenticateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := a.Store.Sessions().Revoke(ctx, sess, a.now()); err != nil {
		return err
	}
	slog.Info("session revoked",
		"user_id", claims.UserID, "device_id", claims.DeviceID,
		"request_id", middleware.RequestIDFromContext(ctx))
	return nil
}

// ValidateRefresh authenticates a presented refresh token against the session
// store without rotating it.
func (a *AuthServiceImpl) ValidateRefresh(ctx context.Context, refreshToken string) (service.RefreshClaims, error) {
	claims, _, err := a.authenticateRefresh(ctx, refreshToken)
	return claims, err
}

// authenticateRefresh verifies the token cryptographically, then against the
// session store: the session must exist, be unrevoked, belong to the token's
// user, and hold exactly the token's iat.
func (a *AuthServiceImpl) authenticateRefresh(ctx context.Context, refreshToken string) (service.RefreshClaims, *domain.Session, error) {
	claims, err := a.TService.VerifyRefreshToken(refreshToken)
	if err != nil {
		return service.RefreshClaims{}, nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	sess, err := a.Store.Sessions().GetByDeviceID(ctx, claims.DeviceID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return service.RefreshClaims{}, nil, domain.ErrUnauthorized
		}
		return service.RefreshClaims{}, nil, err
	}
	if sess.Deleted() || sess.UserID != claims.UserID {
		return service.RefreshClaims{}, nil, domain.ErrUnauthorized
	}
	if !sess.IssuedAt.Equal(claims.IssuedAt) {
		// Stale iat: this token was rotated away.
		return service.RefreshClaims{}, nil, domain.ErrUnauthorized
	}
	return claims, sess, nil
}

func (a *AuthServiceImpl) mintPair(userID domain.UserID, deviceID domain.DeviceID) (*dto.TokenPair, time.Time, time.Time, error) {
	access, err := a.TService.IssueAccessToken(userID)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	refresh, issuedAt, expiresAt, err := a.TService.IssueRefreshToken(userID, deviceID)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, issuedAt, expiresAt, nil
}

func looksLikeEmail(s string) bool { return strings.ContainsRune(s, '@') }

func normalizeIP(ip string) string {
	if normalized, ok := netutil.NormalizeIP(ip); ok {
		return normalized
	}
	return strings.TrimSpace(ip)
}
