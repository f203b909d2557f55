package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"blogapi/internal/domain"
	"blogapi/internal/dto"
	"blogapi/internal/service"
	"blogapi/internal/store"
)

var _ service.DeviceService = (*DeviceServiceImpl)(nil)

// DeviceServiceImpl is the read/terminate side of device sessions.
type DeviceServiceImpl struct {
	Sessions deviceSessionStore
	now      func() time.Time
}

type deviceSessionStore interface {
	GetByDeviceID(ctx context.Context, deviceID domain.DeviceID) (*domain.Session, error)
	AllActiveForUser(ctx context.Context, userID domain.UserID) ([]domain.Session, error)
	Revoke(ctx context.Context, s *domain.Session, at time.Time) error
}

func NewDeviceServiceImpl(st *store.Store) *DeviceServiceImpl {
	return &DeviceServiceImpl{
		Sessions: st.Sessions(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (d *DeviceServiceImpl) ActiveDevices(ctx context.Context, userID domain.UserID) ([]dto.DeviceView, error) {
	sessions, err := d.Sessions.AllActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeviceView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.DeviceView{
			DeviceID:       s.DeviceID.String(),
			Title:          s.DeviceName,
			IP:             s.IP,
			LastActiveDate: s.IssuedAt,
		})
	}
	return out, nil
}

// Terminate revokes one device session on behalf of callerUserID. Revoking a
// session that is already revoked fails rather than silently succeeding.
func (d *DeviceServiceImpl) Terminate(ctx context.Context, deviceID domain.DeviceID, callerUserID domain.UserID) error {
	sess, err := d.Sessions.GetByDeviceID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}
	if sess.UserID != callerUserID {
		return domain.ErrForbidden
	}
	return d.Sessions.Revoke(ctx, sess, d.now())
}

// TerminateOthers revokes every active session of the user except the one the
// caller is on. Each revocation is independent: one failure does not stop the
// rest, failures are collected and reported together.
func (d *DeviceServiceImpl) TerminateOthers(ctx context.Context, userID domain.UserID, currentDeviceID domain.DeviceID) error {
	sessions, err := d.Sessions.AllActiveForUser(ctx, userID)
	if err != nil {
		return err
	}
	var errs []error
	for i := range sessions {
		s := &sessions[i]
		if s.DeviceID == currentDeviceID {
			continue
		}
		if err := d.Sessions.Revoke(ctx, s, d.now()); err != nil {
			slog.Warn("terminate device failed",
				"user_id", userID, "device_id", s.DeviceID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
