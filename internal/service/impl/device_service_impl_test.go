package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogapi/internal/domain"

	"github.com/google/uuid"
)

func newDeviceFixture() (*DeviceServiceImpl, *memorySessionStore, *time.Time) {
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	sessions := newMemorySessionStore()
	svc := &DeviceServiceImpl{
		Sessions: sessions,
		now:      func() time.Time { return clock },
	}
	return svc, sessions, &clock
}

func seedSession(t *testing.T, sessions *memorySessionStore, userID domain.UserID, at time.Time, name string) domain.DeviceID {
	t.Helper()
	deviceID := uuid.New()
	err := sessions.Create(context.Background(), &domain.Session{
		ID:         uuid.New(),
		UserID:     userID,
		DeviceID:   deviceID,
		DeviceName: name,
		IP:         "192.0.2.1",
		IssuedAt:   at,
		ExpiresAt:  at.Add(24 * time.Hour),
		CreatedAt:  at,
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return deviceID
}

func TestActiveDevicesListsSessionsOldestFirst(t *testing.T) {
	svc, sessions, clock := newDeviceFixture()
	userID := uuid.New()

	first := seedSession(t, sessions, userID, *clock, "laptop")
	second := seedSession(t, sessions, userID, clock.Add(time.Minute), "phone")
	seedSession(t, sessions, uuid.New(), *clock, "someone else")

	views, err := svc.ActiveDevices(context.Background(), userID)
	if err != nil {
		t.Fatalf("active devices: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(views))
	}
	if views[0].DeviceID != first.String() || views[1].DeviceID != second.String() {
		t.Fatalf("unexpected order: %v", views)
	}
	if views[0].Title != "laptop" || views[0].IP != "192.0.2.1" {
		t.Fatalf("unexpected view: %+v", views[0])
	}
}

func TestTerminateUnknownDevice(t *testing.T) {
	svc, _, _ := newDeviceFixture()
	err := svc.Terminate(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTerminateForeignDevice(t *testing.T) {
	svc, sessions, clock := newDeviceFixture()
	owner := uuid.New()
	deviceID := seedSession(t, sessions, owner, *clock, "laptop")

	// The session exists but belongs to somebody else.
	err := svc.Terminate(context.Background(), deviceID, uuid.New())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	views, _ := svc.ActiveDevices(context.Background(), owner)
	if len(views) != 1 {
		t.Fatal("foreign caller must not revoke the session")
	}
}

func TestTerminateOwnDevice(t *testing.T) {
	svc, sessions, clock := newDeviceFixture()
	owner := uuid.New()
	deviceID := seedSession(t, sessions, owner, *clock, "laptop")

	if err := svc.Terminate(context.Background(), deviceID, owner); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	views, _ := svc.ActiveDevices(context.Background(), owner)
	if len(views) != 0 {
		t.Fatal("session still listed after terminate")
	}

	// Revocation is terminal, a second terminate fails.
	err := svc.Terminate(context.Background(), deviceID, owner)
	if !errors.Is(err, domain.ErrAlreadyDeleted) {
		t.Fatalf("expected ErrAlreadyDeleted, got %v", err)
	}
}

func TestTerminateOthersKeepsCurrentDevice(t *testing.T) {
	svc, sessions, clock := newDeviceFixture()
	userID := uuid.New()

	current := seedSession(t, sessions, userID, *clock, "laptop")
	seedSession(t, sessions, userID, clock.Add(time.Second), "phone")
	seedSession(t, sessions, userID, clock.Add(2*time.Second), "tablet")

	if err := svc.TerminateOthers(context.Background(), userID, current); err != nil {
		t.Fatalf("terminate others: %v", err)
	}

	views, err := svc.ActiveDevices(context.Background(), userID)
	if err != nil {
		t.Fatalf("active devices: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected only the current device to survive, got %d", len(views))
	}
	if views[0].DeviceID != current.String() {
		t.Fatalf("wrong survivor: %v", views[0].DeviceID)
	}
}

func TestTerminateOthersCollectsFailures(t *testing.T) {
	svc, _, clock := newDeviceFixture()
	userID := uuid.New()
	current := uuid.New()

	stuck := errors.New("revoke failed")
	svc.Sessions = &flakySessionStore{
		inner:   svc.Sessions,
		failFor: map[domain.DeviceID]error{},
	}
	flaky := svc.Sessions.(*flakySessionStore)

	mem := flaky.inner.(*memorySessionStore)
	bad := seedSession(t, mem, userID, *clock, "phone")
	good := seedSession(t, mem, userID, clock.Add(time.Second), "tablet")
	flaky.failFor[bad] = stuck

	err := svc.TerminateOthers(context.Background(), userID, current)
	if !errors.Is(err, stuck) {
		t.Fatalf("expected the collected revoke error, got %v", err)
	}

	// The failure on one device must not have stopped the other revocation.
	if _, err := mem.GetByDeviceID(context.Background(), good); err != nil {
		t.Fatalf("get: %v", err)
	}
	views, _ := svc.ActiveDevices(context.Background(), userID)
	for _, v := range views {
		if v.DeviceID == good.String() {
			t.Fatal("healthy device was not revoked")
		}
	}
}

type flakySessionStore struct {
	inner   deviceSessionStore
	failFor map[domain.DeviceID]error
}

func (f *flakySessionStore) GetByDeviceID(ctx context.Context, deviceID domain.DeviceID) (*domain.Session, error) {
	return f.inner.GetByDeviceID(ctx, deviceID)
}

func (f *flakySessionStore) AllActiveForUser(ctx context.Context, userID domain.UserID) ([]domain.Session, error) {
	return f.inner.AllActiveForUser(ctx, userID)
}

func (f *flakySessionStore) Revoke(ctx context.Context, s *domain.Session, at time.Time) error {
	if err, ok := f.failFor[s.DeviceID]; ok {
		return err
	}
	return f.inner.Revoke(ctx, s, at)
}
