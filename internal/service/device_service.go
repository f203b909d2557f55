package service

import (
	"context"

	"blogapi/internal/domain"
	"blogapi/internal/dto"
)

type DeviceService interface {
	ActiveDevices(ctx context.Context, userID domain.UserID) ([]dto.DeviceView, error)
	Terminate(ctx context.Context, deviceID domain.DeviceID, callerUserID domain.UserID) error
	TerminateOthers(ctx context.Context, userID domain.UserID, currentDeviceID domain.DeviceID) error
}
