package service

import (
	"context"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

type appInfoService struct {
	info models.AppInfo

	logger *logger.Logger
}

// NewAppInfoService reports cfg's name and version together with the build
// metadata the binary was linked with.
func NewAppInfoService(cfg config.App, build models.AppInfo, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		info: models.AppInfo{
			Name:        cfg.Name,
			Version:     cfg.Version,
			BuildDate:   build.BuildDate,
			BuildCommit: build.BuildCommit,
		},
		logger: logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.info.Version
}

func (s *appInfoService) GetAppInfo(ctx context.Context) models.AppInfo {
	return s.info
}
