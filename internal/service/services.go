package service

import (
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
	"golang.org/x/crypto/bcrypt"
)

type Services struct {
	AuthService     AuthService
	CategoryService CategoryService
	TaskService     TaskService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, mailer Mailer, cfg config.StructuredConfig, build models.AppInfo, logger *logger.Logger) (*Services, error) {
	codec, err := NewTokenCodec(cfg.App.TokenSignKey, cfg.App.TokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("creating token codec: %w", err)
	}

	authService, err := NewAuthService(AuthDeps{
		UserRepository:  storages.UserRepository,
		RevocationStore: storages.RevocationStore,
		Codec:           codec,
		Hasher:          NewPasswordHasher(bcrypt.DefaultCost),
		Mailer:          mailer,
		Validator:       validators.NewUserValidator(),
	}, cfg, logger)
	if err != nil {
		return nil, err
	}

	appInfoService, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:     authService,
		CategoryService: NewCategoryService(storages.CategoryRepository, storages.TaskRepository, logger),
		TaskService:     NewTaskService(storages.TaskRepository, storages.CategoryRepository, logger),
		AppInfoService:  appInfoService,
	}, nil
}
