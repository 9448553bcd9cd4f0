package store

import (
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Storages aggregates every persistence component used by the services.
type Storages struct {
	UserRepository     UserRepository
	CategoryRepository CategoryRepository
	TaskRepository     TaskRepository
	RevocationStore    RevocationStore
}

func NewStorages(db *DB, cache redis.Cmdable, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:     NewUserRepository(db, logger),
		CategoryRepository: NewCategoryRepository(db, logger),
		TaskRepository:     NewTaskRepository(db, logger),
		RevocationStore:    NewRevocationStore(cache, logger),
	}
}
