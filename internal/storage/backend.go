package storage

import (
	"fmt"

	"bizdocs/internal/config"
)

// Backend names accepted in STORAGE_BACKEND.
const (
	BackendLocal = "local"
	BackendMinIO = "minio"
)

// New selects and constructs the storage backend from configuration.
func New(cfg *config.AppConfig) (Storage, error) {
	switch cfg.Storage.Backend {
	case BackendLocal, "":
		return NewLocal(cfg.Storage)
	case BackendMinIO:
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}
