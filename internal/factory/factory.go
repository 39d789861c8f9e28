package factory

import (
	"fmt"
	"os"

	"go-newton-rings/internal/storage"
)

// StorageType represents different types of image storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for interferograms archived in Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system captures
	LocalStorage StorageType = "local"
)

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
}

// storageFactory implements StorageFactory
type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateStorage creates a storage implementation based on the specified type.
// The Azure backend reads its shared-key credentials from
// AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY.
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(), nil
	case AzureStorage:
		account := os.Getenv("AZURE_STORAGE_ACCOUNT")
		key := os.Getenv("AZURE_STORAGE_KEY")
		if account == "" || key == "" {
			return nil, fmt.Errorf("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		blobs, err := storage.NewAzureStorage(account, key)
		if err != nil {
			return nil, fmt.Errorf("azure storage: %w", err)
		}
		return storage.AsImageFetcher(blobs), nil
	case LocalStorage:
		return storage.NewLocalImageReader(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
