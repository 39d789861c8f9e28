package repository

import (
	"context"
	"image"

	"go-newton-rings/pkg/models"
)

// ImageRepository abstracts where interferograms come from.
type ImageRepository interface {
	// FetchImage retrieves an image by reference (URL or path).
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)

	// ValidateImageURL validates if the provided reference is acceptable.
	ValidateImageURL(imageURL string) error

	// GetImageMetadata retrieves metadata about an image without downloading it.
	GetImageMetadata(ctx context.Context, imageURL string) (*models.ImageMetadata, error)
}
