package repository

import (
	"context"
	"image"
	"net/url"
	"path"
	"strings"

	"go-newton-rings/internal/storage"
	"go-newton-rings/pkg/models"
	"go-newton-rings/pkg/validation"
)

// HTTPImageRepository implements ImageRepository on top of an HTTP fetcher
type HTTPImageRepository struct {
	fetcher      storage.ImageFetcher
	urlValidator *validation.URLValidator
}

// NewHTTPImageRepository creates a new HTTP-based image repository
func NewHTTPImageRepository(fetcher storage.ImageFetcher) ImageRepository {
	return &HTTPImageRepository{
		fetcher:      fetcher,
		urlValidator: validation.NewURLValidator(),
	}
}

// FetchImage retrieves an interferogram from a URL
func (r *HTTPImageRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	return r.fetcher.FetchImage(ctx, imageURL)
}

// ValidateImageURL checks that the reference is an absolute http(s) URL
func (r *HTTPImageRepository) ValidateImageURL(imageURL string) error {
	return r.urlValidator.ValidateImageURL(imageURL)
}

// GetImageMetadata infers image metadata from the URL without downloading.
// Dimensions are only known after decoding, so they stay zero here.
func (r *HTTPImageRepository) GetImageMetadata(ctx context.Context, imageURL string) (*models.ImageMetadata, error) {
	if err := r.ValidateImageURL(imageURL); err != nil {
		return nil, err
	}

	format := "unknown"
	contentType := "application/octet-stream"
	if parsed, err := url.Parse(imageURL); err == nil {
		switch strings.ToLower(path.Ext(parsed.Path)) {
		case ".png":
			format, contentType = "png", "image/png"
		case ".jpg", ".jpeg":
			format, contentType = "jpeg", "image/jpeg"
		case ".bmp":
			format, contentType = "bmp", "image/bmp"
		case ".tif", ".tiff":
			format, contentType = "tiff", "image/tiff"
		}
	}

	return &models.ImageMetadata{
		ContentType: contentType,
		Format:      format,
	}, nil
}
