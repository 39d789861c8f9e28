package storage

import (
	"context"
	"fmt"
	"image"
	"os"
)

// LocalImageReader loads interferograms from the filesystem. Used by the CLI
// where images come straight from the capture machine.
type LocalImageReader struct{}

// NewLocalImageReader creates a filesystem-backed image fetcher.
func NewLocalImageReader() ImageFetcher {
	return &LocalImageReader{}
}

func (l *LocalImageReader) FetchImage(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
