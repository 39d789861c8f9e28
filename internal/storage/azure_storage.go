package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStorage retrieves interferograms archived in Azure blob storage. Lab
// rigs upload each captured frame there before analysis.
type BlobStorage interface {
	GetImage(ctx context.Context, blobURL string) (image.Image, error)
}

type azureStorage struct {
	client *azblob.Client
}

func NewAzureStorage(accountName string, accountKey string) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureStorage{client: client}, nil
}

// AsImageFetcher adapts a BlobStorage to the ImageFetcher interface so the
// repository layer stays backend-agnostic.
func AsImageFetcher(blobs BlobStorage) ImageFetcher {
	return &blobImageFetcher{blobs: blobs}
}

type blobImageFetcher struct {
	blobs BlobStorage
}

func (f *blobImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	return f.blobs.GetImage(ctx, imageURL)
}

// GetImage downloads a blob addressed as https://host/container?blob=name
// and decodes it.
func (s *azureStorage) GetImage(ctx context.Context, blobURL string) (image.Image, error) {
	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}

	containerName := parsedURL.Path[1:]
	blobName := parsedURL.Query().Get("blob")
	if containerName == "" || blobName == "" {
		return nil, fmt.Errorf("blob URL must name a container and a blob query parameter")
	}

	downloadResponse, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer downloadResponse.Body.Close()

	img, _, err := image.Decode(downloadResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode blob image: %w", err)
	}
	return img, nil
}
