package file

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores a named byte stream with the external file storage and
// returns a durable URL for it.
type Uploader interface {
	UploadStream(ctx context.Context, name string, content io.Reader) (string, error)
}

type CloudinaryUploader struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
}

func New(cloudName, apiKey, apiSecret, folder string) *CloudinaryUploader {
	return &CloudinaryUploader{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
	}
}

// UploadStream sends the content to Cloudinary and returns the secure URL.
// Document streams are passed through untouched; no local copy is kept.
func (f *CloudinaryUploader) UploadStream(ctx context.Context, name string, content io.Reader) (string, error) {
	cld, err := cloudinary.NewFromParams(f.cloudName, f.apiKey, f.apiSecret)
	if err != nil {
		return "", err
	}

	uploadResult, err := cld.Upload.Upload(ctx, content, uploader.UploadParams{
		Folder:   f.folder,
		PublicID: name,
	})
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", name, err)
	}

	return uploadResult.SecureURL, nil
}
