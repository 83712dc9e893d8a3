package cloudinary

import (
	"bytes"
	"context"
	"fmt"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader stores images on Cloudinary and hands back the
// public HTTPS URL of the stored asset.
type CloudinaryUploader struct {
	client *cld.Cloudinary
}

func NewCloudinaryUploader(client *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{client: client}
}

func (u *CloudinaryUploader) UploadBytes(ctx context.Context, folder, filename string, b []byte) (string, error) {
	res, err := u.client.Upload.Upload(ctx, bytes.NewReader(b), uploader.UploadParams{
		Folder:       folder,
		PublicID:     filename,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: empty secure url")
	}
	return res.SecureURL, nil
}
