package cloudinary

import (
	"github.com/cloudinary/cloudinary-go/v2"
)

// New builds a client from a cloudinary:// URL. An empty URL yields a nil
// client, which disables image uploads instead of failing startup.
func New(cloudinaryURL string) (*cloudinary.Cloudinary, error) {
	if cloudinaryURL == "" {
		return nil, nil
	}
	return cloudinary.NewFromURL(cloudinaryURL)
}
