package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// AvatarStore stores uploaded avatar images and returns a retrievable URL
type AvatarStore interface {
	UploadAvatar(ctx context.Context, file io.Reader, userID uint) (string, error)
}

// CloudinaryAvatarStore implements AvatarStore on Cloudinary
type CloudinaryAvatarStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryAvatarStore creates an avatar store from a CLOUDINARY_URL
// style connection string
func NewCloudinaryAvatarStore(url string) (*CloudinaryAvatarStore, error) {
	if url == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL environment variable not set")
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to configure Cloudinary: %w", err)
	}
	return &CloudinaryAvatarStore{cld: cld}, nil
}

// UploadAvatar uploads the image and returns its secure URL. A fresh public
// ID per upload keeps old avatar URLs valid for cached clients.
func (s *CloudinaryAvatarStore) UploadAvatar(ctx context.Context, file io.Reader, userID uint) (string, error) {
	params := uploader.UploadParams{
		Folder:         "inkwell/avatars",
		PublicID:       fmt.Sprintf("%d-%s", userID, uuid.NewString()),
		Transformation: "c_limit,w_400,h_400,q_auto",
	}

	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return result.SecureURL, nil
}
