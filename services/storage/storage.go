package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryImageStore uploads tour pictures to a Cloudinary folder.
type CloudinaryImageStore struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// NewCloudinaryImageStore returns nil, nil when credentials are missing so
// callers can treat uploads as disabled.
func NewCloudinaryImageStore(cloudName, apiKey, apiSecret, folder string, logger *zap.Logger) (*CloudinaryImageStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	logger.Info("Cloudinary image store ready", zap.String("cloud", cloudName), zap.String("folder", folder))
	return &CloudinaryImageStore{cld: cld, folder: folder, logger: logger}, nil
}

func (s *CloudinaryImageStore) UploadImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	params := uploader.UploadParams{
		Folder:   s.folder,
		PublicID: publicID(filename),
	}
	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected image: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no URL")
	}
	s.logger.Debug("Image uploaded", zap.String("publicId", result.PublicID))
	return result.SecureURL, nil
}

// publicID derives a Cloudinary id from the upload's base name.
func publicID(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, base)
	return base
}
