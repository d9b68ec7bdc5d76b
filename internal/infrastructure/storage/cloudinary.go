// Package storage uploads credential documents and profile pictures to
// Cloudinary.
package storage

import (
	"context"
	"errors"
	"fmt"

	"mediconnect/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadResult is what the rest of the app keeps about a stored file
type UploadResult struct {
	SecureURL string
	PublicID  string
}

type FileStorage interface {
	// Upload stores the local file at path under folder with the given public id
	Upload(ctx context.Context, path, folder, publicID string) (*UploadResult, error)
	// Delete removes a stored file by the public id Upload returned
	Delete(ctx context.Context, publicID string) error
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cfg config.CloudinaryConfig) (FileStorage, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, path, folder, publicID string) (*UploadResult, error) {
	resp, err := s.cld.Upload.Upload(ctx, path, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, errors.New("cloudinary upload: " + resp.Error.Message)
	}

	return &UploadResult{
		SecureURL: resp.SecureURL,
		PublicID:  resp.PublicID,
	}, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return errors.New("cloudinary destroy: " + resp.Error.Message)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy: unexpected result %q", resp.Result)
	}
	return nil
}
