package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/pkg/logger"
)

var allowedUploadExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".mp4":  {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".avi": {},
	".mov": {},
	".wmv": {},
}

func AllowedUpload(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := allowedUploadExtensions[ext]
	return ok
}

// DetectMediaType classifies an uploaded filename as photo or video.
func DetectMediaType(filename string) models.GalleryMediaType {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := videoExtensions[ext]; ok {
		return models.GalleryMediaVideo
	}
	return models.GalleryMediaPhoto
}

// ObjectStore is the slice of the object storage client the media flow
// needs. Implemented by storage.MinIOClient; tests substitute an in-memory
// fake.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, objectName string) error
	PublicURL(objectName string) string
}

type MediaService struct {
	Store ObjectStore
}

func NewMediaService(store ObjectStore) *MediaService {
	return &MediaService{Store: store}
}

// ResolvedMedia reports which source won the upload > explicit URL >
// unchanged precedence.
type ResolvedMedia struct {
	URL               string
	FromUpload        bool
	Filename          string
	UnsupportedUpload bool
}

// Resolve applies the media precedence rule shared by all content kinds:
// a valid upload always wins, an explicit URL wins over the stored value,
// and with neither the stored value stays. An upload with a disallowed
// extension does not abort the request; it falls back to the explicit URL
// when one was supplied, otherwise to the stored value.
func (m *MediaService) Resolve(ctx context.Context, ownerID uuid.UUID, upload *multipart.FileHeader, explicitURL, current string) (ResolvedMedia, error) {
	explicitURL = strings.TrimSpace(explicitURL)

	if upload != nil && upload.Filename != "" {
		if !AllowedUpload(upload.Filename) {
			logger.WarnWithUser(ownerID.String(), "upload_rejected", map[string]interface{}{
				"filename": upload.Filename,
			})
			resolved := ResolvedMedia{URL: current, UnsupportedUpload: true}
			if explicitURL != "" {
				resolved.URL = explicitURL
			}
			return resolved, nil
		}

		url, err := m.store(ctx, ownerID, upload)
		if err != nil {
			return ResolvedMedia{}, err
		}
		return ResolvedMedia{URL: url, FromUpload: true, Filename: upload.Filename}, nil
	}

	if explicitURL != "" {
		return ResolvedMedia{URL: explicitURL}, nil
	}
	return ResolvedMedia{URL: current}, nil
}

func (m *MediaService) store(ctx context.Context, ownerID uuid.UUID, upload *multipart.FileHeader) (string, error) {
	stream, err := upload.Open()
	if err != nil {
		return "", err
	}
	defer stream.Close()

	filename := filepath.Base(strings.TrimSpace(upload.Filename))
	contentType := upload.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("%s/%s/%s", ownerID.String(), uuid.New().String(), filename)
	if err := m.Store.Upload(ctx, objectName, stream, upload.Size, contentType); err != nil {
		return "", err
	}

	logger.InfoWithUser(ownerID.String(), "media_stored", map[string]interface{}{
		"object_name":  objectName,
		"size":         upload.Size,
		"content_type": contentType,
	})
	return m.Store.PublicURL(objectName), nil
}
