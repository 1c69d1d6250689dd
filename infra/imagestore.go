package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/propertyhub/propertyhub/config"
)

var (
	// ErrInvalidBlob means the submitted buffer is empty or not a decodable image.
	ErrInvalidBlob = errors.New("invalid image blob")
	// ErrStoreUnavailable means the remote object store could not be reached.
	ErrStoreUnavailable = errors.New("image store unavailable")
)

// ImageStore stores listing images in a folder-scoped media bucket. Every
// upload is bounded to MaxWidth x MaxHeight (aspect ratio preserved, never
// upscaled) and re-encoded as a quality-compressed JPEG.
type ImageStore struct {
	minio         *MinioClient
	bucket        string
	publicBaseURL string
	maxWidth      int
	maxHeight     int
	jpegQuality   int
}

func InitImageStore(minioClient *MinioClient, cfg *config.EnvConfig) *ImageStore {
	ctx := context.Background()
	if err := minioClient.EnsureBucket(ctx, cfg.Media.Bucket); err != nil {
		panic(fmt.Sprintf("Failed to ensure media bucket: %v", err))
	}
	if err := minioClient.SetBucketPublicRead(ctx, cfg.Media.Bucket); err != nil {
		panic(fmt.Sprintf("Failed to set media bucket policy: %v", err))
	}

	return &ImageStore{
		minio:         minioClient,
		bucket:        cfg.Media.Bucket,
		publicBaseURL: cfg.Media.PublicBaseURL,
		maxWidth:      cfg.Media.MaxWidth,
		maxHeight:     cfg.Media.MaxHeight,
		jpegQuality:   cfg.Media.JPEGQuality,
	}
}

// Upload stores one image blob under a generated key scoped to folder and
// returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, blob []byte, folder string) (string, error) {
	if len(blob) == 0 {
		return "", fmt.Errorf("%w: empty buffer", ErrInvalidBlob)
	}

	img, err := imaging.Decode(bytes.NewReader(blob))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}

	// Fit only scales down, so small images pass through untouched.
	img = imaging.Fit(img, s.maxWidth, s.maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(s.jpegQuality)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}

	key := folder + "/" + uuid.NewString()
	if err := s.minio.PutObject(ctx, s.bucket, key, &buf, int64(buf.Len()), "image/jpeg"); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return s.publicBaseURL + "/" + s.bucket + "/" + key, nil
}

// Delete removes a blob by its public id. Deleting a non-existent id succeeds.
func (s *ImageStore) Delete(ctx context.Context, publicID string) error {
	if err := s.minio.RemoveObject(ctx, s.bucket, publicID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// DerivePublicID recovers a blob's public id from its URL: the filename
// segment with any extension stripped, re-qualified under the folder all
// images of the owning listing were uploaded to. Callers must know that
// folder; the URL alone does not carry it reliably.
func DerivePublicID(rawURL, folder string) string {
	segment := rawURL
	if idx := strings.LastIndex(segment, "/"); idx >= 0 {
		segment = segment[idx+1:]
	}
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	return folder + "/" + segment
}
