package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxMediaFileSize is the maximum allowed size for a server-side media upload (15MB).
	MaxMediaFileSize = 15 * 1024 * 1024
	// FolderMedia is the S3 prefix for invitation media.
	FolderMedia = "media"

	// deleteBatch is the DeleteObjects per-request limit.
	deleteBatch = 1000
)

// Allowed media MIME types and extensions: invitation photos and background music.
var (
	AllowedMediaTypes = map[string]string{
		"image/jpeg":  ".jpg",
		"image/jpg":   ".jpg",
		"image/png":   ".png",
		"image/webp":  ".webp",
		"image/gif":   ".gif",
		"audio/mpeg":  ".mp3",
		"audio/mp3":   ".mp3",
		"audio/ogg":   ".ogg",
		"audio/mp4":   ".m4a",
		"audio/x-m4a": ".m4a",
	}
	AllowedMediaExtensions = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".gif":  "image/gif",
		".mp3":  "audio/mpeg",
		".ogg":  "audio/ogg",
		".m4a":  "audio/mp4",
	}
)

// S3Config holds S3 client configuration.
type S3Config struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	Endpoint             string // S3-compatible endpoint (MinIO, R2); path-style addressing when set
	Bucket               string
	PublicBaseURL        string // CDN or public bucket URL used in returned media URLs
	PresignExpireMinutes int
}

// S3 provides media storage operations with validation and pre-signed URLs.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
	logger   *zap.Logger
}

// NewS3 creates an S3 client using credentials from config or the environment.
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media bucket not configured")
	}
	accessKey := cfg.AccessKeyID
	secretKey := cfg.SecretAccessKey
	if accessKey == "" || secretKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey, secretKey, "",
		)))
		logger.Info("S3 client using static credentials", zap.String("region", cfg.Region), zap.String("bucket", cfg.Bucket))
	} else {
		logger.Warn("S3 client using default credential chain (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY not set)")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	return &S3{client: client, uploader: uploader, cfg: cfg, logger: logger}, nil
}

// MediaExtension returns the canonical file extension for an allowed upload.
// The content type wins; the filename extension is the fallback.
func MediaExtension(contentType, filename string) (string, bool) {
	if ct := strings.ToLower(strings.TrimSpace(contentType)); ct != "" {
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
		if ext, ok := AllowedMediaTypes[ct]; ok {
			return ext, true
		}
	}
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := AllowedMediaExtensions[ext]; ok {
		if ext == ".jpeg" {
			ext = ".jpg"
		}
		return ext, true
	}
	return "", false
}

// ContentTypeForExtension returns the MIME type for a media extension.
func ContentTypeForExtension(ext string) string {
	if ct, ok := AllowedMediaExtensions[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// MediaPrefix is the key prefix holding every object of an invitation.
func MediaPrefix(invitationID uuid.UUID) string {
	return FolderMedia + "/" + invitationID.String() + "/"
}

// MediaKey returns a fresh object key: media/{invitation_id}/{uuid}{ext}.
func MediaKey(invitationID uuid.UUID, ext string) string {
	return MediaPrefix(invitationID) + uuid.NewString() + ext
}

// PresignExpire returns the configured presign duration.
func (s *S3) PresignExpire() time.Duration {
	if s.cfg.PresignExpireMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(s.cfg.PresignExpireMinutes) * time.Minute
}

// PresignUpload returns a pre-signed PUT URL for a direct browser upload.
func (s *S3) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	presignClient := s3.NewPresignClient(s.client)
	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.PresignExpire()
	})
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	return req.URL, nil
}

// PublicURL returns the URL the invitation pages use to load an object.
func (s *S3) PublicURL(key string) string {
	return PublicURL(s.cfg, key)
}

// PublicURL builds an object URL from config: PublicBaseURL, then Endpoint, then the AWS virtual-host form.
func PublicURL(cfg S3Config, key string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/") + "/" + key
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key)
	}
}

// Upload streams a reader to the media bucket and returns the public URL.
func (s *S3) Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if contentLength > 0 {
		input.ContentLength = aws.Int64(contentLength)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return s.PublicURL(key), nil
}

// DeleteObject removes one object from the media bucket.
func (s *S3) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// DeletePrefix removes every object under prefix and returns how many were deleted.
func (s *S3) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(prefix),
	})
	deleted := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("list objects: %w", err)
		}
		ids := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, types.ObjectIdentifier{Key: obj.Key})
		}
		for start := 0; start < len(ids); start += deleteBatch {
			end := start + deleteBatch
			if end > len(ids) {
				end = len(ids)
			}
			out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(s.cfg.Bucket),
				Delete: &types.Delete{Objects: ids[start:end], Quiet: aws.Bool(true)},
			})
			if err != nil {
				return deleted, fmt.Errorf("delete objects: %w", err)
			}
			if len(out.Errors) > 0 {
				first := out.Errors[0]
				return deleted, fmt.Errorf("delete objects: %d failed, first %s: %s",
					len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
			}
			deleted += end - start
		}
	}
	s.logger.Debug("deleted media prefix", zap.String("prefix", prefix), zap.Int("objects", deleted))
	return deleted, nil
}
