package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/designer-portfolio-backend/errs"
)

// AllowedMediaTypes lists the content types accepted for project images and
// videos.
var AllowedMediaTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif", "video/mp4"}

var mediaExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"video/mp4":  ".mp4",
}

// ObjectPutter is the part of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaUploader stores project images in a bucket and returns their public
// URLs for imageUrl and galleryImages.
type MediaUploader struct {
	client  ObjectPutter
	bucket  string
	baseURL string
	newKey  func(ext string) string
}

func NewMediaUploader(client ObjectPutter, bucket, baseURL string) *MediaUploader {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &MediaUploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		newKey: func(ext string) string {
			return "projects/" + uuid.NewString() + ext
		},
	}
}

// NewS3MediaUploader builds an uploader from the default AWS credential chain.
func NewS3MediaUploader(ctx context.Context, bucket, baseURL string) (*MediaUploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}
	return NewMediaUploader(s3.NewFromConfig(cfg), bucket, baseURL), nil
}

// Upload writes body under a fresh key and returns its public URL.
func (u *MediaUploader) Upload(ctx context.Context, contentType string, size int64, body io.Reader) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	ext, ok := mediaExtensions[mediaType]
	if err != nil || !ok {
		return "", errs.NewUnsupportedMediaTypeError(contentType, AllowedMediaTypes)
	}

	key := u.newKey(ext)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(mediaType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", errs.NewServiceUnavailableError("media storage", err)
	}

	log.Info().Str("bucket", u.bucket).Str("key", key).Int64("size", size).Msg("Uploaded media")
	return u.baseURL + "/" + key, nil
}
