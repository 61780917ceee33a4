package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fittrack-backend/internal/apperr"
	appconfig "fittrack-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageKind distinguishes where an uploaded image is used
type ImageKind string

const (
	ImageKindProfile ImageKind = "profile"
	ImageKindWorkout ImageKind = "workout"
)

const (
	maxProfileImageBytes = 2 << 20 // 2MB
	maxWorkoutImageBytes = 5 << 20 // 5MB
	presignExpiry        = 5 * time.Minute
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService issues pre-signed upload URLs for profile and workout images.
// Image bytes never pass through this backend.
type ImageService struct {
	s3Client *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewImageService creates a new image service backed by S3
func NewImageService(cfg appconfig.AWSConfig) (*ImageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageService{
		s3Client: client,
		bucket:   cfg.S3Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}, nil
}

// UploadRequest asks for a pre-signed upload URL
type UploadRequest struct {
	Kind        ImageKind `json:"kind"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
}

// UploadResponse carries the pre-signed URL and the final object URL
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectURL string `json:"object_url"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignUpload validates the declared upload and returns a pre-signed
// PUT URL. The size limit depends on the image kind.
func (s *ImageService) PresignUpload(ctx context.Context, userID string, req UploadRequest) (*UploadResponse, error) {
	ext, ok := allowedImageTypes[req.ContentType]
	if !ok {
		return nil, apperr.InvalidInput("content_type must be image/jpeg, image/png or image/webp")
	}
	if req.SizeBytes <= 0 {
		return nil, apperr.InvalidInput("size_bytes is required")
	}

	var maxBytes int64
	switch req.Kind {
	case ImageKindProfile:
		maxBytes = maxProfileImageBytes
	case ImageKindWorkout:
		maxBytes = maxWorkoutImageBytes
	default:
		return nil, apperr.InvalidInput("kind must be profile or workout")
	}
	if req.SizeBytes > maxBytes {
		return nil, apperr.InvalidInput(fmt.Sprintf("image exceeds the %dMB limit", maxBytes>>20))
	}

	key := fmt.Sprintf("%s_images/%s/%s%s", req.Kind, userID, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(req.ContentType),
		ContentLength: aws.Int64(req.SizeBytes),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignExpiry
	})
	if err != nil {
		return nil, apperr.Unavailable("failed to generate pre-signed URL", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		ObjectURL: s.objectURL(key),
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}

func (s *ImageService) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
