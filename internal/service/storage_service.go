package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/schoolcast/schoolcast/config"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// S3Client is the subset of the S3 API the storage service uses
type S3Client interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
	GetObjectRequest(input *s3.GetObjectInput) (*request.Request, *s3.GetObjectOutput)
}

// StorageService implements domain.ObjectStore on S3-compatible
// storage. Voice recordings are uploaded once and referenced by key;
// playback URLs are presigned per call attempt and never cached.
type StorageService struct {
	client S3Client
	bucket string
	logger logger.Logger
}

// NewStorageService creates a storage service from configuration.
func NewStorageService(cfg config.StorageConfig, logger logger.Logger) (*StorageService, error) {
	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// NewStorageServiceWithClient creates a storage service with a custom client for testing
func NewStorageServiceWithClient(client S3Client, bucket string, logger logger.Logger) *StorageService {
	return &StorageService{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Upload stores a recording and returns its object key.
func (s *StorageService) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	key := fmt.Sprintf("recordings/%s%s", uuid.New().String(), path.Ext(name))

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to upload recording: %v", err))
		return "", fmt.Errorf("failed to upload recording: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"key":  key,
		"size": len(data),
	}).Info("Recording uploaded")

	return key, nil
}

// SignedURL returns a short-lived playback URL for a stored recording.
func (s *StorageService) SignedURL(key string, ttl time.Duration) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	signedURL, err := req.Presign(ttl)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to presign recording URL: %v", err))
		return "", fmt.Errorf("failed to presign recording URL: %w", err)
	}
	return signedURL, nil
}
