package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/clipstream-labs/clipstream/backend/internal/config"
	"github.com/clipstream-labs/clipstream/backend/internal/storage"
)

// Service implements the ObjectStore interface on S3-compatible storage
type Service struct {
	client   *awss3.S3
	uploader *s3manager.Uploader
	bucket   string
	logger   storage.Logger
}

// NewService creates a new S3 service instance
func NewService(cfg *config.S3Config, logger storage.Logger) (*Service, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		DisableSSL:       aws.Bool(!cfg.UseSSL),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %v", err)
	}

	return &Service{
		client:   awss3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		logger:   logger,
	}, nil
}

// Upload stores the object and returns its public URL
func (s *Service) Upload(ctx context.Context, key string, obj storage.Object) (string, error) {
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   obj.Reader,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	result, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to upload object to S3: %v", err)
	}

	s.logger.LogInfo("object uploaded to S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
	})
	return result.Location, nil
}

// Delete removes the object by key
func (s *Service) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %v", err)
	}
	return nil
}

// Close closes any open S3 connections and resources
func (s *Service) Close() error {
	return nil
}
