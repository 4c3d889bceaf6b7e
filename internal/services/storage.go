package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// StorageService archives raw uploaded trial balance files in S3 so the
// original import is retrievable after the period's lines are replaced
type StorageService struct {
	s3Client *s3.Client
	bucket   string
	region   string
}

// NewStorageService creates a new storage service instance.
// For LocalStack: endpoint should be "http://localhost:4566".
// For production AWS: endpoint should be "".
func NewStorageService(bucket, region, endpoint string) (*StorageService, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}
	if region == "" {
		return nil, fmt.Errorf("region cannot be empty")
	}

	ctx := context.Background()

	if endpoint != "" {
		// LocalStack configuration with custom endpoint
		cfg, err := config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				"test", // LocalStack accepts any credentials
				"test",
				"",
			)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client := s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true // Required for LocalStack
		})

		return &StorageService{s3Client: client, bucket: bucket, region: region}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &StorageService{s3Client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

// GenerateArchiveKey builds the object key for an uploaded file, scoped per
// company: uploads/{companyID}/{timestamp}-{uuid}-{filename}
func (s *StorageService) GenerateArchiveKey(companyID, filename string) (string, error) {
	if companyID == "" {
		return "", fmt.Errorf("companyID cannot be empty")
	}
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	base := sanitizeFilename(filepath.Base(filename))
	return fmt.Sprintf("uploads/%s/%d-%s-%s", companyID, time.Now().Unix(), uuid.New(), base), nil
}

// ArchiveFile stores the raw uploaded bytes under the given key
func (s *StorageService) ArchiveFile(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to archive file: %w", err)
	}

	return nil
}

// sanitizeFilename strips characters that are unsafe in object keys
func sanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "#", "_", "?", "_")
	return replacer.Replace(filename)
}
