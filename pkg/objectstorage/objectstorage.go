package objectstorage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/metrics"
	"github.com/aureeture/aureeture-api/pkg/retry"
)

// Client wraps an S3-compatible object storage bucket used for
// profile avatars and founder pitch documents.
type Client struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// NewClient creates an object storage client using the S3 SDK
func NewClient(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*Client, error) {
	if endpoint == "" {
		endpoint = "https://s3.ap-south-1.amazonaws.com"
	}
	if region == "" {
		region = "ap-south-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // session token not needed
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &Client{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// decodeBase64 decodes raw base64 payloads, accepting data URIs
// (data:image/png;base64,...) as uploaded by browser clients.
func decodeBase64(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		parts := strings.SplitN(data, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid data URI format")
		}
		return base64.StdEncoding.DecodeString(parts[1])
	}
	return base64.StdEncoding.DecodeString(data)
}

// Upload stores a base64-encoded object and returns its public URL
func (c *Client) Upload(ctx context.Context, data, key, contentType string) (string, error) {
	start := time.Now()
	operation := "upload"

	objectBytes, err := decodeBase64(data)
	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(metrics.MeasureDuration(start))
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	err = retry.Do(ctx, retry.StorageConfig(), "storage_put_object", func() error {
		_, putErr := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(c.bucketName),
			Key:         aws.String(key),
			Body:        bytes.NewReader(objectBytes),
			ContentType: aws.String(contentType),
		})
		return putErr
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(ctx, "object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall(ctx, "object_storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(objectBytes)),
	)

	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucketName, key), nil
}

// ValidateImageType validates avatar content types
func (c *Client) ValidateImageType(contentType string) error {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}

	if !validTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("invalid file type: %s. Allowed types: jpeg, jpg, png, webp", contentType)
	}

	return nil
}

// ValidateSize rejects payloads above the 10MB upload ceiling
func (c *Client) ValidateSize(data string) error {
	const maxSize = 10 * 1024 * 1024 // 10MB

	objectBytes, err := decodeBase64(data)
	if err != nil {
		return fmt.Errorf("failed to decode payload for size validation: %w", err)
	}

	if len(objectBytes) > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", len(objectBytes), maxSize)
	}

	return nil
}
