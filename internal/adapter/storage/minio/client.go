package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/GoArmGo/LibraryApp/internal/config"
)

// Client загружает обложки книг в MinIO через S3 API
type Client struct {
	s3Client   *s3.Client
	uploader   *manager.Uploader
	bucketName string
	publicURL  string
	logger     *slog.Logger
}

// NewMinioClient создаёт клиент и при необходимости бакет
func NewMinioClient(ctx context.Context, cfg *appconfig.Config, logger *slog.Logger) (*Client, error) {
	mc := cfg.Minio
	if mc.AccessKeyID == "" || mc.SecretAccessKey == "" || mc.BucketName == "" || mc.Endpoint == "" {
		return nil, fmt.Errorf("MinIO credentials (MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY, MINIO_BUCKET_NAME, MINIO_ENDPOINT) must be set")
	}

	endpoint := endpointURL(mc.Endpoint, mc.UseSSL)

	cfgAws, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(mc.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(mc.AccessKeyID, mc.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for MinIO: %w", err)
	}

	s3Client := s3.NewFromConfig(cfgAws, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	c := &Client{
		s3Client:   s3Client,
		uploader:   manager.NewUploader(s3Client),
		bucketName: mc.BucketName,
		publicURL:  mc.PublicURL,
		logger:     logger,
	}
	if c.publicURL == "" {
		c.publicURL = endpoint
	}

	if err := c.ensureBucket(ctx, mc.Region); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context, region string) error {
	headCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.s3Client.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)})
	if err == nil {
		c.logger.Info("minio bucket exists", "bucket", c.bucketName)
		return nil
	}

	c.logger.Warn("minio bucket not found, creating", "bucket", c.bucketName)
	input := &s3.CreateBucketInput{Bucket: aws.String(c.bucketName)}
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket '%s': %w", c.bucketName, err)
	}

	waiter := s3.NewBucketExistsWaiter(c.s3Client)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)}, 30*time.Second); err != nil {
		return fmt.Errorf("failed waiting for bucket '%s' to be created: %w", c.bucketName, err)
	}

	c.logger.Info("minio bucket created", "bucket", c.bucketName)
	return nil
}

// UploadFile загружает объект и возвращает его публичный URL
func (c *Client) UploadFile(ctx context.Context, objectKey string, fileContent io.Reader, contentType string) (string, error) {
	start := time.Now()

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        fileContent,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		c.logger.Error("minio upload failed", "key", objectKey, "error", err)
		return "", fmt.Errorf("failed to upload file %s to bucket %s: %w", objectKey, c.bucketName, err)
	}

	c.logger.Info("minio object uploaded",
		"bucket", c.bucketName,
		"key", objectKey,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return objectURL(c.publicURL, c.bucketName, objectKey), nil
}

func endpointURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return strings.TrimRight(endpoint, "/")
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func objectURL(base, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, key)
}
