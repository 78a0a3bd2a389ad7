package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"learnhub/pkg/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

var ErrTooLarge = errors.New("file exceeds upload size limit")

// Uploader is the storage surface used by avatar, cover and attachment
// uploads.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	MaxSize() int64
}

type Client struct {
	s3Client *s3.S3
	bucket   string
	maxSize  int64
}

var _ Uploader = (*Client)(nil)

func NewClient(cfg *config.Config) (*Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}

	// MinIO in local development
	if cfg.AWSEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.AWSEndpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		if cfg.S3UseSSL == "false" {
			awsConfig.DisableSSL = aws.Bool(true)
		}
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := &Client{
		s3Client: s3.New(sess),
		bucket:   cfg.S3BucketName,
		maxSize:  cfg.UploadMaxSize,
	}

	if _, err := client.s3Client.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(cfg.S3BucketName)}); err != nil {
		// best effort for MinIO; an existing bucket makes this fail harmlessly
		_, _ = client.s3Client.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(cfg.S3BucketName)})
	}

	return client, nil
}

func (c *Client) MaxSize() int64 {
	return c.maxSize
}

// ObjectKey builds "<prefix>/<owner>/<uuid><ext>" keeping the original
// extension in lower case.
func ObjectKey(prefix, owner, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s/%s%s", prefix, owner, uuid.New().String(), ext)
}

// CheckSize rejects empty or oversized uploads.
func CheckSize(size, limit int64) error {
	if size <= 0 {
		return fmt.Errorf("empty file")
	}
	if limit > 0 && size > limit {
		return ErrTooLarge
	}
	return nil
}

func (c *Client) Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	if err := CheckSize(size, c.maxSize); err != nil {
		return "", err
	}

	_, err := c.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return ObjectURL(
		aws.StringValue(c.s3Client.Config.Endpoint),
		aws.BoolValue(c.s3Client.Config.DisableSSL),
		aws.StringValue(c.s3Client.Config.Region),
		c.bucket,
		key,
	), nil
}

// ObjectURL returns the public URL for key, path-style for custom endpoints
// and virtual-host style for AWS.
func ObjectURL(endpoint string, disableSSL bool, region, bucket, key string) string {
	if endpoint != "" && !strings.Contains(endpoint, "amazonaws.com") {
		protocol := "https"
		if disableSSL {
			protocol = "http"
		}
		endpoint = strings.TrimPrefix(endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		return fmt.Sprintf("%s://%s/%s/%s", protocol, endpoint, bucket, key)
	}

	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}
