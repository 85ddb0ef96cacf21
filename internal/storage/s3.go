package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/johnwmail/lpaste/internal/models"
)

// s3API is the subset of the S3 client used by S3Storage.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage stores each paste as one JSON object named <prefix>/<id>.json.
type S3Storage struct {
	client  s3API
	bucket  string
	prefix  string
	timeout time.Duration
}

// NewS3Storage creates a new S3 storage backend
func NewS3Storage(ctx context.Context, bucket, prefix, region string, timeout time.Duration, logger zerolog.Logger) (*S3Storage, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket name must not be empty")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load AWS config")
	}

	logger.Info().Str("bucket", bucket).Str("prefix", prefix).Msg("using s3 storage")
	return newS3Storage(s3.NewFromConfig(cfg), bucket, prefix, timeout), nil
}

func newS3Storage(client s3API, bucket, prefix string, timeout time.Duration) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, prefix: prefix, timeout: timeout}
}

func (s *S3Storage) key(id string) string {
	return applyS3Prefix(s.prefix, id+".json")
}

func (s *S3Storage) Create(ctx context.Context, p *models.Paste) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored := *p
	stored.ID = newID()
	stored.CreatedAt = stored.CreatedAt.UTC()

	body, err := json.Marshal(&stored)
	if err != nil {
		return "", errors.Wrap(err, "marshal paste")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(stored.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", models.NewStorageError("s3 put", err)
	}
	return stored.ID, nil
}

func (s *S3Storage) Get(ctx context.Context, id string) (Lookup, error) {
	if !validID(id) {
		return NotFound(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return NotFound(), nil
		}
		return NotFound(), models.NewStorageError("s3 get", err)
	}
	defer func() {
		_ = obj.Body.Close()
	}()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return NotFound(), models.NewStorageError("s3 read", err)
	}

	var paste models.Paste
	if err := json.Unmarshal(data, &paste); err != nil {
		return NotFound(), models.NewStorageError("s3 decode", err)
	}
	return Found(&paste), nil
}

func (s *S3Storage) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	return models.NewStorageError("s3 delete", err)
}

func (s *S3Storage) Close() error {
	return nil
}

// isS3NotFound reports whether err is S3's answer for a missing key.
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	// Also check for HTTP status code 404 in the error message as fallback
	return strings.Contains(err.Error(), "StatusCode: 404")
}

func applyS3Prefix(prefix, name string) string {
	if prefix == "" {
		return name
	}
	// Ensure there is exactly one slash between prefix and name
	if strings.HasSuffix(prefix, "/") {
		return prefix + name
	}
	return prefix + "/" + name
}
