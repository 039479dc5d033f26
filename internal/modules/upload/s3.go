package upload

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/solsticehq/solstice-api/internal/config"
)

// S3Client is the slice of the AWS SDK the mirror uses; tests substitute
// fakes.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Mirror copies accepted uploads into an S3-compatible bucket and serves
// them from there. Local disk stays the source of truth; a mirror failure
// falls back to the local URL.
type S3Mirror struct {
	client      S3Client
	bucket      string
	baseURL     string
	keyTemplate string
}

// NewS3Mirror builds a mirror from config. Returns (nil, nil) when mirroring
// is disabled.
func NewS3Mirror(ctx context.Context, cfg appcfg.S3Config) (*S3Mirror, error) {
	if !cfg.Enable {
		return nil, nil
	}

	awsOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsOptions = append(awsOptions,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			)),
		)
	}
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyleAccess
	})
	return newS3MirrorWithClient(client, cfg), nil
}

func newS3MirrorWithClient(client S3Client, cfg appcfg.S3Config) *S3Mirror {
	baseURL := strings.TrimSuffix(cfg.CustomDomain, "/")
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3Mirror{
		client:      client,
		bucket:      cfg.Bucket,
		baseURL:     baseURL,
		keyTemplate: cfg.ObjectKey,
	}
}

// Put uploads one object and returns its public URL.
func (m *S3Mirror) Put(ctx context.Context, key, contentType string, payload []byte) (string, error) {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return m.baseURL + "/" + key, nil
}

// Delete removes one object, best effort.
func (m *S3Mirror) Delete(ctx context.Context, key string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}
