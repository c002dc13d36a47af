package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"visaprep/internal/config"
	"visaprep/internal/port"
)

// Downloaded objects feed the text extractor. Anything past this limit is
// larger than the upload cap allows, so a longer read means a corrupt or
// tampered object.
const maxDownloadBytes = 64 << 20

type objectStore struct {
	api       *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
}

// NewObjectStore builds an S3-backed port.ObjectStorage. A non-empty
// endpoint switches to path-style addressing so MinIO and localstack work
// in development without DNS-style bucket hosts.
func NewObjectStore(cfg *config.S3Config) (port.ObjectStorage, error) {
	awsCfg, err := loadAWSConfig(cfg)
	if err != nil {
		return nil, err
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &objectStore{
		api:       api,
		presigner: s3.NewPresignClient(api),
		uploader:  manager.NewUploader(api),
	}, nil
}

func loadAWSConfig(cfg *config.S3Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading aws config: %w", err)
	}
	return awsCfg, nil
}

func (o *objectStore) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	result, err := o.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(input.Bucket),
		Key:         aws.String(input.Key),
		Body:        input.Body,
		ContentType: aws.String(input.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload %q: %w", input.Key, err)
	}
	return &port.UploadOutput{
		Location: result.Location,
		ETag:     aws.ToString(result.ETag),
	}, nil
}

func (o *objectStore) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := o.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download %q: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(io.LimitReader(result.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("s3 download %q read: %w", key, err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("s3 download %q: object exceeds %d bytes", key, maxDownloadBytes)
	}
	return data, nil
}

func (o *objectStore) Delete(ctx context.Context, bucket, key string) error {
	if _, err := o.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3 delete %q: %w", key, err)
	}
	return nil
}

func (o *objectStore) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	result, err := o.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Duration(expirySeconds)*time.Second))
	if err != nil {
		return "", fmt.Errorf("s3 presign %q: %w", key, err)
	}
	return result.URL, nil
}
