package aws

import (
	"context"
	"fmt"
	"io"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignedUpload is a time-limited PUT target for a client-side upload.
type PresignedUpload struct {
	URL       string            `json:"upload_url"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type S3Presigner struct {
	presigner *s3.PresignClient
}

func newS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		// LocalStack serves buckets on the path, not as subdomains.
		o.UsePathStyle = true
	})
}

func NewS3Presigner(cfg sdkaws.Config) *S3Presigner {
	return &S3Presigner{presigner: s3.NewPresignClient(newS3Client(cfg))}
}

// PresignPut returns a presigned PUT URL for bucket/key valid for expiry.
func (p *S3Presigner) PresignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	presigned, err := p.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string)
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return PresignedUpload{
		URL:       presigned.URL,
		Key:       key,
		Headers:   headers,
		ExpiresAt: time.Now().Add(expiry).UTC(),
	}, nil
}

type s3UploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Uploader streams server-side uploads through the multipart upload manager.
type S3Uploader struct {
	uploader s3UploadAPI
}

func NewS3Uploader(cfg sdkaws.Config) *S3Uploader {
	return &S3Uploader{uploader: manager.NewUploader(newS3Client(cfg), func(u *manager.Uploader) {
		u.PartSize = manager.MinUploadPartSize
		u.Concurrency = 2
	})}
}

// Upload writes body to bucket/key and returns the object's location URL.
func (u *S3Uploader) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	out, err := u.uploader.Upload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", bucket, key, err)
	}
	return out.Location, nil
}
