package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// BucketHeader abstracts the S3 HeadBucket operation for testing
type BucketHeader interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// BucketService checks the archive destination bucket.
type BucketService struct {
	client BucketHeader
}

func NewBucketService(client BucketHeader) *BucketService {
	return &BucketService{client: client}
}

// CheckBucket returns nil when bucket exists and the caller may access it.
func (b *BucketService) CheckBucket(ctx context.Context, bucket string) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("bucket %s unavailable (%s): %w", bucket, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("bucket %s unavailable: %w", bucket, err)
}
