package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Store implements ObjectStore against S3. Credentials come from the
// SDK's default chain.
type S3Store struct {
	client *s3.Client
}

func NewS3Store(ctx context.Context, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg)}, nil
}

func (s *S3Store) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	_, err := s.client.PutObject(ctx, input)
	return translateError(err)
}

func (s *S3Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translateError(err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3Store) ListObjects(ctx context.Context, bucket, prefix, delimiter string, maxKeys int32) (*ListResult, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if delimiter != "" {
		input.Delimiter = aws.String(delimiter)
	}
	if maxKeys > 0 {
		input.MaxKeys = aws.Int32(maxKeys)
	}
	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, translateError(err)
	}
	result := &ListResult{}
	for _, obj := range out.Contents {
		result.Entries = append(result.Entries, ObjectEntry{
			Key:  aws.ToString(obj.Key),
			Size: aws.ToInt64(obj.Size),
		})
	}
	for _, cp := range out.CommonPrefixes {
		result.CommonPrefixes = append(result.CommonPrefixes, aws.ToString(cp.Prefix))
	}
	return result, nil
}

func (s *S3Store) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	// CopySource has to be URL-encoded for non-ASCII keys.
	source := (&url.URL{Path: srcBucket + "/" + srcKey}).EscapedPath()
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(source),
	})
	return translateError(err)
}

func (s *S3Store) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return translateError(err)
}

// translateError maps SDK errors onto the package sentinels so callers can
// distinguish missing objects and permission failures from everything else.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.ErrorMessage())
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrObjectNotFound, apiErr.ErrorMessage())
		}
	}
	return err
}
