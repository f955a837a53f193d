package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/sharedrop/internal/logging"
)

// S3Config holds the settings of the S3-compatible backend.
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store implements Store against an S3-compatible service (AWS S3,
// MinIO). Multipart parts are plain objects under the multipart prefix,
// mirroring the disk layout, so completion and reaping work the same way.
type S3Store struct {
	client *s3.Client
	bucket string
	logger logging.Logger
}

func NewS3Store(ctx context.Context, cfg S3Config, logger logging.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With("module", "s3_store"),
	}, nil
}

func (s *S3Store) Store(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("putting object %q: %w", key, err)
	}
	return nil
}

func (s *S3Store) Read(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting object %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading object body %q: %w", key, err)
	}
	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting object %q: %w", key, err)
	}
	return nil
}

func (s *S3Store) AppendPart(ctx context.Context, uploadID string, partNumber int, data []byte) error {
	return s.Store(ctx, partKey(uploadID, partNumber), data)
}

func (s *S3Store) CompleteMultipart(ctx context.Context, uploadID, key string, partNumbers []int) (int64, error) {
	sorted := make([]int, len(partNumbers))
	copy(sorted, partNumbers)
	sort.Ints(sorted)

	var assembled []byte
	for _, n := range sorted {
		chunk, err := s.Read(ctx, partKey(uploadID, n))
		if err != nil {
			return 0, fmt.Errorf("reading part %d: %w", n, err)
		}
		if chunk == nil {
			s.logger.Warn(ctx, "multipart part missing, skipping", "upload_id", uploadID, "part_number", n)
			continue
		}
		assembled = append(assembled, chunk...)
	}

	if err := s.Store(ctx, key, assembled); err != nil {
		return 0, fmt.Errorf("storing assembled object: %w", err)
	}

	for _, n := range sorted {
		if err := s.Delete(ctx, partKey(uploadID, n)); err != nil {
			s.logger.Warn(ctx, "part cleanup failed", "upload_id", uploadID, "part_number", n, "error", err.Error())
		}
	}

	return int64(len(assembled)), nil
}

func (s *S3Store) ReapStale(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(multipartPrefix + "/"),
			ContinuationToken: continuation,
		})
		if err != nil {
			return fmt.Errorf("listing multipart objects: %w", err)
		}

		for _, obj := range out.Contents {
			if obj.LastModified == nil || obj.LastModified.After(cutoff) {
				continue
			}
			if err := s.Delete(ctx, aws.ToString(obj.Key)); err != nil {
				s.logger.Warn(ctx, "reaping part failed", "key", aws.ToString(obj.Key), "error", err.Error())
			}
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}

	return nil
}

var _ Store = (*S3Store)(nil)
