package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3API is the subset of *awss3.Client the AWS store needs.
type S3API interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// AWSImageStore has the same key layout as ImageStore but talks to any
// S3-compatible service through the AWS SDK.
type AWSImageStore struct {
	client  S3API
	bucket  string
	root    string
	baseURL string
	logger  *logger.Logger
}

// NewAWSImageStore builds a path-style S3 client for cfg.Endpoint and checks
// that the bucket is reachable.
func NewAWSImageStore(ctx context.Context, cfg *config.MinIOConfig, log *logger.Logger) (*AWSImageStore, error) {
	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
	log.Info("Initializing S3 image store",
		zap.String("endpoint", endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.String("region", cfg.Region),
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	if _, err := client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("bucket %s is not reachable: %w", cfg.Bucket, err)
	}

	return NewAWSImageStoreWithClient(client, cfg.Bucket, cfg.FolderRoot, endpoint, log), nil
}

func NewAWSImageStoreWithClient(client S3API, bucket, root, baseURL string, log *logger.Logger) *AWSImageStore {
	return &AWSImageStore{
		client:  client,
		bucket:  bucket,
		root:    strings.Trim(root, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.Named("AWSImageStore"),
	}
}

func endpointURL(endpoint string, useSSL bool) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func (s *AWSImageStore) Upload(ctx context.Context, folder string, file domain.ImageFile) (domain.Image, error) {
	key := objectKey(s.root, folder, file.Name)

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Data),
		ContentLength: aws.Int64(int64(len(file.Data))),
		ContentType:   aws.String(contentTypeOf(file)),
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("key", key), zap.Error(err))
		return domain.Image{}, fmt.Errorf("upload %s: %w", key, err)
	}

	return domain.Image{
		RemoteID: key,
		URL:      fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key),
	}, nil
}

func (s *AWSImageStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	paginator := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(folderKey(s.root, prefix) + "/"),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return s.remove(ctx, keys)
}

func (s *AWSImageStore) DeleteByIDs(ctx context.Context, remoteIDs []string) error {
	return s.remove(ctx, remoteIDs)
}

func (s *AWSImageStore) remove(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			s.logger.Warn("DeleteObject failed", zap.String("key", key), zap.Error(err))
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
