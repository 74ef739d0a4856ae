package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const defaultContentType = "application/octet-stream"

// ObjectClient is the subset of *minio.Client the store needs.
type ObjectClient interface {
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// ImageStore keeps images in one bucket under root/<folder>/<uuid><ext>.
// Remote ids are full object keys.
type ImageStore struct {
	client  ObjectClient
	bucket  string
	root    string
	baseURL string
	logger  *logger.Logger
}

// NewMinioImageStore connects to MinIO and creates the bucket if needed.
func NewMinioImageStore(ctx context.Context, cfg *config.MinIOConfig, log *logger.Logger) (*ImageStore, error) {
	log.Info("Initializing MinIO image store",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("use_ssl", cfg.UseSSL),
	)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", cfg.Bucket, err)
		}
		log.Info("Bucket created", zap.String("bucket", cfg.Bucket))
	}

	return NewImageStore(client, cfg.Bucket, cfg.FolderRoot, client.EndpointURL().String(), log), nil
}

func NewImageStore(client ObjectClient, bucket, root, baseURL string, log *logger.Logger) *ImageStore {
	return &ImageStore{
		client:  client,
		bucket:  bucket,
		root:    strings.Trim(root, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.Named("ImageStore"),
	}
}

func folderKey(root, folder string) string {
	return path.Join(root, strings.Trim(folder, "/"))
}

// objectKey names a new object root/folder/<uuid><ext>.
func objectKey(root, folder, fileName string) string {
	return path.Join(folderKey(root, folder), uuid.NewString()+strings.ToLower(filepath.Ext(fileName)))
}

func contentTypeOf(file domain.ImageFile) string {
	if file.ContentType == "" {
		return defaultContentType
	}
	return file.ContentType
}

func (s *ImageStore) Upload(ctx context.Context, folder string, file domain.ImageFile) (domain.Image, error) {
	key := objectKey(s.root, folder, file.Name)
	contentType := contentTypeOf(file)

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(file.Data), int64(len(file.Data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("key", key), zap.Error(err))
		return domain.Image{}, fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Debug("Image uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return domain.Image{
		RemoteID: key,
		URL:      fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key),
	}, nil
}

// DeleteByPrefix removes every object in the folder. Object stores have no
// real directories, so this also deletes the folder itself.
func (s *ImageStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := s.client.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{
		Prefix:    folderKey(s.root, prefix) + "/",
		Recursive: true,
	})

	var keys []string
	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("list %s: %w", prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return s.remove(ctx, keys)
}

func (s *ImageStore) DeleteByIDs(ctx context.Context, remoteIDs []string) error {
	return s.remove(ctx, remoteIDs)
}

// remove tries every key and reports all failures together.
func (s *ImageStore) remove(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("RemoveObject failed", zap.String("key", key), zap.Error(err))
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
