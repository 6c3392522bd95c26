package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BucketConfig locates a corpus under a prefix of an S3-compatible bucket.
type BucketConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	Prefix    string
	Secure    bool
}

// BucketSource lists and reads records from object storage.
type BucketSource struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ Source = (*BucketSource)(nil)

// NewBucketSource creates a minio client for cfg. No request is made until List.
func NewBucketSource(cfg BucketConfig) (*BucketSource, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket source: bucket name is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("bucket source: %w", err)
	}
	return &BucketSource{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *BucketSource) Name() string {
	return fmt.Sprintf("bucket:%s/%s", s.bucket, s.prefix)
}

func (s *BucketSource) List(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (s *BucketSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer obj.Close()
	return io.ReadAll(obj)
}
