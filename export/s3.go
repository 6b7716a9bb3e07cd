package export

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mwantia/sizefs/data"
)

// S3Options configures an S3Exporter.
type S3Options struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Exporter uploads virtual files into an S3 compatible bucket.
type S3Exporter struct {
	client *minio.Client
	bucket string
}

func NewS3Exporter(opts S3Options) (*S3Exporter, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}

	return &S3Exporter{
		client: client,
		bucket: opts.Bucket,
	}, nil
}

func (*S3Exporter) Name() string {
	return "s3"
}

func (e *S3Exporter) Open(ctx context.Context) error {
	exists, err := e.client.BucketExists(ctx, e.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket '%s': %w", e.bucket, data.ErrNotExist)
	}
	return nil
}

// Export uploads r with the pattern and size spec stored as user metadata.
func (e *S3Exporter) Export(ctx context.Context, key string, info *data.FileInfo, r io.Reader) error {
	if info.Length() > uint64(maxObjectSize) {
		return fmt.Errorf("%w: %d bytes exceeds the S3 object limit", data.ErrTooLarge, info.Length())
	}

	attrs := info.Attributes()
	_, err := e.client.PutObject(ctx, e.bucket, key, r, int64(info.Length()), minio.PutObjectOptions{
		ContentType: info.ContentType(),
		UserMetadata: map[string]string{
			"Sizefs-Pattern": attrs[data.AttributePattern],
			"Sizefs-Spec":    attrs[data.AttributeSpec],
		},
	})
	return err
}

// maxObjectSize is the largest single object S3 accepts (5 TiB).
const maxObjectSize int64 = 5 << 40
