package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ContentTypeJSONL is the content type of a catalog snapshot.
const ContentTypeJSONL = "application/x-ndjson"

// Destination is a snapshot target (file, S3, etc.).
type Destination interface {
	// Write stores the JSONL payload at the destination.
	Write(ctx context.Context, data []byte) error
}

// FileDestination writes snapshots to a local file, replacing it atomically.
type FileDestination struct {
	path string
}

func NewFileDestination(path string) *FileDestination {
	return &FileDestination{path: path}
}

func (d *FileDestination) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ideas-export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("rename to %s: %w", d.path, err)
	}
	return nil
}

// S3Options locates a bucket. Endpoint is set for MinIO and similar.
type S3Options struct {
	Bucket   string
	Region   string
	Endpoint string
	// Prefix is prepended to every object key.
	Prefix string
}

// S3Destination writes snapshots and upload archives to an S3-compatible
// bucket.
type S3Destination struct {
	client *s3.Client
	bucket string
	prefix string
	key    string
}

// NewS3Destination creates an S3 destination that writes snapshots to
// key under the configured prefix. If an endpoint is set, path-style
// addressing is enabled.
func NewS3Destination(ctx context.Context, opts S3Options, key string) (*S3Destination, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 destination: bucket is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if opts.Endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Destination{
		client: s3.NewFromConfig(cfg, s3opts...),
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
		key:    key,
	}, nil
}

// Key returns the full object key for name under the destination prefix.
func (d *S3Destination) Key(name string) string {
	if d.prefix == "" {
		return strings.TrimPrefix(name, "/")
	}
	return path.Join(d.prefix, name)
}

// Write uploads a snapshot as the configured object key.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	return d.Put(ctx, d.Key(d.key), ContentTypeJSONL, data)
}

// Archive stores a bulk upload file under uploads/<batch>/ and returns
// the object key.
func (d *S3Destination) Archive(ctx context.Context, batchID, filename, contentType string, data []byte) (string, error) {
	key := d.Key(ArchiveKey(batchID, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := d.Put(ctx, key, contentType, data); err != nil {
		return "", err
	}
	return key, nil
}

// Put uploads data as the given object key.
func (d *S3Destination) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put object %s: %w", key, err)
	}
	return nil
}

// ArchiveKey is the prefix-relative key of an archived upload file.
// Batches without a server ID are filed under "unbatched".
func ArchiveKey(batchID, filename string) string {
	if batchID == "" {
		batchID = "unbatched"
	}
	return path.Join("uploads", batchID, filepath.Base(filename))
}
