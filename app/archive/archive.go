// Package archive stores the raw XML payload of accepted contract events in
// durable object storage for audit.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader stores a named blob. Implementations propagate storage errors
// untranslated; transient-fault handling belongs to the client's configured
// retry policy, not to callers.
type Uploader interface {
	Upload(ctx context.Context, filename string, contents []byte, overwrite bool) error
}

// BlobName derives the deterministic archive object name for one contract
// event: {updated:yyyyMMddHHmmss}_{contractNumber}_v{version}_{bookmark}.xml
func BlobName(updated time.Time, contractNumber string, contractVersion int, bookmarkID uuid.UUID) string {
	return fmt.Sprintf("%s_%s_v%d_%s.xml",
		updated.UTC().Format("20060102150405"), contractNumber, contractVersion, bookmarkID)
}

// NopUploader is used when no archive bucket is configured. Events still
// flow downstream; only the raw payload copy is skipped.
type NopUploader struct{}

func (NopUploader) Upload(_ context.Context, filename string, _ []byte, _ bool) error {
	slog.Debug("Archive disabled, skipping upload", "filename", filename)
	return nil
}

// S3Uploader uploads blobs to a fixed S3 bucket.
type S3Uploader struct {
	client *s3.Client
	bucket string
}

func NewS3Uploader(client *s3.Client, bucket string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket}
}

// Upload puts contents at filename. With overwrite disabled the put is
// conditional on the object not existing.
func (u *S3Uploader) Upload(ctx context.Context, filename string, contents []byte, overwrite bool) error {
	slog.Info("Uploading file to archive", "bucket", u.bucket, "filename", filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(filename),
		Body:        bytes.NewReader(contents),
		ContentType: aws.String("application/xml"),
	}
	if !overwrite {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return err
	}

	slog.Info("Upload successful", "filename", filename)
	return nil
}
