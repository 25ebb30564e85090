package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/dtroode/levelkeeper/internal/model"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

var _ model.ReportArchive = (*ReportArchive)(nil)

// ReportArchive stores batch run reports as JSON objects under reports/<run-id>.json.
type ReportArchive struct {
	api    minioAPI
	bucket string
}

// NewReportArchive creates an archive backed by a real *minio.Client instance.
func NewReportArchive(ctx context.Context, client *minio.Client, bucket string) (*ReportArchive, error) {
	return NewReportArchiveWithAPI(ctx, minioClientWrapper{c: client}, bucket)
}

// NewReportArchiveWithAPI allows injecting a mockable API (used in tests).
func NewReportArchiveWithAPI(ctx context.Context, api minioAPI, bucket string) (*ReportArchive, error) {
	a := &ReportArchive{
		api:    api,
		bucket: bucket,
	}

	if err := a.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return a, nil
}

func (a *ReportArchive) ensureBucketExists(ctx context.Context) error {
	exists, err := a.api.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = a.api.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Save uploads report, replacing any earlier report with the same run id.
func (a *ReportArchive) Save(ctx context.Context, report model.RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = a.api.PutObject(ctx, a.bucket, reportKey(report.RunID), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	return nil
}

// Load downloads the report of the given run. A missing report yields model.ErrNotFound.
func (a *ReportArchive) Load(ctx context.Context, runID uuid.UUID) (model.RunReport, error) {
	obj, err := a.api.GetObject(ctx, a.bucket, reportKey(runID), minio.GetObjectOptions{})
	if err != nil {
		return model.RunReport{}, mapObjectError(runID, err)
	}
	defer obj.Close()

	var report model.RunReport
	if err := json.NewDecoder(obj).Decode(&report); err != nil {
		return model.RunReport{}, mapObjectError(runID, err)
	}
	return report, nil
}

func mapObjectError(runID uuid.UUID, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("report %s: %w", runID, model.ErrNotFound)
	}
	return fmt.Errorf("failed to get report: %w", err)
}

func reportKey(runID uuid.UUID) string {
	return "reports/" + runID.String() + ".json"
}
