package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/invoice-atlas/pkg/models/api"
)

// Uploader is the subset of the S3 client the archive uses.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive persists serialized audit reports to a bucket so downstream
// consumers can fetch them after the run.
type Archive struct {
	client Uploader
	bucket string
}

func NewArchive(client Uploader, bucket string) (*Archive, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &Archive{client: client, bucket: bucket}, nil
}

// Put writes the report as JSON under audits/<audit-id>.json and returns the
// object key.
func (a *Archive) Put(ctx context.Context, report api.DiscrepancyReport) (string, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report %s: %w", report.AuditID, err)
	}

	key := fmt.Sprintf("audits/%s.json", report.AuditID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("archive report %s: %w", report.AuditID, err)
	}
	return key, nil
}
