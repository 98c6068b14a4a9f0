package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/business-pulse/pkg/adapters"
	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/rs/zerolog"
)

var ErrNotCompleted = errors.New("only completed reports can be published")

// ObjectPutter is the part of the S3 client the publisher uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewS3Publisher(client ObjectPutter, bucket, prefix string) (*S3Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &S3Publisher{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewS3Client builds a client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Key returns the object key of one artifact of a report.
func (p *S3Publisher) Key(r *domain.Report, name string) string {
	return path.Join(p.prefix, r.BusinessID, r.ID, name)
}

func (p *S3Publisher) Publish(ctx context.Context, r *domain.Report) error {
	if r == nil || r.Status != domain.ReportStatusCompleted {
		return ErrNotCompleted
	}

	body, err := json.MarshalIndent(adapters.MapDomainReportToAPI(r), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", r.ID, err)
	}

	objects := []struct {
		name        string
		contentType string
		body        []byte
	}{
		{"report.txt", "text/plain; charset=utf-8", []byte(r.ContentText)},
		{"report.html", "text/html; charset=utf-8", []byte(r.ContentHTML)},
		{"report.json", "application/json", body},
	}

	for _, obj := range objects {
		key := p.Key(r, obj.name)
		_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(obj.body),
			ContentType: aws.String(obj.contentType),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s to s3: %w", key, err)
		}
	}

	zerolog.Ctx(ctx).Info().
		Str("report_id", r.ID).
		Str("location", fmt.Sprintf("s3://%s/%s", p.bucket, path.Join(p.prefix, r.BusinessID, r.ID))).
		Msg("report published")
	return nil
}
