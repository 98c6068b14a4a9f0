package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutter struct {
	mock.Mock
	bodies map[string]string
}

func (m *mockPutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(aws.ToString(in.Key))
	if m.bodies == nil {
		m.bodies = map[string]string{}
	}
	b, _ := io.ReadAll(in.Body)
	m.bodies[aws.ToString(in.Key)] = string(b)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func completedReport() *domain.Report {
	return &domain.Report{
		ID:          "r-1",
		BusinessID:  "b-1",
		Kind:        domain.ReportKindMonthly,
		Status:      domain.ReportStatusCompleted,
		ContentText: "plain",
		ContentHTML: "<p>html</p>",
	}
}

func TestNewS3Publisher(t *testing.T) {
	_, err := NewS3Publisher(nil, "bucket", "")
	assert.Error(t, err)
	_, err = NewS3Publisher(&mockPutter{}, "", "")
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	client := &mockPutter{}
	client.On("PutObject", mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	p, err := NewS3Publisher(client, "reports", "pulse")
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), completedReport()))

	client.AssertNumberOfCalls(t, "PutObject", 3)
	assert.Equal(t, "plain", client.bodies["pulse/b-1/r-1/report.txt"])
	assert.Equal(t, "<p>html</p>", client.bodies["pulse/b-1/r-1/report.html"])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(client.bodies["pulse/b-1/r-1/report.json"]), &doc))
	assert.Equal(t, "r-1", doc["id"])
	assert.Equal(t, "completed", doc["status"])
}

func TestPublish_RejectsUnfinished(t *testing.T) {
	client := &mockPutter{}
	p, err := NewS3Publisher(client, "reports", "")
	require.NoError(t, err)

	r := completedReport()
	r.Status = domain.ReportStatusFailed
	assert.ErrorIs(t, p.Publish(context.Background(), r), ErrNotCompleted)
	client.AssertNotCalled(t, "PutObject", mock.Anything)
}

func TestPublish_UploadError(t *testing.T) {
	client := &mockPutter{}
	client.On("PutObject", "b-1/r-1/report.txt").Return(nil, errors.New("access denied"))

	p, err := NewS3Publisher(client, "reports", "")
	require.NoError(t, err)

	err = p.Publish(context.Background(), completedReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b-1/r-1/report.txt")
	client.AssertNumberOfCalls(t, "PutObject", 1)
}
