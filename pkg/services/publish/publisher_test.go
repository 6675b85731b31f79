package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putCall struct {
	Key         string
	ContentType string
	Body        string
}

type fakePutter struct {
	calls []putCall
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, putCall{
		Key:         *input.Key,
		ContentType: *input.ContentType,
		Body:        string(body),
	})
	return &s3.PutObjectOutput{}, nil
}

func TestPublishSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok":true}`), 0o644))

	fake := &fakePutter{}
	p := &Publisher{client: fake, bucket: "study-dashboards"}

	key, err := p.PublishSnapshot(context.Background(), path, "moud/v1")
	require.NoError(t, err)

	assert.Equal(t, "moud/v1/dashboard_data.json", key)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "application/json", fake.calls[0].ContentType)
	assert.Equal(t, `{"ok":true}`, fake.calls[0].Body)
}

func TestPublishSnapshotMissingFile(t *testing.T) {
	p := &Publisher{client: &fakePutter{}, bucket: "study-dashboards"}
	_, err := p.PublishSnapshot(context.Background(), filepath.Join(t.TempDir(), "absent.json"), "")
	assert.Error(t, err)
}

func TestPublishAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("void 0;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styles.css"), []byte("body{}"), 0o644))

	fake := &fakePutter{}
	p := &Publisher{client: fake, bucket: "study-dashboards"}

	keys, err := p.PublishAssets(context.Background(), dir, "moud")
	require.NoError(t, err)

	assert.Equal(t, []string{"moud/app.js", "moud/index.html", "moud/styles.css"}, keys)
	require.Len(t, fake.calls, 3)
	for _, call := range fake.calls {
		switch {
		case strings.HasSuffix(call.Key, ".html"):
			assert.Contains(t, call.ContentType, "text/html")
		case strings.HasSuffix(call.Key, ".css"):
			assert.Contains(t, call.ContentType, "text/css")
		case strings.HasSuffix(call.Key, ".js"):
			assert.NotEmpty(t, call.ContentType)
		}
	}
}

func TestPublishUploadFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	p := &Publisher{client: &fakePutter{err: errors.New("denied")}, bucket: "study-dashboards"}
	_, err := p.PublishSnapshot(context.Background(), path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "study-dashboards")
}
