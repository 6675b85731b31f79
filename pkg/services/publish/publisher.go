// Package publish pushes a built snapshot and the static dashboard assets to
// an S3 bucket for static hosting.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectPutter is the slice of the S3 API the publisher needs.
type objectPutter interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Publisher struct {
	client objectPutter
	bucket string
}

func NewPublisher(cfg awssdk.Config, bucket string) *Publisher {
	return &Publisher{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}
}

// PublishSnapshot uploads the artifact under prefix, keeping its file name.
func (p *Publisher) PublishSnapshot(ctx context.Context, snapshotPath string, prefix string) (string, error) {
	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		return "", fmt.Errorf("read snapshot %s: %w", snapshotPath, err)
	}

	key := path.Join(prefix, filepath.Base(snapshotPath))
	if err := p.put(ctx, key, data, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// PublishAssets uploads every file under assetsDir, preserving its relative
// layout. Returns the uploaded keys in walk order.
func (p *Publisher) PublishAssets(ctx context.Context, assetsDir string, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(assetsDir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(assetsDir, file)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", file, err)
		}
		key := path.Join(prefix, filepath.ToSlash(rel))
		if err := p.put(ctx, key, data, contentTypeFor(rel)); err != nil {
			return err
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (p *Publisher) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(p.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(data),
		ContentType: awssdk.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", p.bucket, key, err)
	}
	zerolog.Ctx(ctx).Info().
		Str("bucket", p.bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("object published")
	return nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
