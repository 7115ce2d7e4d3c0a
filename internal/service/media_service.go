package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MediaStore persists uploaded media and resolves public URLs for stored keys
type MediaStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	URL(key string) string
}

// s3MediaStore stores media in an S3 compatible bucket
type s3MediaStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3MediaStore(client *s3.Client, bucket, publicURL string) MediaStore {
	return &s3MediaStore{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (m *s3MediaStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// URL joins the key onto the public media base; empty keys stay empty.
func (m *s3MediaStore) URL(key string) string {
	return MediaURL(m.publicURL, key)
}

// MediaURL builds the absolute URL of a media key.
func MediaURL(base, key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
