// services/r2_store.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"camera-status-bot/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
)

// R2Store keeps the document as a single object in a Cloudflare R2 bucket,
// for operators who would rather not depend on Gist/JSONBin availability.
type R2Store struct {
	client *s3.Client
	bucket string
	key    string
}

// NewR2Store builds an S3 client against the R2 endpoint. The object key is
// derived from the bot name so several deployments can share a bucket.
func NewR2Store(ctx context.Context, accountID, accessKeyID, accessKeySecret, bucket, botName string) (*R2Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load R2 config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Store{
		client: client,
		bucket: bucket,
		key:    slug.Make(botName) + "/camera-status.json",
	}, nil
}

func (s *R2Store) Load(ctx context.Context) (*models.Document, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("r2 fetch %s: %w", s.key, err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("r2 read %s: %w", s.key, err)
	}
	return decodeDocument(raw)
}

func (s *R2Store) Save(ctx context.Context, doc *models.Document) error {
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("r2 update %s: %w", s.key, err)
	}
	return nil
}
