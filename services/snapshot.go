package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"showcase-backend/models"
)

const defaultSnapshotKey = "projects.json"

// S3Snapshot publishes the synced collection to a bucket as one JSON
// document, which lets the static front-end serve the full listing without
// hitting the API.
type S3Snapshot struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

func NewS3Snapshot(ctx context.Context, bucket, key string) (*S3Snapshot, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	if key == "" {
		key = defaultSnapshotKey
	}

	return &S3Snapshot{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		key:    key,
		logger: log.With().Str("serviceName", "s3Snapshot").Logger(),
	}, nil
}

// Publish uploads the collection, overwriting the previous snapshot.
func (s *S3Snapshot) Publish(ctx context.Context, projects []*models.Project) error {
	body, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot to %s/%s: %w", s.bucket, s.key, err)
	}

	s.logger.Info().Str("bucket", s.bucket).Str("key", s.key).Int("projects", len(projects)).Msg("Published project snapshot")
	return nil
}
