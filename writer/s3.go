package writer

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "fundflow/config"
	"fundflow/logger"
)

// s3Mirror uploads a copy of every written document to the configured
// bucket. Mirror failures never fail the local write.
type s3Mirror struct {
	client  *s3.Client
	bucket  string
	prefix  string
	version string
	log     *logger.Log
}

func newS3Mirror(ctx context.Context, cfg *appconfig.Config) (*s3Mirror, error) {
	log := logger.GetLogger()

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Storage.S3.Region),
	}
	if cfg.Storage.S3.AccessKeyID != "" && cfg.Storage.S3.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Storage.S3.AccessKeyID,
				cfg.Storage.S3.SecretAccessKey,
				"",
			),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws configuration: %w", err)
	}

	creds, err := awsConfig.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	client := s3.NewFromConfig(awsConfig)

	log.WithComponent("s3_mirror").WithFields(logger.Fields{
		"bucket": cfg.Storage.S3.Bucket,
		"region": cfg.Storage.S3.Region,
		"prefix": cfg.Storage.S3.Prefix,
	}).Info("s3 mirror initialized")

	return &s3Mirror{
		client:  client,
		bucket:  cfg.Storage.S3.Bucket,
		prefix:  cfg.Storage.S3.Prefix,
		version: cfg.Fundflow.Version,
		log:     log,
	}, nil
}

func (m *s3Mirror) put(ctx context.Context, name string, data []byte) error {
	key := name
	if m.prefix != "" {
		key = path.Join(m.prefix, name)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"fundflow-version": m.version,
		},
	}

	ctx = context.WithoutCancel(ctx)
	if _, err := m.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("uploading %s to bucket %s: %w", key, m.bucket, err)
	}

	m.log.WithComponent("s3_mirror").WithFields(logger.Fields{
		"key":       key,
		"data_size": len(data),
	}).Debug("object mirrored")

	return nil
}
