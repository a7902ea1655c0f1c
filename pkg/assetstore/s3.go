package assetstore

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the connection details for an S3-compatible store
// (AWS S3 or MinIO).
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string // base endpoint, e.g. http://localhost:9000 for MinIO
	AccessKey string
	SecretKey string
	PublicURL string // base URL objects are served from; defaults to Endpoint
}

// S3Store is an S3-backed implementation of Store.
type S3Store struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Store creates a new S3Store with static credentials.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // MinIO serves buckets path-style
		}
	})

	if cfg.PublicURL == "" {
		cfg.PublicURL = cfg.Endpoint
	}
	return &S3Store{client: client, cfg: cfg}, nil
}

// Upload puts the file at localPath into the bucket under
// <folder>/<publicID><ext> and returns the public URL.
func (s *S3Store) Upload(ctx context.Context, localPath string, params UploadParams) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	ext := filepath.Ext(localPath)
	key := params.Folder + "/" + params.PublicID + ext

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if params.Kind != "" && contentType == "application/octet-stream" {
		contentType = params.Kind + "/*"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.cfg.PublicURL, s.cfg.Bucket, key), nil
}
