package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"critique/pkg/config"
)

// DefaultPresignExpiry 预签名 URL 默认有效期
const DefaultPresignExpiry = 15 * time.Minute

// Upload kinds map to key prefixes under the bucket.
const (
	WebsiteIconPrefix = "upload/website/icon"
	ReviewVideoPrefix = "upload/review/video"
)

// S3Presigner hands out presigned PUT URLs so clients upload directly to the bucket.
type S3Presigner struct {
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewS3Presigner(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*S3Presigner, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// MinIO / R2 等兼容端点
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}

	return &S3Presigner{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expiry:  expiry,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// UploadKey builds <prefix>/<userID>/<unix millis>/<file name>.
func (p *S3Presigner) UploadKey(prefix string, userID int, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	return fmt.Sprintf("%s/%d/%d/%s", prefix, userID, p.now().UnixMilli(), name)
}

// PresignPut returns a URL allowing a single PUT of key.
func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := p.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(p.expiry))
	if err != nil {
		p.logger.Error("failed to generate presigned URL", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("presign failed: %w", err)
	}

	p.logger.Debug("presigned URL generated", zap.String("key", key), zap.Duration("expires_in", p.expiry))
	return req.URL, nil
}
