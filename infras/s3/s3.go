package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"jumuia/config"
	"jumuia/infras/metrics"
	"jumuia/infras/otel"
	"jumuia/shared/constant"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"

	metricsService = "s3"
)

var ErrForeignURL = errors.New("url does not belong to the configured bucket")

// Storage is the object store used for offer images.
type Storage interface {
	Upload(ctx context.Context, directory, fileName, contentType string, body io.Reader) (url string, err error)
	Delete(ctx context.Context, url string) error
	ObjectKeyFromURL(url string) (objectKey string, err error)
}

type s3Impl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) Storage {
	s3Config := config.External.S3

	staticProvider := credentials.NewStaticCredentialsProvider(
		s3Config.AccessKeyID,
		s3Config.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s3Config.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(s3Config.APIEndpoint)
		}

		o.UsePathStyle = true
		o.Region = "auto"
	})

	return &s3Impl{
		client: client,
		config: config,
		otel:   otel,
	}
}

func (svc *s3Impl) bucket() string {
	return svc.config.External.S3.BucketName
}

func (svc *s3Impl) publicURL(objectKey string) string {
	return strings.TrimSuffix(svc.config.External.S3.PublicDomain, "/") + "/" + objectKey
}

// Upload stores body under directory/fileName and returns its public URL.
func (svc *s3Impl) Upload(ctx context.Context, directory, fileName, contentType string, body io.Reader) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	objectKey := path.Join(directory, fileName)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    svc.bucket(),
	})

	buf := bytes.NewBuffer(nil)
	if _, err = buf.ReadFrom(body); err != nil {
		return constant.Empty, fmt.Errorf("failed to read file: %w", err)
	}

	reader := bytes.NewReader(buf.Bytes())
	start := time.Now()

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket()),
		Key:           aws.String(objectKey),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(reader.Size()),
	})

	metrics.ObserveExternal(metricsService, "put_object", statusOf(err), time.Since(start))

	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.publicURL(objectKey), nil
}

// Delete removes the object behind a URL previously returned by Upload.
func (svc *s3Impl) Delete(ctx context.Context, url string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	objectKey, err := svc.ObjectKeyFromURL(url)
	if err != nil {
		return err
	}

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    svc.bucket(),
	})

	start := time.Now()

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket()),
		Key:    aws.String(objectKey),
	})

	metrics.ObserveExternal(metricsService, "delete_object", statusOf(err), time.Since(start))

	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// ObjectKeyFromURL accepts URLs under the public domain or the path-style API endpoint.
func (svc *s3Impl) ObjectKeyFromURL(url string) (string, error) {
	prefixes := []string{
		strings.TrimSuffix(svc.config.External.S3.PublicDomain, "/") + "/",
	}

	if endpoint := svc.config.External.S3.APIEndpoint; endpoint != "" {
		prefixes = append(prefixes, fmt.Sprintf("%s/%s/", strings.TrimSuffix(endpoint, "/"), svc.bucket()))
	}

	for _, prefix := range prefixes {
		if prefix == "/" {
			continue
		}

		if key, ok := strings.CutPrefix(url, prefix); ok && key != "" {
			return key, nil
		}
	}

	return constant.Empty, ErrForeignURL
}

func statusOf(err error) int {
	if err != nil {
		return http.StatusBadGateway
	}

	return http.StatusOK
}
