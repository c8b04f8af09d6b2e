// Package storage implementa el almacén de objetos de las imágenes de producto sobre S3
// (AWS S3, MinIO o cualquier servicio compatible).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalog-exchange/internal/application/exchange"
	"github.com/jhoicas/catalog-exchange/pkg/config"
)

var _ exchange.AssetStore = (*S3Store)(nil)

// S3Store sube y borra objetos en un bucket y construye su URL pública.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	log           zerolog.Logger
}

// Option configura S3Store.
type Option func(*S3Store)

// WithLogger asigna el logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *S3Store) { s.log = l }
}

// NewS3Store crea el almacén a partir de la configuración.
func NewS3Store(cfg config.StorageConfig, opts ...Option) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket requerido")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage: credenciales requeridas")
	}
	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("storage: endpoint inválido: %w", err)
		}
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: configuración AWS: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimSuffix(endpoint, "/") + "/" + cfg.Bucket
	}
	s := &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(base, "/") + "/",
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Upload guarda body bajo key. body debe ser seekable si el endpoint no usa TLS.
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" {
		return errors.New("storage: key requerida")
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("storage: subir %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Int64("size", size).Msg("objeto subido")
	return nil
}

// Delete borra el objeto key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage: key requerida")
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("storage: borrar %s: %w", key, err)
	}
	return nil
}

// URL devuelve la URL pública del objeto.
func (s *S3Store) URL(key string) string {
	return s.publicBaseURL + strings.TrimPrefix(key, "/")
}

// Bucket devuelve el nombre del bucket.
func (s *S3Store) Bucket() string {
	return s.bucket
}
