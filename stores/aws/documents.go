package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"invoice-docstore/core"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Bucket   string
	Region   string
	Endpoint string // Custom endpoint for MinIO, LocalStack and the like.
	Prefix   string // Prepended to every object key.

	ContentType string // Stored as object metadata.
}

type documentStore struct {
	s3Client *s3.Client
	bucket   string // Name of the S3 bucket
	prefix   string

	contentType string
}

func NewDocumentStore(ctx context.Context, cfg Config) (core.DocumentStore, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, clientOptions(cfg))

	return newDocumentStore(s3Client, cfg), nil
}

// clientOptions disables the SDK retryer: failures go straight back to the
// caller, which decides whether to try again.
func clientOptions(cfg Config) func(*s3.Options) {
	return func(o *s3.Options) {
		o.Retryer = aws.NopRetryer{}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}
}

func newDocumentStore(client *s3.Client, cfg Config) *documentStore {
	contentType := cfg.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &documentStore{
		s3Client:    client,
		bucket:      cfg.Bucket,
		prefix:      cfg.Prefix,
		contentType: contentType,
	}
}

func (s *documentStore) FindID(ctx context.Context, id string) (*core.Document, error) {
	log := logrus.WithField("document_id", id)

	key, ok := core.DocumentKey(id)
	if !ok {
		log.Warn("Malformed document ID")
		return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
	}

	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		if isNotFound(err) {
			log.Warn("Document with specified ID not found")
			return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
		}
		log.WithField("error", err).Error("Failed to retrieve document")
		return nil, fmt.Errorf("failed to get document with id %s: %w", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithField("error", err).Error("Failed to read document")
		return nil, fmt.Errorf("failed to read document data: %w", err)
	}

	log.Info("Document retrieved successfully")
	return &core.Document{Data: data}, nil
}

func (s *documentStore) Create(ctx context.Context, document *core.Document) (string, error) {
	id := core.HashDocument(document.Data)
	key, _ := core.DocumentKey(id)
	log := logrus.WithFields(logrus.Fields{
		"document_id": id,
		"bucket":      s.bucket,
		"data_length": len(document.Data),
	})

	_, err := s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err == nil {
		log.Info("Document already stored")
		return id, nil
	}
	if !isNotFound(err) {
		log.WithField("error", err).Error("Failed to check document")
		return "", fmt.Errorf("failed to check document %s: %w", id, err)
	}

	// A PUT is atomic on S3: readers see the previous state or the whole object.
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + key),
		Body:        bytes.NewReader(document.Data),
		ContentType: aws.String(s.contentType),
	})
	if err != nil {
		log.WithField("error", err).Error("Failed to upload document")
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	log.Info("Document created successfully")
	return id, nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
