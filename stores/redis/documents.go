package redis

import (
	"context"
	"errors"
	"fmt"

	"invoice-docstore/core"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Prepended to every key.
}

type documentStore struct {
	client *redis.Client
	prefix string
}

// NewDocumentStore connects to redis and checks the connection once.
func NewDocumentStore(ctx context.Context, cfg Config) (core.DocumentStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Failed commands go back to the caller untouched.
		MaxRetries: -1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return &documentStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *documentStore) FindID(ctx context.Context, id string) (*core.Document, error) {
	log := logrus.WithField("document_id", id)

	key, ok := core.DocumentKey(id)
	if !ok {
		log.Warn("Malformed document ID")
		return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
	}

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			log.Warn("Document with specified ID not found")
			return nil, fmt.Errorf("document with id %s: %w", id, core.ErrNotFound)
		}
		log.WithField("error", err).Error("Failed to retrieve document")
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}

	log.Info("Document retrieved successfully")
	return &core.Document{Data: data}, nil
}

func (s *documentStore) Create(ctx context.Context, document *core.Document) (string, error) {
	id := core.HashDocument(document.Data)
	key, _ := core.DocumentKey(id)
	log := logrus.WithFields(logrus.Fields{
		"document_id": id,
		"data_length": len(document.Data),
	})

	// SETNX writes the whole value or nothing, and never replaces a stored one.
	created, err := s.client.SetNX(ctx, s.prefix+key, document.Data, 0).Result()
	if err != nil {
		log.WithField("error", err).Error("Failed to create document")
		return "", fmt.Errorf("set document %s: %w", id, err)
	}
	if !created {
		log.Info("Document already stored")
		return id, nil
	}

	log.Info("Document created successfully")
	return id, nil
}

func (s *documentStore) Close() error {
	return s.client.Close()
}
