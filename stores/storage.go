package stores

import (
	"context"
	"fmt"

	"invoice-docstore/config"
	"invoice-docstore/core"
	"invoice-docstore/stores/aws"
	"invoice-docstore/stores/filesystem"
	"invoice-docstore/stores/memory"
	"invoice-docstore/stores/redis"
	"invoice-docstore/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// GetStore builds the backend named by cfg.StorageType and prepares its
// namespace. contentType describes the documents the store will hold.
func GetStore(ctx context.Context, cfg config.Config, contentType string) (core.DocumentStore, error) {
	var (
		store core.DocumentStore
		err   error
	)

	storageField := logrus.Fields{
		"storageType": cfg.StorageType,
	}

	switch cfg.StorageType {
	case config.StorageFilesystem:
		storageField["basePath"] = cfg.LocalStoragePath
		store, err = filesystem.NewDocumentStore(cfg.LocalStoragePath)
	case config.StorageSQLite:
		storageField["dataSourceName"] = cfg.DataSourceName
		store, err = sqlite.NewDocumentStore(cfg.DataSourceName)
	case config.StorageS3:
		storageField["bucketName"] = cfg.S3BucketName
		store, err = aws.NewDocumentStore(ctx, aws.Config{
			Bucket:   cfg.S3BucketName,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			Prefix:   cfg.S3Prefix,

			ContentType: contentType,
		})
	case config.StorageRedis:
		storageField["redisAddr"] = cfg.RedisAddr
		store, err = redis.NewDocumentStore(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.StorageMemory:
		store = memory.NewDocumentStore()
		storageField["storageType"] = "in-memory"
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s storage: %w", cfg.StorageType, err)
	}

	logrus.WithFields(storageField).Info("Use storage")
	return store, nil
}
