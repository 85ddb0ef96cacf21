package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/johnwmail/lpaste/internal/config"
)

// New creates a storage backend based on the configuration
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Storage, error) {
	var (
		store Storage
		err   error
	)

	switch cfg.StorageType {
	case "mongodb":
		store, err = NewMongoStorage(ctx, cfg.MongoDBURI, cfg.MongoDBDatabase, cfg.MongoDBCollection, cfg.StoreTimeout, logger)

	case "dynamodb":
		store, err = NewDynamoStorage(ctx, cfg.DynamoDBTable, cfg.AWSRegion, cfg.StoreTimeout, logger)

	case "sqlite":
		store, err = NewSQLiteStorage(ctx, cfg.SQLitePath, cfg.StoreTimeout, logger)

	case "s3":
		store, err = NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.AWSRegion, cfg.StoreTimeout, logger)

	case "memory":
		logger.Warn().Msg("using in-memory storage; pastes are lost on restart")
		store = NewMemoryStorage()

	default:
		return nil, fmt.Errorf("unsupported storage type: %s (supported: mongodb, dynamodb, sqlite, s3, memory)", cfg.StorageType)
	}

	if err != nil {
		return nil, err
	}
	return store, nil
}
