package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/johnwmail/lpaste/internal/models"
)

// dynamoAPI is the subset of the DynamoDB client used by DynamoStorage.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStorage implements Storage using AWS DynamoDB. The table must have a
// string partition key named "id".
type DynamoStorage struct {
	client    dynamoAPI
	tableName string
	timeout   time.Duration
}

// NewDynamoStorage creates a DynamoDB storage backend using the default AWS
// credential chain. An empty region defers to the SDK's resolution.
func NewDynamoStorage(ctx context.Context, tableName, region string, timeout time.Duration, logger zerolog.Logger) (*DynamoStorage, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load AWS config")
	}

	logger.Info().Str("table", tableName).Str("region", cfg.Region).Msg("using dynamodb storage")
	return newDynamoStorage(dynamodb.NewFromConfig(cfg), tableName, timeout), nil
}

func newDynamoStorage(client dynamoAPI, tableName string, timeout time.Duration) *DynamoStorage {
	return &DynamoStorage{
		client:    client,
		tableName: tableName,
		timeout:   timeout,
	}
}

// Create saves a paste to DynamoDB
func (d *DynamoStorage) Create(ctx context.Context, p *models.Paste) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	id := newID()
	item := map[string]types.AttributeValue{
		"id":         &types.AttributeValueMemberS{Value: id},
		"content":    &types.AttributeValueMemberS{Value: p.Content},
		"language":   &types.AttributeValueMemberS{Value: p.Language},
		"poster":     &types.AttributeValueMemberS{Value: p.Poster},
		"title":      &types.AttributeValueMemberS{Value: p.Title},
		"created_at": &types.AttributeValueMemberS{Value: p.CreatedAt.UTC().Format(time.RFC3339Nano)},
	}

	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return "", models.NewStorageError("dynamodb put", err)
	}
	return id, nil
}

// Get retrieves a paste by its ID
func (d *DynamoStorage) Get(ctx context.Context, id string) (Lookup, error) {
	if !validID(id) {
		return NotFound(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return NotFound(), models.NewStorageError("dynamodb get", err)
	}

	if result.Item == nil {
		return NotFound(), nil
	}

	paste, err := itemToPaste(result.Item)
	if err != nil {
		return NotFound(), models.NewStorageError("dynamodb decode", err)
	}
	return Found(paste), nil
}

// Delete removes a paste from DynamoDB
func (d *DynamoStorage) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	return models.NewStorageError("dynamodb delete", err)
}

// Close is a no-op for DynamoDB
func (d *DynamoStorage) Close() error {
	return nil
}

// itemToPaste converts a DynamoDB item to a Paste model
func itemToPaste(item map[string]types.AttributeValue) (*models.Paste, error) {
	paste := &models.Paste{}
	fields := map[string]*string{
		"id":       &paste.ID,
		"content":  &paste.Content,
		"language": &paste.Language,
		"poster":   &paste.Poster,
		"title":    &paste.Title,
	}
	for name, dst := range fields {
		if v, ok := item[name].(*types.AttributeValueMemberS); ok {
			*dst = v.Value
		}
	}

	if createdAt, ok := item["created_at"].(*types.AttributeValueMemberS); ok {
		ts, err := time.Parse(time.RFC3339Nano, createdAt.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "parse created_at of %s", paste.ID)
		}
		paste.CreatedAt = ts.UTC()
	}

	return paste, nil
}
