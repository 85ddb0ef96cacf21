package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwmail/lpaste/internal/models"
)

// fakeDynamo keeps items in a map keyed by the "id" attribute.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	err   error
	table string
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(item map[string]types.AttributeValue) string {
	return item["id"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.table = *in.TableName
	f.items[keyOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestDynamoStorage_Contract(t *testing.T) {
	runStoreContract(t, newDynamoStorage(newFakeDynamo(), "pastes", time.Second), "not-a-uuid")
}

func TestDynamoStorage_UsesTable(t *testing.T) {
	fake := newFakeDynamo()
	store := newDynamoStorage(fake, "lpaste-test", time.Second)

	_, err := store.Create(context.Background(), &models.Paste{Content: "x", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "lpaste-test", fake.table)
}

func TestDynamoStorage_Unavailable(t *testing.T) {
	fake := newFakeDynamo()
	fake.err = errors.New("connection refused")
	store := newDynamoStorage(fake, "pastes", time.Second)
	ctx := context.Background()

	_, err := store.Create(ctx, &models.Paste{Content: "x"})
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)

	_, err = store.Get(ctx, newID())
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)

	err = store.Delete(ctx, newID())
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestItemToPaste_BadTimestamp(t *testing.T) {
	_, err := itemToPaste(map[string]types.AttributeValue{
		"id":         &types.AttributeValueMemberS{Value: "x"},
		"created_at": &types.AttributeValueMemberS{Value: "yesterday"},
	})
	assert.Error(t, err)
}
