package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/johnwmail/lpaste/internal/models"
)

// MongoStorage implements Storage using MongoDB. Paste ids are the hex form
// of the document ObjectID.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
	logger     zerolog.Logger
}

// mongoPaste is the document layout of a paste in MongoDB
type mongoPaste struct {
	ID        primitive.ObjectID `bson:"_id"`
	Content   string             `bson:"content"`
	Language  string             `bson:"language"`
	Poster    string             `bson:"poster"`
	Title     string             `bson:"title"`
	CreatedAt time.Time          `bson:"created_at"`
}

// NewMongoStorage connects to MongoDB and prepares the collection.
func NewMongoStorage(ctx context.Context, uri, database, collection string, timeout time.Duration, logger zerolog.Logger) (*MongoStorage, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongodb")
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongodb")
	}

	m := &MongoStorage{
		client:     client,
		collection: client.Database(database).Collection(collection),
		timeout:    timeout,
		logger:     logger,
	}

	if err := m.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "create mongodb indexes")
	}

	logger.Info().
		Str("database", database).
		Str("collection", collection).
		Msg("connected to mongodb")
	return m, nil
}

// createIndexes creates necessary indexes for the collection
func (m *MongoStorage) createIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*m.timeout)
	defer cancel()

	// Index on created_at for operational queries
	createdAtIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}

	_, err := m.collection.Indexes().CreateOne(ctx, createdAtIndex)
	return err
}

// Create inserts a paste document with a freshly generated ObjectID
func (m *MongoStorage) Create(ctx context.Context, p *models.Paste) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	doc := mongoPaste{
		ID:        primitive.NewObjectID(),
		Content:   p.Content,
		Language:  p.Language,
		Poster:    p.Poster,
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
	}

	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		return "", models.NewStorageError("mongodb insert", err)
	}
	return doc.ID.Hex(), nil
}

// Get retrieves a paste by its ObjectID hex string
func (m *MongoStorage) Get(ctx context.Context, id string) (Lookup, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return NotFound(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var doc mongoPaste
	err = m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFound(), nil
		}
		return NotFound(), models.NewStorageError("mongodb find", err)
	}

	return Found(&models.Paste{
		ID:        doc.ID.Hex(),
		Content:   doc.Content,
		Language:  doc.Language,
		Poster:    doc.Poster,
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt.UTC(),
	}), nil
}

// Delete removes a paste document
func (m *MongoStorage) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	_, err = m.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return models.NewStorageError("mongodb delete", err)
}

// Close closes the MongoDB connection
func (m *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	return m.client.Disconnect(ctx)
}
