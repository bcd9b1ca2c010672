package storage

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/blavejr/studybuddy/config"
	"github.com/blavejr/studybuddy/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a MongoDB-backed index for deployments that want the notes to
// survive a restart. Ranking happens in process with cosine similarity, same
// as the memory store.
type MongoStore struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
	config     *config.Config
}

func NewMongoStore(cfg *config.Config) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.MongoDatabase)
	collection := database.Collection(cfg.MongoCollection)

	log.Printf("Connected to MongoDB: %s/%s", cfg.MongoDatabase, cfg.MongoCollection)

	return &MongoStore{
		client:     client,
		database:   database,
		collection: collection,
		config:     cfg,
	}, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the document_id lookup index if it doesn't exist.
func (s *MongoStore) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "document_id", Value: 1}},
		Options: options.Index().SetName("document_id_index"),
	}

	if _, err := s.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create document_id index: %w", err)
	}

	return nil
}

func (s *MongoStore) Add(ctx context.Context, chunks []models.NoteChunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to insert")
	}

	for i, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %d has no embedding", i)
		}
	}

	docs := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chunk
	}

	// single InsertMany so a batch is stored all-or-nothing
	startTime := time.Now()
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	log.Printf("Inserted %d chunks in %v", len(chunks), time.Since(startTime))
	return nil
}

func (s *MongoStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]models.SearchResult, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var chunks []models.NoteChunk
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("failed to decode chunks: %w", err)
	}

	// calculate cosine similarity for each chunk
	results := make([]models.SearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) != len(queryEmbedding) {
			continue
		}

		score := cosineSimilarity(queryEmbedding, chunk.Embedding)
		results = append(results, models.SearchResult{
			Chunk: chunk,
			Score: float64(score),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// GetDocumentIDs returns all unique document IDs present in the index.
func (s *MongoStore) GetDocumentIDs(ctx context.Context) ([]string, error) {
	distinct, err := s.collection.Distinct(ctx, "document_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct document IDs: %w", err)
	}

	ids := make([]string, 0, len(distinct))
	for _, id := range distinct {
		if strID, ok := id.(string); ok {
			ids = append(ids, strID)
		}
	}

	return ids, nil
}
