package mongocart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kedialo/barpos/internal/domain/models"
)

const (
	cartsCollection   = "carts"
	journalCollection = "sales_journal"
)

// Repository stores the cart slot and the sale journal in MongoDB, keyed by
// register ID. Meant for deployments where registers are backed by a shared
// store instead of local disk.
type Repository struct {
	client     *mongo.Client
	dbName     string
	registerID string
}

type cartDocument struct {
	RegisterID string            `bson:"_id"`
	Lines      []models.CartLine `bson:"lines"`
	UpdatedAt  time.Time         `bson:"updated_at"`
}

type journalDocument struct {
	RegisterID string            `bson:"register_id"`
	Sale       models.SaleResult `bson:"sale"`
	RecordedAt time.Time         `bson:"recorded_at"`
}

// New connects to MongoDB and returns a repository scoped to one register.
func New(ctx context.Context, uri, dbName, registerID string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{
		client:     client,
		dbName:     dbName,
		registerID: registerID,
	}, nil
}

// Load reads the register's cart slot. An absent slot yields an empty cart.
func (r *Repository) Load(ctx context.Context) ([]models.CartLine, error) {
	collection := r.client.Database(r.dbName).Collection(cartsCollection)

	var doc cartDocument
	err := collection.FindOne(ctx, bson.M{"_id": r.registerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart slot: %w", err)
	}

	return doc.Lines, nil
}

// Save upserts the register's cart slot with the full line sequence.
func (r *Repository) Save(ctx context.Context, lines []models.CartLine) error {
	collection := r.client.Database(r.dbName).Collection(cartsCollection)

	if lines == nil {
		lines = []models.CartLine{}
	}

	_, err := collection.UpdateOne(ctx,
		bson.M{"_id": r.registerID},
		bson.M{"$set": bson.M{"lines": lines, "updated_at": time.Now()}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save cart slot: %w", err)
	}

	return nil
}

// RecordSale inserts the settled sale into the journal collection.
func (r *Repository) RecordSale(ctx context.Context, result models.SaleResult) error {
	collection := r.client.Database(r.dbName).Collection(journalCollection)

	_, err := collection.InsertOne(ctx, journalDocument{
		RegisterID: r.registerID,
		Sale:       result,
		RecordedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("record sale: %w", err)
	}

	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
