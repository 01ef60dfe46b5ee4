package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/op/go-logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nikolastojicic02/mongodb-schema-optimization/document"
)

var log = logging.MustGetLogger("log")

const transactionsCollection = "transactions"

// Store is the MongoDB persistence collaborator. It owns the client for the
// duration of a run; main closes it deterministically.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes and verifies the connection. An unreachable server is
// fatal for the run.
func Connect(ctx context.Context, address, dbName string, timeout time.Duration) (*Store, error) {
	opts := options.Client().ApplyURI(address).SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("could not create mongo client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("could not reach mongo server at %s: %w", address, err)
	}
	log.Infof("Connected to MongoDB at %s", address)
	return &Store{client: client, db: client.Database(dbName)}, nil
}

// Drop removes the target database for a clean re-import.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.db.Drop(ctx); err != nil {
		return fmt.Errorf("could not drop database %s: %w", s.db.Name(), err)
	}
	log.Infof("Dropped database %s", s.db.Name())
	return nil
}

// InsertTransactions bulk-writes documents with unordered semantics so one
// rejected document does not stop the rest of the batch. Returns how many
// documents the server accepted.
func (s *Store) InsertTransactions(ctx context.Context, docs []document.Transaction) (int, error) {
	payload := make([]interface{}, len(docs))
	for i := range docs {
		payload[i] = docs[i]
	}
	res, err := s.db.Collection(transactionsCollection).
		InsertMany(ctx, payload, options.InsertMany().SetOrdered(false))
	if res != nil && err != nil {
		return len(res.InsertedIDs), err
	}
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// TransactionIndexes returns the analytical indexes the documents are
// shaped for: date-range plus final-amount sorting, per-store grouping,
// sparse user and voucher analysis, multikey item categories and
// day-of-week breakdowns.
func TransactionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}, {Key: "amounts.final", Value: -1}},
			Options: options.Index().SetName("idx_date_finalAmount"),
		},
		{
			Keys:    bson.D{{Key: "store.id", Value: 1}},
			Options: options.Index().SetName("idx_store_id"),
		},
		{
			Keys:    bson.D{{Key: "user.id", Value: 1}},
			Options: options.Index().SetName("idx_user_id_sparse").SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "voucher.id", Value: 1}},
			Options: options.Index().SetName("idx_voucher_id_sparse").SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "items.category", Value: 1}},
			Options: options.Index().SetName("idx_items_category_multikey"),
		},
		{
			Keys:    bson.D{{Key: "createdAtDetails.dayOfWeek", Value: 1}},
			Options: options.Index().SetName("idx_dayOfWeek"),
		},
	}
}

// EnsureIndexes creates the transaction indexes on the collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	names, err := s.db.Collection(transactionsCollection).Indexes().CreateMany(ctx, TransactionIndexes())
	if err != nil {
		return fmt.Errorf("could not create indexes: %w", err)
	}
	log.Infof("Created indexes: %v", names)
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
