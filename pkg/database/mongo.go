package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/openswoop/pensum/pkg/catalog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo upserts catalog records into a collection, one document per SKU.
type Mongo struct {
	client    *mongo.Client
	c         *mongo.Collection
	batchSize int
	log       *zap.Logger
}

func NewMongo(ctx context.Context, uri, database, collection string, batchSize int, log *zap.Logger) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Mongo{
		client:    client,
		c:         client.Database(database).Collection(collection),
		batchSize: batchSize,
		log:       log,
	}, nil
}

// EnsureIndexes creates the unique index on sku.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_sku"),
	})
	return err
}

// SaveCatalog replaces every record's document by SKU, inserting it when
// missing. Documents for courses no longer in records are left alone.
func (m *Mongo) SaveCatalog(ctx context.Context, records []catalog.CourseRecord) error {
	if err := m.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	for i, batch := range catalog.Records(records).Batches(m.batchSize) {
		res, err := m.c.BulkWrite(ctx, upsertModels(batch), options.BulkWrite().SetOrdered(false))
		if err != nil {
			var bulkErr mongo.BulkWriteException
			if errors.As(err, &bulkErr) && len(bulkErr.WriteErrors) > 0 {
				we := bulkErr.WriteErrors[0]
				sku := "?"
				if we.Index >= 0 && we.Index < len(batch) {
					sku = batch[we.Index].SKU
				}
				return fmt.Errorf("batch %d: %d write error(s), first on sku %s: %s",
					i+1, len(bulkErr.WriteErrors), sku, we.Message)
			}
			return fmt.Errorf("batch %d: %w", i+1, err)
		}
		m.log.Debug("upserted batch",
			zap.Int("batch", i+1),
			zap.Int("documents", len(batch)),
			zap.Int64("inserted", res.UpsertedCount),
			zap.Int64("modified", res.ModifiedCount))
	}
	return nil
}

func upsertModels(records catalog.Records) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"sku": rec.SKU}).
			SetReplacement(rec).
			SetUpsert(true))
	}
	return models
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}
