package counter

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CountersCollection is the collection holding one counter document per
// logical record type, keyed by the type name it sequences.
const CountersCollection = "counters"

type counterDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Value int                `bson:"value"`
}

// Mongo persists counters in a MongoDB collection. Next relies on the
// atomicity of findOneAndUpdate with upsert, so concurrent allocators on the
// same counter document never observe the same value.
type Mongo struct {
	counters *mongo.Collection
	owned    *mongo.Collection
}

// NewMongo builds an allocator over db. owned is the collection whose
// emptiness drives the reclaim reset.
func NewMongo(db *mongo.Database, owned *mongo.Collection) *Mongo {
	return &Mongo{counters: db.Collection(CountersCollection), owned: owned}
}

func (m *Mongo) Next(ctx context.Context, name string) (int, error) {
	filter := bson.D{{Key: "name", Value: name}}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "value", Value: 1}}}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	if err := m.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return 0, fmt.Errorf("next sequence value for %q: %w", name, err)
	}
	return doc.Value, nil
}

func (m *Mongo) Reclaim(ctx context.Context, name string) error {
	n, err := m.owned.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count %s documents: %w", m.owned.Name(), err)
	}

	filter := bson.D{{Key: "name", Value: name}}
	var update bson.D
	if n == 0 {
		// Park the counter at zero so the next upsert-increment restarts
		// the sequence at 1.
		update = bson.D{{Key: "$set", Value: bson.D{{Key: "value", Value: 0}}}}
	} else {
		update = bson.D{{Key: "$inc", Value: bson.D{{Key: "value", Value: -1}}}}
	}
	if _, err := m.counters.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("reclaim sequence value for %q: %w", name, err)
	}
	return nil
}
