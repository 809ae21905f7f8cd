package busRepo

import (
	"context"
	"fmt"
	"time"

	"schooltrip/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBusRepo implements BusRepository using MongoDB.
type MongoBusRepo struct {
	coll *mongo.Collection
}

func NewMongoBusRepo(db *mongo.Database) *MongoBusRepo {
	return &MongoBusRepo{coll: db.Collection("buses")}
}

// EnsureIndexes creates the capacity index used by the transport filter.
func (r *MongoBusRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "capacity", Value: 1}}})
	if err != nil {
		return fmt.Errorf("failed to create bus indexes: %w", err)
	}
	return nil
}

func (r *MongoBusRepo) GetAll(ctx context.Context, minCapacity int) ([]models.Bus, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if minCapacity > 0 {
		filter["capacity"] = bson.M{"$gte": minCapacity}
	}
	opts := options.Find().SetSort(bson.D{{Key: "capacity", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve buses: %w", err)
	}
	buses := []models.Bus{}
	if err := cursor.All(ctx, &buses); err != nil {
		return nil, fmt.Errorf("failed to decode buses: %w", err)
	}
	return buses, nil
}

func (r *MongoBusRepo) GetByID(ctx context.Context, id string) (*models.Bus, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var bus models.Bus
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&bus); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch bus with id %s: %w", id, err)
	}
	return &bus, nil
}

func (r *MongoBusRepo) ReplaceAll(ctx context.Context, buses []models.Bus) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear buses: %w", err)
	}
	if len(buses) == 0 {
		return nil
	}
	docs := make([]interface{}, len(buses))
	for i := range buses {
		docs[i] = buses[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert buses: %w", err)
	}
	return nil
}
