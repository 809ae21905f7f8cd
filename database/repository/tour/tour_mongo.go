package tourRepo

import (
	"context"
	"fmt"
	"time"

	"schooltrip/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "tours"

// MongoTourRepo implements TourRepository using MongoDB.
type MongoTourRepo struct {
	coll *mongo.Collection
}

// NewMongoTourRepo creates a new instance of TourRepository using MongoDB.
func NewMongoTourRepo(db *mongo.Database) *MongoTourRepo {
	return &MongoTourRepo{coll: db.Collection(collectionName)}
}

func (r *MongoTourRepo) GetAll(ctx context.Context) ([]models.Tour, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tours: %w", err)
	}
	defer cursor.Close(ctx)

	tours := []models.Tour{}
	for cursor.Next(ctx) {
		var t models.Tour
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode tour: %w", err)
		}
		tours = append(tours, t)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return tours, nil
}

func (r *MongoTourRepo) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tour models.Tour
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tour); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch tour with id %s: %w", id, err)
	}
	return &tour, nil
}

func (r *MongoTourRepo) GetByIDs(ctx context.Context, ids []string) (map[string]models.Tour, error) {
	out := make(map[string]models.Tour, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tours: %w", err)
	}
	var tours []models.Tour
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("failed to decode tours: %w", err)
	}
	for _, t := range tours {
		out[t.ID] = t
	}
	return out, nil
}

func (r *MongoTourRepo) Create(ctx context.Context, tour *models.Tour) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, tour); err != nil {
		return fmt.Errorf("failed to create tour: %w", err)
	}
	return nil
}

func (r *MongoTourRepo) Update(ctx context.Context, tour *models.Tour) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        tour.Name,
		"basePrice":   tour.BasePrice,
		"rating":      tour.Rating,
		"duration":    tour.Duration,
		"description": tour.Description,
		"tags":        tour.Tags,
		"image":       tour.Image,
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": tour.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update tour with id %s: %w", tour.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTourRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete tour with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTourRepo) ReplaceAll(ctx context.Context, tours []models.Tour) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear tours: %w", err)
	}
	if len(tours) == 0 {
		return nil
	}
	docs := make([]interface{}, len(tours))
	for i := range tours {
		docs[i] = tours[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert tours: %w", err)
	}
	return nil
}
