package main

import (
	"context"
	"time"

	"schooltrip/config"
	"schooltrip/database"
	busRepo "schooltrip/database/repository/bus"
	tourRepo "schooltrip/database/repository/tour"
	"schooltrip/models"
	"schooltrip/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var seedTours = []models.Tour{
	{
		Name:        "Sataflia",
		BasePrice:   15,
		Rating:      4.9,
		Duration:    "Full Day",
		Description: "Explore dinosaur footprints, ancient caves, and stunning glass walkways in this natural wonder.",
		Tags:        []string{"Nature", "Science", "Adventure"},
		Image:       "https://cdn.georgiantravelguide.com/storage/files/sataflia-satafliis-aghkvetili-sataplia-9.jpg",
	},
	{
		Name:        "Gelati Monastery",
		BasePrice:   20,
		Rating:      4.8,
		Duration:    "Half Day",
		Description: "UNESCO World Heritage site with breathtaking medieval frescoes and rich Georgian history.",
		Tags:        []string{"History", "Culture", "UNESCO"},
		Image:       "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcTM5dikgFOsKQBXEzpFV9JYkbRhsZgcDsIdRg&s",
	},
	{
		Name:        "Signagi",
		BasePrice:   40,
		Rating:      4.9,
		Duration:    "Full Day",
		Description: "The 'City of Love' with panoramic Alazani Valley views and charming cobblestone streets.",
		Tags:        []string{"Culture", "Wine Region", "Views"},
		Image:       "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcTRfQqqNoHc9pidFPX5vOqERb4FR4SIZndmHg&s",
	},
	{
		Name:        "Motsameta",
		BasePrice:   10,
		Rating:      4.7,
		Duration:    "Half Day",
		Description: "Cliff-edge monastery surrounded by lush forests and the scenic Tskaltsitela River canyon.",
		Tags:        []string{"Nature", "History", "Scenic"},
		Image:       "https://cdn.georgiantravelguide.com/storage/thumbnails/imereti-motsameta-monastery-2.jpg",
	},
}

var seedBuses = []models.Bus{
	{
		Name:       "Mercedes Sprinter",
		Type:       "Minibus",
		Capacity:   20,
		Image:      "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcSDWHZTJzm6DSuifwbDkVY37Bap8J1s0T93Fg&s",
		DriverName: "გიორგი",
		Rating:     4.8,
		PricePerKm: 1.5,
		Features:   []string{"AC", "WiFi"},
	},
	{
		Name:       "Setra S415",
		Type:       "Coach",
		Capacity:   50,
		Image:      "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcQBYePASYWmYnCbRbvINpj7-Ms-qlXmhS-tiA&s",
		DriverName: "დათო",
		Rating:     4.9,
		PricePerKm: 2.5,
		Features:   []string{"AC", "TV", "Toilet", "WiFi"},
	},
	{
		Name:       "Isuzu Turquoise",
		Type:       "Midibus",
		Capacity:   30,
		Image:      "https://www.lectura-specs.com/models/renamed/detail_max_retina/touring-motor-choaches-turquoise-isuzu.png",
		DriverName: "ლევანი",
		Rating:     4.5,
		PricePerKm: 2.0,
		Features:   []string{"AC", "Microphone"},
	},
}

// Replaces the tour and bus collections with the launch catalog.
func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := database.InitDB(logger); err != nil {
		logger.Fatal("seed: database unavailable", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	defer database.Close(ctx)

	db := database.DB()
	for i := range seedTours {
		seedTours[i].ID = uuid.NewString()
	}
	for i := range seedBuses {
		seedBuses[i].ID = uuid.NewString()
	}

	if err := tourRepo.NewMongoTourRepo(db).ReplaceAll(ctx, seedTours); err != nil {
		logger.Fatal("seed: failed to replace tours", zap.Error(err))
	}
	logger.Info("Tours seeded", zap.Int("count", len(seedTours)))

	if err := busRepo.NewMongoBusRepo(db).ReplaceAll(ctx, seedBuses); err != nil {
		logger.Fatal("seed: failed to replace buses", zap.Error(err))
	}
	logger.Info("Buses seeded", zap.Int("count", len(seedBuses)))
}
