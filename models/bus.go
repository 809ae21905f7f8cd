package models

// Bus is a transport offering with fixed seating capacity.
type Bus struct {
	ID         string   `bson:"_id" json:"_id"`
	Name       string   `bson:"name" json:"name"`
	Type       string   `bson:"type" json:"type"`
	Capacity   int      `bson:"capacity" json:"capacity"`
	Image      string   `bson:"image,omitempty" json:"image,omitempty"`
	DriverName string   `bson:"driverName" json:"driverName"`
	Rating     float64  `bson:"rating" json:"rating"`
	PricePerKm float64  `bson:"pricePerKm" json:"pricePerKm"`
	Features   []string `bson:"features,omitempty" json:"features"`
}
