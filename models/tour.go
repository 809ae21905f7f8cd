package models

// Tour is a bookable destination with a fixed per-person base price.
type Tour struct {
	ID          string   `bson:"_id" json:"_id"`
	Name        string   `bson:"name" json:"name"`
	BasePrice   float64  `bson:"basePrice" json:"basePrice"`
	Rating      float64  `bson:"rating,omitempty" json:"rating,omitempty"`
	Duration    string   `bson:"duration,omitempty" json:"duration,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags"`
	Image       string   `bson:"image,omitempty" json:"image,omitempty"`
}

// TourInput is the admin create/edit payload.
type TourInput struct {
	Name        string   `json:"name"`
	BasePrice   float64  `json:"basePrice"`
	Rating      float64  `json:"rating"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image"`
}
