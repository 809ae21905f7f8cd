package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
)

// Valid reports whether s is one of the three persisted statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

const (
	SourceWizard = "wizard"
	SourceChat   = "chat"
)

// Booking is a reservation request. TourID may dangle once the tour is deleted.
type Booking struct {
	ID             string          `bson:"_id" json:"_id"`
	TourID         string          `bson:"tourId,omitempty" json:"tourId,omitempty"`
	UserID         string          `bson:"userId,omitempty" json:"userId,omitempty"`
	Participants   Participants    `bson:"participants" json:"participants"`
	FoodSelection  *FoodSelection  `bson:"foodSelection,omitempty" json:"foodSelection,omitempty"`
	Bus            *BusSelection   `bson:"bus,omitempty" json:"bus,omitempty"`
	ContactDetails *ContactDetails `bson:"contactDetails,omitempty" json:"contactDetails,omitempty"`
	TotalPrice     float64         `bson:"totalPrice" json:"totalPrice"`
	QuotedPrice    float64         `bson:"quotedPrice,omitempty" json:"quotedPrice,omitempty"`
	Status         BookingStatus   `bson:"status" json:"status"`
	Source         string          `bson:"source,omitempty" json:"source,omitempty"`
	Notes          string          `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updatedAt"`
}

type Participants struct {
	Students int `bson:"students" json:"students"`
	Parents  int `bson:"parents" json:"parents"`
	Teachers int `bson:"teachers" json:"teachers"`
}

func (p Participants) Total() int {
	return p.Students + p.Parents + p.Teachers
}

type FoodSelection struct {
	MenuType       string  `bson:"menuType" json:"menuType"`
	TotalFoodPrice float64 `bson:"totalFoodPrice" json:"totalFoodPrice"`
}

// BusSelection is the transport block copied onto a booking.
type BusSelection struct {
	Name     string `bson:"name" json:"name"`
	Driver   string `bson:"driver" json:"driver"`
	Capacity int    `bson:"capacity" json:"capacity"`
}

type ContactDetails struct {
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone" json:"phone"`
	SchoolName string `bson:"schoolName,omitempty" json:"schoolName,omitempty"`
}

// BookingInput is the creation payload of POST /api/bookings.
type BookingInput struct {
	TourID        string             `json:"tourId"`
	Participants  Participants       `json:"participants"`
	FoodSelection *FoodSelectionHint `json:"foodSelection,omitempty"`
	TotalPrice    float64            `json:"totalPrice"`
}

// FoodSelectionHint names a menu by id or label; any client price is ignored.
type FoodSelectionHint struct {
	MenuType       string  `json:"menuType"`
	TotalFoodPrice float64 `json:"totalFoodPrice,omitempty"`
}

// TransportUpdate is the wizard's transport step.
type TransportUpdate struct {
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Capacity int    `json:"capacity"`
}

// ContactUpdate is the wizard's contact step.
type ContactUpdate struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	SchoolName string `json:"schoolName,omitempty"`
}

// StatusUpdate is the admin status action.
type StatusUpdate struct {
	Status BookingStatus `json:"status"`
}

// BookingUpdate is the body of PATCH /api/update-booking/:id. Exactly one
// step block is expected.
type BookingUpdate struct {
	Bus            *TransportUpdate `json:"bus,omitempty"`
	ContactDetails *ContactUpdate   `json:"contactDetails,omitempty"`
	Status         *BookingStatus   `json:"status,omitempty"`
}

// BookingPatch is the validated set of fields a repository writes.
type BookingPatch struct {
	Bus            *BusSelection
	ContactDetails *ContactDetails
	Status         *BookingStatus
}

func (p BookingPatch) Empty() bool {
	return p.Bus == nil && p.ContactDetails == nil && p.Status == nil
}

// BookingFilter narrows the admin listing.
type BookingFilter struct {
	Status BookingStatus
}

const (
	DeletedTourName   = "Deleted Tour"
	SelfOrganizedName = "Self-organized"
)

// BookingView is a booking with its tour reference resolved.
type BookingView struct {
	Booking
	Tour          *Tour  `json:"tour"`
	TourName      string `json:"tourName"`
	TransportName string `json:"transportName"`
}

// NewBookingView resolves display fields; a nil tour means it was deleted.
func NewBookingView(b Booking, tour *Tour) BookingView {
	v := BookingView{Booking: b, Tour: tour, TourName: DeletedTourName, TransportName: SelfOrganizedName}
	if tour != nil {
		v.TourName = tour.Name
	}
	if b.Bus != nil && b.Bus.Name != "" {
		v.TransportName = b.Bus.Name
	}
	return v
}
