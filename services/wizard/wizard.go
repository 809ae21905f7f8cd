package wizard

import (
	"errors"
	"fmt"
	"strings"

	"schooltrip/models"
	"schooltrip/services/booking"
)

type State string

const (
	StateQuote           State = "quote"
	StateTransportSelect State = "transportSelect"
	StateContactDetails  State = "contactDetails"
	StateConfirmed       State = "confirmed"
)

type Role string

const (
	RoleStudents Role = "students"
	RoleParents  Role = "parents"
	RoleTeachers Role = "teachers"
)

const (
	defaultStudents = 20
	defaultParents  = 5
	defaultTeachers = 2
)

var (
	ErrInvalidTransition = errors.New("action not allowed in the current step")
	ErrSignInRequired    = booking.ErrSignInRequired
	ErrIncomplete        = errors.New("step is incomplete")
	ErrBusTooSmall       = errors.New("bus cannot seat every participant")
)

// Wizard is one pass through quote, transport, contact and confirmation.
type Wizard struct {
	ID           string                 `json:"id"`
	State        State                  `json:"state"`
	TourID       string                 `json:"tourId,omitempty"`
	MenuID       string                 `json:"menuId"`
	Participants models.Participants    `json:"participants"`
	BookingID    string                 `json:"bookingId,omitempty"`
	Bus          *models.BusSelection   `json:"bus,omitempty"`
	Contact      *models.ContactDetails `json:"contactDetails,omitempty"`
}

func New(id string) *Wizard {
	w := &Wizard{ID: id}
	w.reset()
	return w
}

func (w *Wizard) reset() {
	w.State = StateQuote
	w.TourID = ""
	w.MenuID = booking.DefaultMenuID
	w.Participants = models.Participants{Students: defaultStudents, Parents: defaultParents, Teachers: defaultTeachers}
	w.BookingID = ""
	w.Bus = nil
	w.Contact = nil
}

func (w *Wizard) require(s State) error {
	if w.State != s {
		return fmt.Errorf("%w: in %s", ErrInvalidTransition, w.State)
	}
	return nil
}

// SetParticipants replaces the counts, clamping students and teachers to
// at least one and parents to at least zero.
func (w *Wizard) SetParticipants(p models.Participants) error {
	if err := w.require(StateQuote); err != nil {
		return err
	}
	w.Participants = clamp(p)
	return nil
}

func (w *Wizard) Adjust(role Role, delta int) error {
	if err := w.require(StateQuote); err != nil {
		return err
	}
	p := w.Participants
	switch role {
	case RoleStudents:
		p.Students += delta
	case RoleParents:
		p.Parents += delta
	case RoleTeachers:
		p.Teachers += delta
	default:
		return fmt.Errorf("%w: unknown participant role %q", ErrIncomplete, role)
	}
	w.Participants = clamp(p)
	return nil
}

func (w *Wizard) SelectTour(tourID string) error {
	if err := w.require(StateQuote); err != nil {
		return err
	}
	w.TourID = strings.TrimSpace(tourID)
	return nil
}

func (w *Wizard) SelectMenu(key string) error {
	if err := w.require(StateQuote); err != nil {
		return err
	}
	m, ok := booking.LookupMenu(key)
	if !ok {
		return fmt.Errorf("%w: unknown menu %q", ErrIncomplete, key)
	}
	w.MenuID = m.ID
	return nil
}

func (w *Wizard) Menu() booking.Menu {
	m, ok := booking.LookupMenu(w.MenuID)
	if !ok {
		m, _ = booking.LookupMenu(booking.DefaultMenuID)
	}
	return m
}

// Total is (tour base price + menu price) times the participant count.
func (w *Wizard) Total(tour models.Tour) float64 {
	m := w.Menu()
	total, _ := booking.Quote(tour.BasePrice, &m, w.Participants)
	return total
}

// Submit leaves the quote step. create runs only when every precondition
// holds and must return the new booking id.
func (w *Wizard) Submit(userID string, create func() (string, error)) error {
	if err := w.require(StateQuote); err != nil {
		return err
	}
	if userID == "" {
		return ErrSignInRequired
	}
	if w.TourID == "" {
		return fmt.Errorf("%w: choose a tour", ErrIncomplete)
	}
	id, err := create()
	if err != nil {
		return err
	}
	w.BookingID = id
	w.Bus = nil
	w.State = StateTransportSelect
	return nil
}

// SelectTransport records the chosen bus once apply has written it.
func (w *Wizard) SelectTransport(bus models.Bus, apply func(models.BusSelection) error) error {
	if err := w.require(StateTransportSelect); err != nil {
		return err
	}
	if bus.Capacity < w.Participants.Total() {
		return fmt.Errorf("%w: %d seats for %d people", ErrBusTooSmall, bus.Capacity, w.Participants.Total())
	}
	sel := models.BusSelection{Name: bus.Name, Driver: bus.DriverName, Capacity: bus.Capacity}
	if err := apply(sel); err != nil {
		return err
	}
	w.Bus = &sel
	w.State = StateContactDetails
	return nil
}

// Back returns from transport selection to the quote.
func (w *Wizard) Back() error {
	if err := w.require(StateTransportSelect); err != nil {
		return err
	}
	w.State = StateQuote
	return nil
}

func (w *Wizard) SubmitContact(contact models.ContactDetails, apply func(models.ContactDetails) error) error {
	if err := w.require(StateContactDetails); err != nil {
		return err
	}
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.SchoolName = strings.TrimSpace(contact.SchoolName)
	if contact.Name == "" || contact.Phone == "" {
		return fmt.Errorf("%w: name and phone are required", ErrIncomplete)
	}
	if err := apply(contact); err != nil {
		return err
	}
	w.Contact = &contact
	w.State = StateConfirmed
	return nil
}

// Restart clears a confirmed wizard back to a fresh quote.
func (w *Wizard) Restart() error {
	if err := w.require(StateConfirmed); err != nil {
		return err
	}
	w.reset()
	return nil
}

func clamp(p models.Participants) models.Participants {
	if p.Students < 1 {
		p.Students = 1
	}
	if p.Teachers < 1 {
		p.Teachers = 1
	}
	if p.Parents < 0 {
		p.Parents = 0
	}
	return p
}
