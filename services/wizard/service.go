package wizard

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"schooltrip/models"
	"schooltrip/services/booking"
	"schooltrip/services/catalog"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("wizard session not found")

const sessionLocks = 32

// BookingWriter is the part of the booking service the wizard drives.
type BookingWriter interface {
	CreateBooking(ctx context.Context, actor booking.Actor, input models.BookingInput) (*models.Booking, error)
	ApplyUpdate(ctx context.Context, id string, actor booking.Actor, update models.BookingUpdate) (*models.Booking, error)
}

// CatalogReader is the part of the catalog the wizard reads.
type CatalogReader interface {
	GetTour(ctx context.Context, id string) (*models.Tour, error)
	GetBus(ctx context.Context, id string) (*models.Bus, error)
	ListBuses(ctx context.Context, minCapacity int) ([]models.Bus, error)
}

// View is a wizard with its live quote.
type View struct {
	*Wizard
	Menu  booking.Menu   `json:"menu"`
	Menus []booking.Menu `json:"menus"`
	Tour  *models.Tour   `json:"tour,omitempty"`
	Total float64        `json:"total"`
}

// Adjustment nudges one participant count.
type Adjustment struct {
	Role  Role `json:"role"`
	Delta int  `json:"delta"`
}

// QuoteInput edits the quote step; nil fields are left alone.
type QuoteInput struct {
	TourID       *string              `json:"tourId,omitempty"`
	MenuType     *string              `json:"menuType,omitempty"`
	Participants *models.Participants `json:"participants,omitempty"`
	Adjust       []Adjustment         `json:"adjust,omitempty"`
}

type Service struct {
	Store    Store
	Bookings BookingWriter
	Catalog  CatalogReader
	Logger   *zap.Logger

	locks [sessionLocks]sync.Mutex
}

func NewService(store Store, bookings BookingWriter, cat CatalogReader, logger *zap.Logger) *Service {
	return &Service{Store: store, Bookings: bookings, Catalog: cat, Logger: logger}
}

func (s *Service) Create(ctx context.Context) (*View, error) {
	w := New(uuid.NewString())
	if err := s.Store.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to save wizard: %w", err)
	}
	return s.view(ctx, w)
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, w)
}

func (s *Service) UpdateQuote(ctx context.Context, id string, input QuoteInput) (*View, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		if w.State != StateQuote {
			return fmt.Errorf("%w: in %s", ErrInvalidTransition, w.State)
		}
		if input.TourID != nil {
			if *input.TourID != "" {
				if _, err := s.Catalog.GetTour(ctx, *input.TourID); err != nil {
					if errors.Is(err, catalog.ErrTourNotFound) {
						return fmt.Errorf("%w: unknown tour", ErrIncomplete)
					}
					return err
				}
			}
			if err := w.SelectTour(*input.TourID); err != nil {
				return err
			}
		}
		if input.MenuType != nil {
			if err := w.SelectMenu(*input.MenuType); err != nil {
				return err
			}
		}
		if input.Participants != nil {
			if err := w.SetParticipants(*input.Participants); err != nil {
				return err
			}
		}
		for _, a := range input.Adjust {
			if err := w.Adjust(a.Role, a.Delta); err != nil {
				return err
			}
		}
		return nil
	})
}

// Submit creates the pending booking for the quote.
func (s *Service) Submit(ctx context.Context, id string, actor booking.Actor) (*View, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		return w.Submit(actor.UserID, func() (string, error) {
			b, err := s.Bookings.CreateBooking(ctx, actor, models.BookingInput{
				TourID:        w.TourID,
				Participants:  w.Participants,
				FoodSelection: &models.FoodSelectionHint{MenuType: w.MenuID},
			})
			if err != nil {
				return "", err
			}
			return b.ID, nil
		})
	})
}

// Buses lists transport that seats the current group.
func (s *Service) Buses(ctx context.Context, id string) ([]models.Bus, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Catalog.ListBuses(ctx, w.Participants.Total())
}

func (s *Service) SelectTransport(ctx context.Context, id string, actor booking.Actor, busID string) (*View, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		if w.State != StateTransportSelect {
			return fmt.Errorf("%w: in %s", ErrInvalidTransition, w.State)
		}
		bus, err := s.Catalog.GetBus(ctx, busID)
		if err != nil {
			if errors.Is(err, catalog.ErrBusNotFound) {
				return fmt.Errorf("%w: unknown bus", ErrIncomplete)
			}
			return err
		}
		return w.SelectTransport(*bus, func(sel models.BusSelection) error {
			_, err := s.Bookings.ApplyUpdate(ctx, w.BookingID, actor, models.BookingUpdate{
				Bus: &models.TransportUpdate{Name: sel.Name, Driver: sel.Driver, Capacity: sel.Capacity},
			})
			return err
		})
	})
}

func (s *Service) Back(ctx context.Context, id string) (*View, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.Back() })
}

func (s *Service) SubmitContact(ctx context.Context, id string, actor booking.Actor, contact models.ContactUpdate) (*View, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		details := models.ContactDetails{Name: contact.Name, Phone: contact.Phone, SchoolName: contact.SchoolName}
		return w.SubmitContact(details, func(c models.ContactDetails) error {
			pending := models.StatusPending
			_, err := s.Bookings.ApplyUpdate(ctx, w.BookingID, actor, models.BookingUpdate{
				ContactDetails: &models.ContactUpdate{Name: c.Name, Phone: c.Phone, SchoolName: c.SchoolName},
				Status:         &pending,
			})
			return err
		})
	})
}

func (s *Service) Restart(ctx context.Context, id string) (*View, error) {
	return s.mutate(ctx, id, func(w *Wizard) error { return w.Restart() })
}

func (s *Service) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &s.locks[h.Sum32()%sessionLocks]
}

func (s *Service) load(ctx context.Context, id string) (*Wizard, error) {
	w, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard: %w", err)
	}
	if w == nil {
		return nil, ErrSessionNotFound
	}
	return w, nil
}

// mutate applies fn and saves the wizard only when fn succeeds.
func (s *Service) mutate(ctx context.Context, id string, fn func(w *Wizard) error) (*View, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to save wizard: %w", err)
	}
	s.Logger.Debug("Wizard advanced", zap.String("wizardId", w.ID), zap.String("state", string(w.State)))
	return s.view(ctx, w)
}

func (s *Service) view(ctx context.Context, w *Wizard) (*View, error) {
	v := &View{Wizard: w, Menu: w.Menu(), Menus: booking.Menus()}
	if w.TourID == "" {
		return v, nil
	}
	tour, err := s.Catalog.GetTour(ctx, w.TourID)
	if errors.Is(err, catalog.ErrTourNotFound) {
		return v, nil
	}
	if err != nil {
		return nil, err
	}
	v.Tour = tour
	v.Total = w.Total(*tour)
	return v, nil
}
