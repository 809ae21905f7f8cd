package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	bookingRepo "schooltrip/database/repository/booking"
	tourRepo "schooltrip/database/repository/tour"
	"schooltrip/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ChatContactName = "ჯავშანი ჩატიდან"
	chatNotesPrefix = "მომხმარებლის ბოლო მესიჯი: "
	priceTolerance  = 0.005
)

var phonePattern = regexp.MustCompile(`\+?\d[\d\s\-()]{6,}\d`)

// Actor is the authenticated caller of a booking operation.
type Actor struct {
	UserID string
	Admin  bool
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor Actor, input models.BookingInput) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.BookingView, error)
	ListForAdmin(ctx context.Context, filter models.BookingFilter) ([]models.BookingView, error)
	ApplyUpdate(ctx context.Context, id string, actor Actor, update models.BookingUpdate) (*models.Booking, error)
	SetStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Booking, error)
	CreateFromChat(ctx context.Context, message string, earlier []string, tours []models.Tour) (*models.Booking, error)
}

type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Tours    tourRepo.TourRepository
	Logger   *zap.Logger

	now func() time.Time
}

func NewBookingService(bookings bookingRepo.BookingRepository, tours tourRepo.TourRepository, logger *zap.Logger) *DefaultBookingService {
	return &DefaultBookingService{Bookings: bookings, Tours: tours, Logger: logger, now: time.Now}
}

func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor Actor, input models.BookingInput) (*models.Booking, error) {
	if actor.UserID == "" {
		return nil, ErrSignInRequired
	}
	tourID := strings.TrimSpace(input.TourID)
	if tourID == "" {
		return nil, invalid("tourId", "is required")
	}
	p := input.Participants
	if p.Students < 0 || p.Parents < 0 || p.Teachers < 0 {
		return nil, invalid("participants", "counts must not be negative")
	}
	if p.Total() == 0 {
		return nil, invalid("participants", "at least one participant is required")
	}

	var menu *Menu
	if input.FoodSelection != nil && strings.TrimSpace(input.FoodSelection.MenuType) != "" {
		m, ok := LookupMenu(input.FoodSelection.MenuType)
		if !ok {
			return nil, invalid("foodSelection.menuType", "unknown menu")
		}
		menu = &m
	}

	tour, err := s.Tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}
	if tour == nil {
		return nil, invalid("tourId", "tour does not exist")
	}

	total, food := Quote(tour.BasePrice, menu, p)
	if input.TotalPrice != 0 && math.Abs(input.TotalPrice-total) > priceTolerance {
		s.Logger.Warn("Client quote differs from recomputed price",
			zap.String("tourId", tourID),
			zap.Float64("quoted", input.TotalPrice),
			zap.Float64("computed", total))
	}

	now := s.now()
	b := &models.Booking{
		ID:           uuid.NewString(),
		TourID:       tourID,
		UserID:       actor.UserID,
		Participants: p,
		TotalPrice:   total,
		QuotedPrice:  input.TotalPrice,
		Status:       models.StatusPending,
		Source:       models.SourceWizard,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if menu != nil {
		b.FoodSelection = &models.FoodSelection{MenuType: menu.Label, TotalFoodPrice: food}
	}
	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.Logger.Info("Booking created", zap.String("bookingId", b.ID), zap.String("userId", actor.UserID), zap.Float64("total", total))
	return b, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, id string) (*models.BookingView, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}
	var tour *models.Tour
	if b.TourID != "" {
		if tour, err = s.Tours.GetByID(ctx, b.TourID); err != nil {
			return nil, fmt.Errorf("failed to resolve tour: %w", err)
		}
	}
	view := models.NewBookingView(*b, tour)
	return &view, nil
}

func (s *DefaultBookingService) ListForAdmin(ctx context.Context, filter models.BookingFilter) ([]models.BookingView, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("status", "unknown status")
	}
	bookings, err := s.Bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, b := range bookings {
		if b.TourID != "" && !seen[b.TourID] {
			seen[b.TourID] = true
			ids = append(ids, b.TourID)
		}
	}
	tours := map[string]models.Tour{}
	if len(ids) > 0 {
		if tours, err = s.Tours.GetByIDs(ctx, ids); err != nil {
			return nil, fmt.Errorf("failed to resolve tours: %w", err)
		}
	}

	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		var tour *models.Tour
		if t, ok := tours[b.TourID]; ok {
			tour = &t
		}
		views = append(views, models.NewBookingView(b, tour))
	}
	return views, nil
}

// ApplyUpdate merges exactly one wizard step into a booking owned by actor.
func (s *DefaultBookingService) ApplyUpdate(ctx context.Context, id string, actor Actor, update models.BookingUpdate) (*models.Booking, error) {
	patch, err := patchFromUpdate(update)
	if err != nil {
		return nil, err
	}

	existing, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if !actor.Admin && (actor.UserID == "" || existing.UserID != actor.UserID) {
		return nil, ErrForbidden
	}

	return s.writePatch(ctx, id, patch)
}

func (s *DefaultBookingService) SetStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Booking, error) {
	if !update.Status.Valid() {
		return nil, invalid("status", "must be one of pending, confirmed, rejected")
	}
	status := update.Status
	b, err := s.writePatch(ctx, id, models.BookingPatch{Status: &status})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Booking status set", zap.String("bookingId", id), zap.String("status", string(status)))
	return b, nil
}

// CreateFromChat stores a loosely parsed booking after the assistant confirmed one.
// earlier holds previous user messages, newest last.
func (s *DefaultBookingService) CreateFromChat(ctx context.Context, message string, earlier []string, tours []models.Tour) (*models.Booking, error) {
	now := s.now()
	b := &models.Booking{
		ID:     uuid.NewString(),
		Status: models.StatusPending,
		Source: models.SourceChat,
		ContactDetails: &models.ContactDetails{
			Name:  ChatContactName,
			Phone: extractPhone(message, earlier),
		},
		Notes:     chatNotesPrefix + message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if tour := matchTour(message, earlier, tours); tour != nil {
		b.TourID = tour.ID
	}
	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create chat booking: %w", err)
	}
	s.Logger.Info("Booking created from chat", zap.String("bookingId", b.ID), zap.String("tourId", b.TourID))
	return b, nil
}

func (s *DefaultBookingService) writePatch(ctx context.Context, id string, patch models.BookingPatch) (*models.Booking, error) {
	b, err := s.Bookings.ApplyPatch(ctx, id, patch)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return b, nil
}

func patchFromUpdate(u models.BookingUpdate) (models.BookingPatch, error) {
	var patch models.BookingPatch
	switch {
	case u.Bus != nil && u.ContactDetails != nil:
		return patch, invalid("body", "send either bus or contactDetails, not both")
	case u.Bus != nil:
		if u.Status != nil {
			return patch, invalid("status", "cannot be changed with transport")
		}
		name := strings.TrimSpace(u.Bus.Name)
		if name == "" {
			return patch, invalid("bus.name", "is required")
		}
		if u.Bus.Capacity < 0 {
			return patch, invalid("bus.capacity", "must not be negative")
		}
		patch.Bus = &models.BusSelection{Name: name, Driver: strings.TrimSpace(u.Bus.Driver), Capacity: u.Bus.Capacity}
	case u.ContactDetails != nil:
		if u.Status != nil && *u.Status != models.StatusPending {
			return patch, invalid("status", "only pending may accompany contact details")
		}
		name := strings.TrimSpace(u.ContactDetails.Name)
		phone := strings.TrimSpace(u.ContactDetails.Phone)
		if name == "" {
			return patch, invalid("contactDetails.name", "is required")
		}
		if phone == "" {
			return patch, invalid("contactDetails.phone", "is required")
		}
		pending := models.StatusPending
		patch.ContactDetails = &models.ContactDetails{Name: name, Phone: phone, SchoolName: strings.TrimSpace(u.ContactDetails.SchoolName)}
		patch.Status = &pending
	default:
		return patch, invalid("body", "bus or contactDetails is required")
	}
	return patch, nil
}

func extractPhone(message string, earlier []string) string {
	if m := phonePattern.FindString(message); m != "" {
		return strings.TrimSpace(m)
	}
	for i := len(earlier) - 1; i >= 0; i-- {
		if m := phonePattern.FindString(earlier[i]); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// matchTour picks the tour named in the latest message, falling back to
// earlier messages newest first.
func matchTour(message string, earlier []string, tours []models.Tour) *models.Tour {
	texts := append([]string{message}, reversed(earlier)...)
	for _, text := range texts {
		lower := strings.ToLower(text)
		for i := range tours {
			if tours[i].Name != "" && strings.Contains(lower, strings.ToLower(tours[i].Name)) {
				return &tours[i]
			}
		}
	}
	return nil
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}
