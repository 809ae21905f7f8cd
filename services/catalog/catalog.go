package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	busRepo "schooltrip/database/repository/bus"
	tourRepo "schooltrip/database/repository/tour"
	"schooltrip/models"
	"schooltrip/services/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTourNotFound     = errors.New("tour not found")
	ErrBusNotFound      = errors.New("bus not found")
	ErrStorageDisabled  = errors.New("image storage is not configured")
	ErrInvalidTourInput = errors.New("invalid tour")
)

// CatalogService serves tours and buses.
type CatalogService interface {
	ListTours(ctx context.Context) ([]models.Tour, error)
	GetTour(ctx context.Context, id string) (*models.Tour, error)
	CreateTour(ctx context.Context, input models.TourInput) (*models.Tour, error)
	UpdateTour(ctx context.Context, id string, input models.TourInput) (*models.Tour, error)
	DeleteTour(ctx context.Context, id string) error
	UploadTourImage(ctx context.Context, id string, file io.Reader, filename string) (*models.Tour, error)
	ListBuses(ctx context.Context, minCapacity int) ([]models.Bus, error)
	GetBus(ctx context.Context, id string) (*models.Bus, error)
	Snapshot(ctx context.Context) (*models.CatalogSnapshot, error)
}

type DefaultCatalogService struct {
	Tours  tourRepo.TourRepository
	Buses  busRepo.BusRepository
	Images storage.ImageStore
	Logger *zap.Logger
}

// NewCatalogService wires the catalog. images may be nil when uploads are off.
func NewCatalogService(tours tourRepo.TourRepository, buses busRepo.BusRepository, images storage.ImageStore, logger *zap.Logger) *DefaultCatalogService {
	return &DefaultCatalogService{Tours: tours, Buses: buses, Images: images, Logger: logger}
}

func (s *DefaultCatalogService) ListTours(ctx context.Context) ([]models.Tour, error) {
	tours, err := s.Tours.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	if tours == nil {
		tours = []models.Tour{}
	}
	return tours, nil
}

func (s *DefaultCatalogService) GetTour(ctx context.Context, id string) (*models.Tour, error) {
	tour, err := s.Tours.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}
	if tour == nil {
		return nil, ErrTourNotFound
	}
	return tour, nil
}

func (s *DefaultCatalogService) CreateTour(ctx context.Context, input models.TourInput) (*models.Tour, error) {
	if err := validateTour(input); err != nil {
		return nil, err
	}
	tour := tourFromInput(uuid.NewString(), input)
	if err := s.Tours.Create(ctx, tour); err != nil {
		return nil, fmt.Errorf("failed to create tour: %w", err)
	}
	s.Logger.Info("Tour created", zap.String("tourId", tour.ID), zap.String("name", tour.Name))
	return tour, nil
}

func (s *DefaultCatalogService) UpdateTour(ctx context.Context, id string, input models.TourInput) (*models.Tour, error) {
	if err := validateTour(input); err != nil {
		return nil, err
	}
	tour := tourFromInput(id, input)
	if err := s.Tours.Update(ctx, tour); err != nil {
		if errors.Is(err, tourRepo.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, fmt.Errorf("failed to update tour: %w", err)
	}
	return tour, nil
}

// DeleteTour removes the tour only; bookings keep their dangling reference.
func (s *DefaultCatalogService) DeleteTour(ctx context.Context, id string) error {
	if err := s.Tours.Delete(ctx, id); err != nil {
		if errors.Is(err, tourRepo.ErrNotFound) {
			return ErrTourNotFound
		}
		return fmt.Errorf("failed to delete tour: %w", err)
	}
	s.Logger.Info("Tour deleted", zap.String("tourId", id))
	return nil
}

func (s *DefaultCatalogService) UploadTourImage(ctx context.Context, id string, file io.Reader, filename string) (*models.Tour, error) {
	if s.Images == nil {
		return nil, ErrStorageDisabled
	}
	tour, err := s.GetTour(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.Images.UploadImage(ctx, file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to store tour image: %w", err)
	}
	tour.Image = url
	if err := s.Tours.Update(ctx, tour); err != nil {
		if errors.Is(err, tourRepo.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, fmt.Errorf("failed to save tour image: %w", err)
	}
	return tour, nil
}

func (s *DefaultCatalogService) ListBuses(ctx context.Context, minCapacity int) ([]models.Bus, error) {
	if minCapacity < 0 {
		minCapacity = 0
	}
	buses, err := s.Buses.GetAll(ctx, minCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}
	if buses == nil {
		buses = []models.Bus{}
	}
	return buses, nil
}

func (s *DefaultCatalogService) GetBus(ctx context.Context, id string) (*models.Bus, error) {
	bus, err := s.Buses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load bus: %w", err)
	}
	if bus == nil {
		return nil, ErrBusNotFound
	}
	return bus, nil
}

// Snapshot reads the whole catalog for prompt building.
func (s *DefaultCatalogService) Snapshot(ctx context.Context) (*models.CatalogSnapshot, error) {
	tours, err := s.ListTours(ctx)
	if err != nil {
		return nil, err
	}
	buses, err := s.ListBuses(ctx, 0)
	if err != nil {
		return nil, err
	}
	return &models.CatalogSnapshot{Tours: tours, Buses: buses}, nil
}

func validateTour(input models.TourInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTourInput)
	}
	if input.BasePrice < 0 {
		return fmt.Errorf("%w: basePrice must not be negative", ErrInvalidTourInput)
	}
	if input.Rating < 0 || input.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidTourInput)
	}
	return nil
}

func tourFromInput(id string, input models.TourInput) *models.Tour {
	tags := make([]string, 0, len(input.Tags))
	seen := make(map[string]bool)
	for _, tag := range input.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return &models.Tour{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		BasePrice:   input.BasePrice,
		Rating:      input.Rating,
		Duration:    input.Duration,
		Description: input.Description,
		Tags:        tags,
		Image:       input.Image,
	}
}
