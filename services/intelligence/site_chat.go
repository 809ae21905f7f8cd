package intelligence

import (
	"context"
	"errors"
	"strings"

	"schooltrip/models"

	"go.uber.org/zap"
)

const maxSiteHistory = 40

var ErrEmptyMessage = errors.New("message is required")

// ChatBookingCreator stores a booking confirmed in conversation.
type ChatBookingCreator interface {
	CreateFromChat(ctx context.Context, message string, earlier []string, tours []models.Tour) (*models.Booking, error)
}

// SiteChatService answers the web widget. The client owns the transcript.
type SiteChatService struct {
	Catalog   CatalogReader
	Generator Generator
	Bookings  ChatBookingCreator
	Logger    *zap.Logger
}

func NewSiteChatService(catalog CatalogReader, gen Generator, bookings ChatBookingCreator, logger *zap.Logger) *SiteChatService {
	return &SiteChatService{Catalog: catalog, Generator: gen, Bookings: bookings, Logger: logger}
}

func (s *SiteChatService) Reply(ctx context.Context, req models.SiteChatRequest) (*models.SiteChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	snap, err := s.Catalog.Snapshot(ctx)
	if err != nil {
		s.Logger.Error("Failed to read catalog for site chat", zap.Error(err))
		snap = nil
	}

	history := sanitizeHistory(req.History)
	turns := make([]models.ChatTurn, 0, len(history)+3)
	turns = append(turns,
		models.ChatTurn{Role: models.RoleSystem, Text: siteChatPrompt(snap)},
		models.ChatTurn{Role: models.RoleModel, Text: siteChatAck},
	)
	turns = append(turns, history...)
	turns = append(turns, models.ChatTurn{Role: models.RoleUser, Text: message})

	reply, err := s.Generator.Generate(ctx, turns)
	if err != nil {
		s.Logger.Error("Gemini API error in site chat", zap.Error(err))
		return &models.SiteChatResponse{Reply: ApologyText}, nil
	}

	reply, confirmed := StripMarker(reply)
	if confirmed {
		var tours []models.Tour
		if snap != nil {
			tours = snap.Tours
		}
		b, err := s.Bookings.CreateFromChat(ctx, message, userTexts(history), tours)
		if err != nil {
			s.Logger.Error("Failed to create booking from chat", zap.Error(err))
		} else {
			s.Logger.Info("Chat confirmed a booking", zap.String("bookingId", b.ID))
		}
	}
	return &models.SiteChatResponse{Reply: reply}, nil
}

// sanitizeHistory keeps the most recent messages, maps unknown roles to
// user and drops empty entries.
func sanitizeHistory(in []models.ChatMessage) []models.ChatTurn {
	if len(in) > maxSiteHistory {
		in = in[len(in)-maxSiteHistory:]
	}
	out := make([]models.ChatTurn, 0, len(in))
	for _, msg := range in {
		var parts []string
		for _, p := range msg.Parts {
			if t := strings.TrimSpace(p.Text); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) == 0 {
			continue
		}
		role := models.RoleUser
		if msg.Role == string(models.RoleModel) {
			role = models.RoleModel
		}
		out = append(out, models.ChatTurn{Role: role, Text: strings.Join(parts, "\n")})
	}
	return out
}

func userTexts(turns []models.ChatTurn) []string {
	var out []string
	for _, t := range turns {
		if t.Role == models.RoleUser {
			out = append(out, t.Text)
		}
	}
	return out
}
