package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"schooltrip/models"

	"go.uber.org/zap"
)

// CatalogReader supplies the live catalog for prompts.
type CatalogReader interface {
	Snapshot(ctx context.Context) (*models.CatalogSnapshot, error)
}

// MessageSender delivers a text reply to a Messenger user.
type MessageSender interface {
	SendText(ctx context.Context, recipientID, text string) error
}

// BotService answers Messenger users, keeping one session per sender.
type BotService struct {
	Sessions  SessionStore
	Catalog   CatalogReader
	Generator Generator
	Sender    MessageSender
	Logger    *zap.Logger
}

func NewBotService(sessions SessionStore, catalog CatalogReader, gen Generator, sender MessageSender, logger *zap.Logger) *BotService {
	return &BotService{Sessions: sessions, Catalog: catalog, Generator: gen, Sender: sender, Logger: logger}
}

// HandleMessage appends the user's text, asks the model and forwards the
// reply. Model failures are answered with the apology text.
func (b *BotService) HandleMessage(ctx context.Context, senderID, text string) error {
	text = strings.TrimSpace(text)
	if senderID == "" || text == "" {
		return nil
	}
	log := b.Logger.With(zap.String("senderId", senderID))

	existing, err := b.Sessions.Get(ctx, senderID)
	if err != nil {
		return fmt.Errorf("failed to load chat session: %w", err)
	}
	var seed []models.ChatTurn
	if len(existing) == 0 {
		seed = b.seedTurns(ctx, log)
	}

	turns, err := b.appendUserTurn(ctx, senderID, text, seed)
	if errors.Is(err, errSessionExpired) {
		turns, err = b.appendUserTurn(ctx, senderID, text, b.seedTurns(ctx, log))
	}
	if err != nil {
		return fmt.Errorf("failed to append user turn: %w", err)
	}

	reply, err := b.Generator.Generate(ctx, turns)
	if err != nil {
		log.Error("Gemini API error", zap.Error(err))
		return b.send(ctx, senderID, ApologyText)
	}
	reply, _ = StripMarker(reply)

	if _, err := b.Sessions.Update(ctx, senderID, func(turns []models.ChatTurn) ([]models.ChatTurn, error) {
		return TrimHistory(append(turns, models.ChatTurn{Role: models.RoleModel, Text: reply})), nil
	}); err != nil {
		log.Warn("Failed to store model reply", zap.Error(err))
	}

	return b.send(ctx, senderID, reply)
}

// errSessionExpired reports a session that vanished between Get and Update.
var errSessionExpired = errors.New("chat session expired")

func (b *BotService) appendUserTurn(ctx context.Context, senderID, text string, seed []models.ChatTurn) ([]models.ChatTurn, error) {
	return b.Sessions.Update(ctx, senderID, func(turns []models.ChatTurn) ([]models.ChatTurn, error) {
		if len(turns) == 0 {
			if seed == nil {
				return nil, errSessionExpired
			}
			turns = append(turns, seed...)
		}
		turns = append(turns, models.ChatTurn{Role: models.RoleUser, Text: text})
		return TrimHistory(turns), nil
	})
}

// Reset forgets a sender's conversation.
func (b *BotService) Reset(ctx context.Context, senderID string) error {
	return b.Sessions.Clear(ctx, senderID)
}

func (b *BotService) seedTurns(ctx context.Context, log *zap.Logger) []models.ChatTurn {
	snap, err := b.Catalog.Snapshot(ctx)
	if err != nil {
		log.Error("Failed to read catalog for preamble", zap.Error(err))
		snap = nil
	}
	return []models.ChatTurn{
		{Role: models.RoleSystem, Text: messengerPreamble(snap)},
		{Role: models.RoleModel, Text: messengerAck},
	}
}

func (b *BotService) send(ctx context.Context, senderID, text string) error {
	if err := b.Sender.SendText(ctx, senderID, text); err != nil {
		return fmt.Errorf("failed to send messenger reply: %w", err)
	}
	return nil
}
