package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"schooltrip/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var (
	ErrEmptyResponse     = errors.New("gemini returned no text")
	ErrGeneratorDisabled = errors.New("gemini is not configured")
)

// Generator produces the next model turn for a conversation whose last
// turn is the user's.
type Generator interface {
	Generate(ctx context.Context, turns []models.ChatTurn) (string, error)
}

// DisabledGenerator fails every call, so chat paths answer with the apology.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(context.Context, []models.ChatTurn) (string, error) {
	return "", ErrGeneratorDisabled
}

type GeminiGenerator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{
		client:  client,
		model:   client.GenerativeModel(modelName),
		timeout: timeout,
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, turns []models.ChatTurn) (string, error) {
	if len(turns) == 0 {
		return "", errors.New("no turns to send")
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := toContents(turns)
	last := contents[len(contents)-1]
	cs := g.model.StartChat()
	cs.History = contents[:len(contents)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	return responseText(resp)
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// toContents maps turns to Gemini roles and merges neighbours that end up
// with the same role, since the API expects user and model to alternate.
func toContents(turns []models.ChatTurn) []*genai.Content {
	var out []*genai.Content
	for _, t := range turns {
		role := "user"
		if t.Role == models.RoleModel {
			role = "model"
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, genai.Text(t.Text))
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Text)}})
	}
	return out
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
