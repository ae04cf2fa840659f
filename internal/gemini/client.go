package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/amicuslegal/amicus/internal/models"
)

// Client wraps the Gemini API for the assistant features. All calls run a
// single non-streaming generation against the configured model.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client. model defaults to gemini-1.5-flash.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

func (c *Client) generate(ctx context.Context, system string, contents []*genai.Content) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

// GenerateText runs a single-prompt generation
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	return c.generate(ctx, system, contents)
}

// GenerateChat replays the conversation history and appends the new user
// message as the final turn.
func (c *Client) GenerateChat(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, genai.NewContentFromText(turn.Text, turnRole(turn.Role)))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))
	return c.generate(ctx, system, contents)
}

// turnRole maps a stored conversation role onto the API's role type.
// Anything that is not a model turn is treated as user input.
func turnRole(role string) genai.Role {
	if role == "model" {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// GenerateFromFile sends a document inline alongside the prompt
func (c *Client) GenerateFromFile(ctx context.Context, system, prompt string, data []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromBytes(data, mimeType, genai.RoleUser),
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	return c.generate(ctx, system, contents)
}
