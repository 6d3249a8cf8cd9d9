// Package claude implements classify.Provider on the Anthropic API.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linnemanlabs/beacon/internal/classify"
)

const (
	// ResponseTokens bounds the assessment the model may return.
	ResponseTokens = 1024

	systemPrompt = "You are an emergency assessment AI. Analyze the situation and determine danger level."

	defaultMediaType = "image/jpeg"
)

// Client calls the Claude API to assess an SOS report.
type Client struct {
	client anthropic.Client
	model  anthropic.Model
}

// New creates a new Claude client with the given API key and model name.
func New(apiKey, model string) *Client {
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

// Assess sends the report prompt and images to Claude and returns the raw
// response text. Errors are returned as-is; the classifier absorbs them.
func (c *Client) Assess(ctx context.Context, prompt string, images []classify.Image) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: ResponseTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(toSDKBlocks(prompt, images)...),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude message: %w", err)
	}
	return extractText(msg), nil
}

// toSDKBlocks converts the prompt and report images to Claude content
// blocks, text first. Images with no declared media type are sent as JPEG.
func toSDKBlocks(prompt string, images []classify.Image) []anthropic.ContentBlockParamUnion {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(images)+1)
	blocks = append(blocks, anthropic.NewTextBlock(prompt))
	for _, img := range images {
		mt := img.MediaType
		if mt == "" {
			mt = defaultMediaType
		}
		blocks = append(blocks, anthropic.NewImageBlockBase64(mt, img.Data))
	}
	return blocks
}

// extractText concatenates the text blocks of a Claude response.
func extractText(msg *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}
