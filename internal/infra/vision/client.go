// Package vision extracts itemized artwork records from photographed manifest
// pages via the OpenAI vision endpoint.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const extractionPrompt = "Extract all artwork details from this image. For each item, capture the WAC Code, " +
	"Artist, Title, and Dimensions. If multiple items are present, list them all. " +
	"Respond with JSON only, no markdown: " +
	`{"artworks":[{"wacCode":"...","artist":"... or null","title":"... or null","dimensions":"... or null"}]}`

// ScannedArtwork is one record recognized on a manifest page. Optional fields
// come back nullable from the model; callers get them as plain strings with
// "" meaning absent.
type ScannedArtwork struct {
	WACCode    string
	Artist     string
	Title      string
	Dimensions string
}

// Client is the AI extraction collaborator. One call per manifest page/photo;
// the caller concatenates results before reconciliation.
type Client interface {
	ExtractArtworks(ctx context.Context, imageBase64 string) ([]ScannedArtwork, error)
}

type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat any           `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type extractionResult struct {
	Artworks []struct {
		WACCode    string  `json:"wacCode"`
		Artist     *string `json:"artist"`
		Title      *string `json:"title"`
		Dimensions *string `json:"dimensions"`
	} `json:"artworks"`
}

func (c *OpenAIClient) ExtractArtworks(ctx context.Context, imageBase64 string) ([]ScannedArtwork, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("vision: API key is not configured")
	}

	url := imageBase64
	if !strings.HasPrefix(url, "data:") {
		url = "data:image/jpeg;base64," + url
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: extractionPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: url}},
			},
		}},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("vision: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("vision: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("vision: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("vision: decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("vision: empty response")
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("vision: parse extraction: %w", err)
	}

	artworks := make([]ScannedArtwork, 0, len(result.Artworks))
	for _, a := range result.Artworks {
		if strings.TrimSpace(a.WACCode) == "" {
			continue
		}
		artworks = append(artworks, ScannedArtwork{
			WACCode:    a.WACCode,
			Artist:     deref(a.Artist),
			Title:      deref(a.Title),
			Dimensions: deref(a.Dimensions),
		})
	}
	return artworks, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
