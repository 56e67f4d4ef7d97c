package gemini

import (
	"context"
	"fmt"
	"time"

	"lently/domain/repository"
	"lently/infrastructure/logger"

	"github.com/go-resty/resty/v2"
)

// Client calls the Gemini generateContent REST endpoint. It implements
// repository.IGenerativeModel; prompt construction and response parsing stay
// with the callers.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

// NewGeminiClient creates a new Gemini REST client.
func NewGeminiClient(baseURL, apiKey, model string) repository.IGenerativeModel {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(120 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)

	return &Client{
		http:   http,
		apiKey: apiKey,
		model:  model,
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one prompt and returns the model's raw text.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	var parsed generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(&parsed).
		SetError(&parsed).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("gemini returned error: %s", msg)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	if reason := parsed.Candidates[0].FinishReason; reason != "" && reason != "STOP" {
		logger.GetLogger().WithField("finishReason", reason).Warn("Gemini response may be truncated")
	}

	text := ""
	for _, p := range parsed.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text, nil
}
