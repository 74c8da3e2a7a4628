// Package ai calls the upstream text-generation API behind the endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const promptMarker = "Your response:"

type generationParams struct {
	MaxLength   int     `json:"max_length"`
	DoSample    bool    `json:"do_sample"`
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"top_k"`
	TopP        float64 `json:"top_p"`
}

type inferenceRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters generationParams `json:"parameters"`
}

type inferenceResult struct {
	GeneratedText string `json:"generated_text"`
}

// InferenceClient posts a wrapped prompt to a text-generation endpoint
// and extracts the generated reply.
type InferenceClient struct {
	url    string
	token  string
	client *http.Client
	log    *slog.Logger
}

func NewInferenceClient(url, token string, timeout time.Duration, log *slog.Logger) *InferenceClient {
	return &InferenceClient{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Generate resolves one reply for the user message. Failures are returned
// to the handler, which owns the degraded response shape.
func (c *InferenceClient) Generate(ctx context.Context, userMessage string) (string, error) {
	reqBody := inferenceRequest{
		Inputs: systemPrompt(userMessage),
		Parameters: generationParams{
			MaxLength:   250,
			DoSample:    true,
			Temperature: 0.7,
			TopK:        50,
			TopP:        0.95,
		},
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call inference api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("inference api returned non-200 status: %s, body: %s",
			resp.Status, string(body))
	}

	var results []inferenceResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to parse inference response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("inference api returned an empty result set")
	}

	return stripPromptEcho(results[0].GeneratedText), nil
}

// stripPromptEcho removes the prompt the model sometimes returns verbatim.
func stripPromptEcho(generated string) string {
	if i := strings.Index(generated, promptMarker); i != -1 {
		return strings.TrimSpace(generated[i+len(promptMarker):])
	}
	return strings.TrimSpace(generated)
}

func systemPrompt(userMessage string) string {
	return fmt.Sprintf(`You are Serenity, an AI mental wellness companion designed to provide supportive, empathetic responses to users. Your goal is to offer helpful guidance and emotional support, but you are not a replacement for professional mental health services.

Current user message: %q

Important guidelines to follow:
1. Respond with empathy and understanding
2. Validate the user's feelings
3. Provide constructive suggestions when appropriate
4. Never give medical advice or make diagnoses
5. Always maintain a supportive and non-judgmental tone
6. Keep responses focused on mental wellbeing
7. If the user mentions self-harm or harm to others, gently recommend seeking professional help

Your response:`, userMessage)
}
