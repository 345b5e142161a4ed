package bot

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

// Model is an external model handle reachable through the Poe API.
type Model string

const (
	ModelGPT4   Model = "GPT-4"
	ModelClaude Model = "Claude-3-Opus"
)

const (
	poeEndpoint      = "https://poe.com/api/gql_POST"
	defaultWordDelay = 50 * time.Millisecond
)

// Enterprise proxies requests to high-end models through the Poe API and
// streams the reply back word by word. Every failure — missing tokens,
// transport errors, unexpected response shapes — is degraded into a
// textual reply; this bot never fails its stream.
type Enterprise struct {
	tokenB       string
	tokenLat     string
	endpoint     string
	client       *http.Client
	defaultModel Model
	wordDelay    time.Duration
}

func NewEnterprise(tokenB, tokenLat string) *Enterprise {
	return &Enterprise{
		tokenB:       tokenB,
		tokenLat:     tokenLat,
		endpoint:     poeEndpoint,
		client:       &http.Client{Timeout: 60 * time.Second},
		defaultModel: ModelGPT4,
		wordDelay:    defaultWordDelay,
	}
}

func (b *Enterprise) Respond(ctx context.Context, conv Conversation) *Stream {
	return Generate(func(emit func(string)) error {
		last := conv.LastMessage().Content
		model := b.parseSettings(last)
		history := formatHistory(conv)

		text := b.callAPI(ctx, history, model)

		// Split into words for a streaming effect.
		for _, word := range strings.Fields(text) {
			emit(word + " ")
			time.Sleep(b.wordDelay)
		}
		return nil
	})
}

func (b *Enterprise) Settings() map[string]any {
	return map[string]any{
		"models":        []string{string(ModelGPT4), string(ModelClaude)},
		"default_model": string(b.defaultModel),
	}
}

// parseSettings extracts an inline JSON settings prefix from the message,
// e.g. `{"model": "Claude-3-Opus"} summarize this`. Malformed prefixes
// and unknown models are ignored and the default model is used.
func (b *Enterprise) parseSettings(message string) Model {
	if !strings.HasPrefix(message, "{") || !strings.Contains(message, "}") {
		return b.defaultModel
	}

	raw := message[:strings.Index(message, "}")+1]
	var settings struct {
		Model string `json:"model"`
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return b.defaultModel
	}

	switch Model(settings.Model) {
	case ModelGPT4, ModelClaude:
		return Model(settings.Model)
	}
	return b.defaultModel
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// formatHistory maps conversation roles to the provider's labels.
func formatHistory(conv Conversation) []apiMessage {
	formatted := make([]apiMessage, 0, len(conv.Query))
	for _, msg := range conv.Query {
		role := "user"
		if msg.Role == RoleBot {
			role = "assistant"
		}
		formatted = append(formatted, apiMessage{Role: role, Content: msg.Content})
	}
	return formatted
}

// callAPI sends one message to the Poe GraphQL endpoint and returns the
// reply text. Errors come back as readable text, never as an error value.
func (b *Enterprise) callAPI(ctx context.Context, history []apiMessage, model Model) string {
	if b.tokenB == "" || b.tokenLat == "" {
		return "Poe tokens not configured. Please set POE_TOKEN_B and POE_TOKEN_LAT environment variables."
	}

	// The mutation carries a single message, so only the latest turn goes
	// upstream.
	var message string
	if len(history) > 0 {
		message = history[len(history)-1].Content
	}

	payload := map[string]any{
		"queryName": "ChatHelpers_sendMessageMutation_Mutation",
		"variables": map[string]any{
			"bot":            string(model),
			"message":        message,
			"conversationId": nil,
			"source":         nil,
			"withChatBreak":  false,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "Error calling Poe API: " + err.Error()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return "Error calling Poe API: " + err.Error()
	}
	req.Header.Set("Cookie", fmt.Sprintf("p-b=%s; p-lat=%s", b.tokenB, b.tokenLat))
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		slog.Error("poe api call failed", "err", err)
		return "Error calling Poe API: " + err.Error()
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "Error calling Poe API: " + err.Error()
	}
	if resp.StatusCode != http.StatusOK {
		return "Error from Poe API: " + string(respBody)
	}

	var parsed struct {
		Data struct {
			MessageResponse struct {
				Text string `json:"text"`
			} `json:"messageResponse"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil || parsed.Data.MessageResponse.Text == "" {
		return "Could not parse response from Poe API"
	}
	return parsed.Data.MessageResponse.Text
}
