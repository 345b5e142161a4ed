package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnterprise(endpoint string) *Enterprise {
	e := NewEnterprise("token-b", "token-lat")
	e.endpoint = endpoint
	e.wordDelay = 0
	return e
}

func TestParseSettings(t *testing.T) {
	e := NewEnterprise("b", "lat")

	tests := []struct {
		message string
		want    Model
	}{
		{`{"model": "Claude-3-Opus"} summarize this`, ModelClaude},
		{`{"model": "GPT-4"} hello`, ModelGPT4},
		{`{not json} rest`, ModelGPT4},
		{`{"model": "made-up-model"} hello`, ModelGPT4},
		{`plain message`, ModelGPT4},
		{`{`, ModelGPT4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, e.parseSettings(tt.message), "message: %q", tt.message)
	}
}

func TestFormatHistory(t *testing.T) {
	conv := Conversation{Query: []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleBot, Content: "hello"},
		{Role: RoleUser, Content: "bye"},
	}}

	got := formatHistory(conv)
	require.Equal(t, []apiMessage{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: "bye"},
	}, got)
}

func TestEnterpriseProxiesReply(t *testing.T) {
	var gotBot, gotMessage string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			QueryName string `json:"queryName"`
			Variables struct {
				Bot     string `json:"bot"`
				Message string `json:"message"`
			} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ChatHelpers_sendMessageMutation_Mutation", body.QueryName)
		gotBot = body.Variables.Bot
		gotMessage = body.Variables.Message

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"messageResponse": map[string]any{"text": "hello from the model"},
			},
		})
	}))
	defer ts.Close()

	frags, err := testEnterprise(ts.URL).Respond(context.Background(), oneMessage("hi there")).Collect()
	require.NoError(t, err)

	assert.Equal(t, "GPT-4", gotBot)
	assert.Equal(t, "hi there", gotMessage)

	var reply strings.Builder
	for _, f := range frags {
		reply.WriteString(f.Text)
	}
	assert.Equal(t, "hello from the model ", reply.String())
}

func TestEnterpriseModelSelection(t *testing.T) {
	var gotBot string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Variables struct {
				Bot string `json:"bot"`
			} `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotBot = body.Variables.Bot

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"messageResponse": map[string]any{"text": "ok"},
			},
		})
	}))
	defer ts.Close()

	_, err := testEnterprise(ts.URL).Respond(context.Background(), oneMessage(`{"model": "Claude-3-Opus"} hi`)).Collect()
	require.NoError(t, err)
	assert.Equal(t, "Claude-3-Opus", gotBot)
}

func TestEnterpriseMalformedSettingsStillReplies(t *testing.T) {
	var gotBot string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Variables struct {
				Bot string `json:"bot"`
			} `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotBot = body.Variables.Bot

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"messageResponse": map[string]any{"text": "still here"},
			},
		})
	}))
	defer ts.Close()

	frags, err := testEnterprise(ts.URL).Respond(context.Background(), oneMessage(`{not json} rest`)).Collect()
	require.NoError(t, err)
	require.NotEmpty(t, frags)
	assert.Equal(t, "GPT-4", gotBot)
}

func TestEnterpriseAPIErrorBecomesReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer ts.Close()

	frags, err := testEnterprise(ts.URL).Respond(context.Background(), oneMessage("hi")).Collect()
	require.NoError(t, err, "upstream failures degrade into text, not errors")
	require.NotEmpty(t, frags)

	var reply strings.Builder
	for _, f := range frags {
		reply.WriteString(f.Text)
	}
	assert.Contains(t, reply.String(), "Error from Poe API:")
}

func TestEnterpriseMissingTokens(t *testing.T) {
	e := NewEnterprise("", "")
	e.wordDelay = 0

	frags, err := e.Respond(context.Background(), oneMessage("hi")).Collect()
	require.NoError(t, err)
	require.NotEmpty(t, frags)

	var reply strings.Builder
	for _, f := range frags {
		reply.WriteString(f.Text)
	}
	assert.Contains(t, reply.String(), "POE_TOKEN_B")
}

func TestEnterpriseUnparseableResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer ts.Close()

	frags, err := testEnterprise(ts.URL).Respond(context.Background(), oneMessage("hi")).Collect()
	require.NoError(t, err)

	var reply strings.Builder
	for _, f := range frags {
		reply.WriteString(f.Text)
	}
	assert.Contains(t, reply.String(), "Could not parse response")
}

func TestEnterpriseSettings(t *testing.T) {
	settings := NewEnterprise("b", "lat").Settings()
	assert.Equal(t, "GPT-4", settings["default_model"])
	assert.Equal(t, []string{"GPT-4", "Claude-3-Opus"}, settings["models"])
}
