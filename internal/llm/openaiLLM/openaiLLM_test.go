package openaiLLM

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/llm"
	"github.com/openai/openai-go/option"
)

type request struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens int64 `json:"max_tokens"`
}

func fakeOpenAI(t *testing.T, status int, reply string, got *request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(got)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"unavailable","type":"server_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   got.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(config.LLMSettings{OpenAIAPIKey: "sk-test"},
		option.WithBaseURL(srv.URL+"/v1/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestAnswer(t *testing.T) {
	var got request
	c := testClient(t, fakeOpenAI(t, http.StatusOK, "Landlord: Acme Estates [Page 1]", &got))

	answer, err := c.Answer(context.Background(), "Landlord: Acme Estates", "Who is the landlord?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "Landlord: Acme Estates [Page 1]" {
		t.Errorf("got %q", answer)
	}
	if got.Model != config.OpenAIModelName || got.MaxTokens != config.AnswerMaxTokens {
		t.Errorf("request model=%q max=%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || !strings.Contains(got.Messages[1].Content, "Who is the landlord?") {
		t.Errorf("messages %+v", got.Messages)
	}
}

func TestSummarize_EmptyReply(t *testing.T) {
	var got request
	c := testClient(t, fakeOpenAI(t, http.StatusOK, "", &got))

	if _, err := c.Summarize(context.Background(), "text"); !errors.Is(err, llm.ErrEmptyReply) {
		t.Errorf("expected ErrEmptyReply, got %v", err)
	}
	if got.MaxTokens != config.SummaryMaxTokens {
		t.Errorf("summary max tokens %d", got.MaxTokens)
	}
}

func TestServerErrorIsUnavailable(t *testing.T) {
	var got request
	c := testClient(t, fakeOpenAI(t, http.StatusServiceUnavailable, "", &got))

	if _, err := c.Answer(context.Background(), "text", "q"); !errors.Is(err, extraction.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}
