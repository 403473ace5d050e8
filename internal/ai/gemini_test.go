package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/linguist/internal/config"
)

func TestAskReturnsAnswer(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Use "},{"text":"'since' with a point in time.\n"}]}}]}`))
	}))
	defer srv.Close()

	g := New(config.AI{APIKey: "key", Model: "test-model"}, nil).WithBaseURL(srv.URL)
	answer := g.Ask(context.Background(), "since or for?")

	assert.Equal(t, "Use 'since' with a point in time.", answer)
	assert.Equal(t, SystemInstruction, got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "since or for?", got.Contents[0].Parts[0].Text)
}

func TestAskFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid"}}`, FallbackError},
		{"server error", http.StatusInternalServerError, `{}`, FallbackError},
		{"garbage", http.StatusOK, `not json`, FallbackError},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, FallbackEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := New(config.AI{APIKey: "key"}, nil).WithBaseURL(srv.URL)
			assert.Equal(t, tt.want, g.Ask(context.Background(), "hi"))
		})
	}
}

func TestAskWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	g := New(config.AI{}, nil).WithBaseURL(srv.URL)
	assert.Equal(t, FallbackError, g.Ask(context.Background(), "hi"))
	assert.False(t, called)
}

func TestAskUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := New(config.AI{APIKey: "key"}, nil).WithBaseURL(url)
	assert.Equal(t, FallbackError, g.Ask(context.Background(), "hi"))
}

func TestDisabled(t *testing.T) {
	var tutor Tutor = Disabled{}
	assert.Equal(t, FallbackEmpty, tutor.Ask(context.Background(), "anything"))
}
