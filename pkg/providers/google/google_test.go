package google

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulocilasjr/translate-file-docx/pkg/providers"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, defaultEndpoint, config.APIEndpoint)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, time.Second, config.RetryDelay)
}

func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Hello, world!", r.PostForm.Get("q"))
		assert.Equal(t, "es", r.PostForm.Get("target"))
		assert.Equal(t, "text", r.PostForm.Get("format"))
		assert.Equal(t, "test-api-key", r.PostForm.Get("key"))
		// "auto" must be translated into an absent source parameter.
		assert.False(t, r.PostForm.Has("source"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"translations":[{"translatedText":"¡Hola, mundo!","detectedSourceLanguage":"en"}]}}`)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.APIKey = "test-api-key"
	config.APIEndpoint = server.URL
	provider := New(config)

	resp, err := provider.Translate(context.Background(), &providers.Request{
		Text:   "Hello, world!",
		Source: "auto",
		Target: "es",
	})
	require.NoError(t, err)

	assert.Equal(t, "¡Hola, mundo!", resp.Text)
	assert.Equal(t, "en", resp.DetectedSource)
}

func TestTranslateExplicitSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "de", r.PostForm.Get("source"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"translations":[{"translatedText":"hello"}]}}`)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.APIEndpoint = server.URL
	provider := New(config)

	resp, err := provider.Translate(context.Background(), &providers.Request{
		Text:   "hallo",
		Source: "de",
		Target: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Text)
	assert.Empty(t, resp.DetectedSource)
}

func TestTranslateRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"translations":[{"translatedText":"bonjour"}]}}`)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.APIEndpoint = server.URL
	config.RetryDelay = time.Millisecond
	provider := New(config)

	resp, err := provider.Translate(context.Background(), &providers.Request{Text: "hello", Target: "fr"})
	require.NoError(t, err)

	assert.Equal(t, "bonjour", resp.Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTranslateNoRetryOnBadRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"API key not valid"}}`)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.APIEndpoint = server.URL
	config.RetryDelay = time.Millisecond
	provider := New(config)

	_, err := provider.Translate(context.Background(), &providers.Request{Text: "hello", Target: "fr"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "API key not valid")
	assert.Equal(t, int32(1), calls.Load())
}

func TestTranslateServerErrorExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.APIEndpoint = server.URL
	config.MaxRetries = 1
	config.RetryDelay = time.Millisecond
	provider := New(config)

	_, err := provider.Translate(context.Background(), &providers.Request{Text: "hello", Target: "fr"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "api error")
	assert.Equal(t, int32(2), calls.Load())
}

func TestTranslateEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"translations":[]}}`)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.APIEndpoint = server.URL
	provider := New(config)

	_, err := provider.Translate(context.Background(), &providers.Request{Text: "hello", Target: "fr"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no translation returned")
}

func TestName(t *testing.T) {
	assert.Equal(t, "google", New(DefaultConfig()).Name())
}
