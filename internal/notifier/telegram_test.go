package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestTelegramNotifier_SendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	n.Backoff = func(int) time.Duration { return time.Millisecond }

	require.NoError(t, n.SendWithRetry(context.Background(), "hi", 3))
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(-10)
	err := n.SendWithRetry(context.Background(), "hi", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts exhausted")
}

func TestNoopSender(t *testing.T) {
	var s Sender = Noop{}
	assert.NoError(t, s.Send(context.Background(), "x"))
	assert.NoError(t, s.SendWithRetry(context.Background(), "x", 3))
}
