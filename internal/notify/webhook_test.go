package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhook_NotifyDeliversEvent(t *testing.T) {
	var (
		mu  sync.Mutex
		got []Event
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e Event
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&e)) {
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	wh.Notify(context.Background(), Event{Type: DealStageChanged, DealID: 7, Stage: "Closed Won", PreviousStage: "Negotiation"})
	wh.Wait()

	require.Len(t, got, 1)
	assert.Equal(t, DealStageChanged, got[0].Type)
	assert.Equal(t, uint(7), got[0].DealID)
	assert.Equal(t, "Negotiation", got[0].PreviousStage)
	assert.False(t, got[0].At.IsZero())
}

func TestWebhook_FailureIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	wh := NewWebhook(srv.URL)
	wh.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	// A cancelled request context must not cancel the delivery.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wh.Notify(ctx, Event{Type: DealCreated, DealID: 3})
	wh.Wait()

	assert.Contains(t, logs.String(), "webhook delivery failed")
	assert.Contains(t, logs.String(), "502")
}

func TestNew_EmptyURLIsNop(t *testing.T) {
	assert.IsType(t, Nop{}, New(""))
	assert.IsType(t, &Webhook{}, New("http://example.test/hook"))
}

type recorder struct{ got []Event }

func (r *recorder) Notify(_ context.Context, e Event) { r.got = append(r.got, e) }

func TestMulti_FansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Multi{a, Nop{}, b}.Notify(context.Background(), Event{Type: DealCreated, DealID: 3})

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.Equal(t, uint(3), b.got[0].DealID)
}
