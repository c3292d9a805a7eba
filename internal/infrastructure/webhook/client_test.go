package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appnotification "github.com/zenshop/orderd/internal/application/notification"
	"github.com/zenshop/orderd/internal/observability"
)

func samplePayload() appnotification.WebhookPayload {
	return appnotification.WebhookPayload{
		Event:        "order.placed",
		OrderID:      1,
		CustomerName: "Ada Lovelace",
		Item:         "laptop",
		Quantity:     2,
		TotalPrice:   2599.98,
		Status:       "pending",
	}
}

func TestClient_DeliverPostsJSON(t *testing.T) {
	var received appnotification.WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, observability.Nop())
	require.NoError(t, c.Deliver(context.Background(), samplePayload()))

	assert.Equal(t, "order.placed", received.Event)
	assert.Equal(t, int64(1), received.OrderID)
}

func TestClient_DeliverNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, observability.Nop())
	err := c.Deliver(context.Background(), samplePayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_DeliverTimesOut(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(srv.URL, 50*time.Millisecond, observability.Nop())
	err := c.Deliver(context.Background(), samplePayload())
	require.Error(t, err)
}

func TestClient_DeliverUnreachableEndpoint(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, observability.Nop())
	err := c.Deliver(context.Background(), samplePayload())
	require.Error(t, err)
}
