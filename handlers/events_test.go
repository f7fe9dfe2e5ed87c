package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdesk/backend/natsserver"
	"github.com/devdesk/backend/services"
)

func TestEventStream_DeliversPublishedEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ns, err := natsserver.New(natsserver.Config{Port: -1})
	require.NoError(t, err)
	t.Cleanup(ns.Shutdown)

	hub, err := services.NewEventHub(ns.Conn())
	require.NoError(t, err)
	t.Cleanup(hub.Shutdown)
	go hub.Run()

	router := gin.New()
	handler := NewEventHandler(hub)
	router.GET("/ws/events", handler.Stream)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Wait for the hub to pick the client up before publishing
	require.Eventually(t, func() bool {
		return hub.Stats().Clients == 1
	}, 2*time.Second, 10*time.Millisecond)

	payload, err := json.Marshal(services.TicketEvent{Type: "created"})
	require.NoError(t, err)
	require.NoError(t, ns.Conn().Publish(services.EventsSubject, payload))
	require.NoError(t, ns.Conn().Flush())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var event services.TicketEvent
	require.NoError(t, json.Unmarshal(message, &event))
	assert.Equal(t, "created", event.Type)
}

func TestEventStats_NoHub(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewEventHandler(nil)
	router.GET("/api/events/stats", handler.Stats)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/events/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"enabled":false`)
}
