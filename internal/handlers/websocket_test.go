package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nephra/internal/common"
	"github.com/ternarybob/nephra/internal/interfaces"
	"github.com/ternarybob/nephra/internal/models"
	"github.com/ternarybob/nephra/internal/services/events"
)

// Test helper - starts a websocket server and dials one client connection
func dialTestClient(t *testing.T, handler *WebSocketHandler) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(handler.HandleWebSocket))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect websocket client: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// Test helper - reads messages until one of the given type arrives
func readMessageOfType(t *testing.T, conn *websocket.Conn, msgType string) WSMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Failed reading for %q message: %v", msgType, err)
		}
		if msg.Type == msgType {
			return msg
		}
	}
}

func TestHandleWebSocket_SendsInitialStatus(t *testing.T) {
	handler := NewWebSocketHandler(nil, arbor.NewLogger(), &common.WebSocketConfig{})
	conn := dialTestClient(t, handler)

	msg := readMessageOfType(t, conn, "status")

	payload, ok := msg.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map payload, got %T", msg.Payload)
	}
	if payload["service"] != "nephra" {
		t.Errorf("Expected service 'nephra', got %v", payload["service"])
	}
	if payload["serverInstanceId"] == "" {
		t.Error("Expected serverInstanceId to be set")
	}

	if handler.ClientCount() != 1 {
		t.Errorf("Expected 1 connected client, got %d", handler.ClientCount())
	}
}

func TestHandleWebSocket_CleansUpOnDisconnect(t *testing.T) {
	handler := NewWebSocketHandler(nil, arbor.NewLogger(), &common.WebSocketConfig{})
	conn := dialTestClient(t, handler)

	readMessageOfType(t, conn, "status")
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for handler.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected 0 clients after disconnect, got %d", handler.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}

	handler.mu.RLock()
	remainingMutexes := len(handler.clientMutex)
	handler.mu.RUnlock()
	if remainingMutexes != 0 {
		t.Errorf("Handler still has %d client mutexes after cleanup", remainingMutexes)
	}
}

func TestBroadcastEvent_FansOutToAllClients(t *testing.T) {
	handler := NewWebSocketHandler(nil, arbor.NewLogger(), &common.WebSocketConfig{})

	server := httptest.NewServer(http.HandlerFunc(handler.HandleWebSocket))
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	numSubscribers := 3
	received := make([]WSMessage, numSubscribers)
	var wg sync.WaitGroup
	wg.Add(numSubscribers)

	for i := 0; i < numSubscribers; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("Failed to connect subscriber %d: %v", i, err)
		}
		defer conn.Close()

		idx := i
		go func() {
			defer wg.Done()
			conn.SetReadDeadline(time.Now().Add(3 * time.Second))
			for {
				var msg WSMessage
				if err := conn.ReadJSON(&msg); err != nil {
					return
				}
				if msg.Type == "score_recorded" {
					received[idx] = msg
					return
				}
			}
		}()
	}

	// Wait for all subscribers to register before broadcasting
	deadline := time.Now().Add(2 * time.Second)
	for handler.ClientCount() != numSubscribers {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", numSubscribers, handler.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}

	handler.BroadcastEvent("score_recorded", map[string]interface{}{"id": "score-1", "ksls": 42})
	wg.Wait()

	for i, msg := range received {
		if msg.Type != "score_recorded" {
			t.Fatalf("Subscriber %d did not receive the event", i)
		}
		payload, _ := msg.Payload.(map[string]interface{})
		if payload["id"] != "score-1" {
			t.Errorf("Subscriber %d got payload %v", i, msg.Payload)
		}
	}
}

func TestBroadcastEvent_RespectsWhitelist(t *testing.T) {
	handler := NewWebSocketHandler(nil, arbor.NewLogger(), &common.WebSocketConfig{
		AllowedEvents: []string{"score_recorded"},
	})
	conn := dialTestClient(t, handler)
	readMessageOfType(t, conn, "status")

	handler.BroadcastEvent("gfr_recorded", map[string]interface{}{"id": "gfr-1"})
	handler.BroadcastEvent("score_recorded", map[string]interface{}{"id": "score-1"})

	// The whitelisted event must arrive without the filtered one before it
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}
	if msg.Type != "score_recorded" {
		t.Errorf("Expected score_recorded as first broadcast, got %s", msg.Type)
	}
}

func TestBroadcastLog_ThrottlesHighFrequencyEntries(t *testing.T) {
	handler := NewWebSocketHandler(nil, arbor.NewLogger(), &common.WebSocketConfig{
		ThrottleIntervals: map[string]string{"log": "1s"},
	})
	conn := dialTestClient(t, handler)
	readMessageOfType(t, conn, "status")

	for i := 0; i < 5; i++ {
		handler.BroadcastLog(models.LogEntry{
			Timestamp: "10:00:00",
			Level:     "INF",
			Message:   "burst line",
		})
	}

	// Only the first entry passes the limiter; the rest are dropped
	msg := readMessageOfType(t, conn, "log")
	logData, _ := json.Marshal(msg.Payload)
	var entry models.LogEntry
	if err := json.Unmarshal(logData, &entry); err != nil {
		t.Fatalf("Failed to parse log payload: %v", err)
	}
	if entry.Message != "burst line" {
		t.Errorf("Expected 'burst line', got %q", entry.Message)
	}

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var extra WSMessage
	for {
		if err := conn.ReadJSON(&extra); err != nil {
			break
		}
		if extra.Type == "log" {
			t.Fatal("Expected throttler to drop the remaining log entries")
		}
	}
}

func TestSubscribeToEvents_BridgesEventBus(t *testing.T) {
	logger := arbor.NewLogger()
	eventService := events.NewService(logger)
	defer eventService.Close()

	handler := NewWebSocketHandler(eventService, logger, &common.WebSocketConfig{})
	conn := dialTestClient(t, handler)
	readMessageOfType(t, conn, "status")

	err := eventService.Publish(context.Background(), interfaces.Event{
		Type:    interfaces.EventSummaryUpdated,
		Payload: map[string]interface{}{"id": "sum-1"},
	})
	if err != nil {
		t.Fatalf("Failed to publish event: %v", err)
	}

	msg := readMessageOfType(t, conn, "summary_updated")
	payload, _ := msg.Payload.(map[string]interface{})
	if payload["id"] != "sum-1" {
		t.Errorf("Expected summary payload, got %v", msg.Payload)
	}

	// Log events ride the same bridge in compact form
	err = eventService.Publish(context.Background(), interfaces.Event{
		Type:    interfaces.EventLogMessage,
		Payload: models.LogEntry{Timestamp: "10:00:01", Level: "WRN", Message: "spike in readings"},
	})
	if err != nil {
		t.Fatalf("Failed to publish log event: %v", err)
	}

	logMsg := readMessageOfType(t, conn, "log")
	logData, _ := json.Marshal(logMsg.Payload)
	var entry models.LogEntry
	if err := json.Unmarshal(logData, &entry); err != nil {
		t.Fatalf("Failed to parse log payload: %v", err)
	}
	if entry.Level != "WRN" || entry.Message != "spike in readings" {
		t.Errorf("Unexpected log entry: %+v", entry)
	}
}
