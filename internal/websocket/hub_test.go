package websocket

import (
	"testing"
	"time"

	"staysure-portal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

func (h *Hub) clientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func TestSendDropsSlowClientWithoutPanic(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	userID := uuid.New()
	client := &Client{Hub: h, UserID: userID, Send: make(chan []byte, 1)}
	h.register <- client
	require.Eventually(t, func() bool { return h.clientCount(userID) == 1 },
		time.Second, 5*time.Millisecond)

	// Jam the buffer so the next delivery hits the full-channel path.
	client.Send <- []byte("stuck")

	h.Send(userID, StatusUpdate{ApplicationId: "ST-2026-000001", ToStatus: "reviewing"})

	require.Eventually(t, func() bool { return h.clientCount(userID) == 0 },
		time.Second, 5*time.Millisecond)

	// The Run loop owns the close: the jammed message drains, then the
	// channel reports closed exactly once.
	msg := <-client.Send
	assert.Equal(t, "stuck", string(msg))
	_, open := <-client.Send
	assert.False(t, open)

	// Further sends to the departed user are a no-op, not a panic.
	h.Send(userID, StatusUpdate{ApplicationId: "ST-2026-000001", ToStatus: "submitted"})
}

func TestBroadcastUnregistersEveryJammedClient(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	userA := uuid.New()
	userB := uuid.New()
	clientA := &Client{Hub: h, UserID: userA, Send: make(chan []byte, 1)}
	clientB := &Client{Hub: h, UserID: userB, Send: make(chan []byte, 1)}
	h.register <- clientA
	h.register <- clientB
	require.Eventually(t, func() bool {
		return h.clientCount(userA) == 1 && h.clientCount(userB) == 1
	}, time.Second, 5*time.Millisecond)

	clientA.Send <- []byte("stuck")
	clientB.Send <- []byte("stuck")

	// Two jammed clients in one pass: both must be handed to the Run loop
	// without deadlocking on the registry lock.
	h.Broadcast(StatusUpdate{Message: "maintenance window"})

	require.Eventually(t, func() bool {
		return h.clientCount(userA) == 0 && h.clientCount(userB) == 0
	}, time.Second, 5*time.Millisecond)
}
