package socket

import (
	"log"
	"sync"
)

// Conn is the push capability this subsystem needs from a realtime
// connection. The transport layer owns the actual websocket and registers
// connections here as part of its own lifecycle.
type Conn interface {
	WriteJSON(v interface{}) error
}

var (
	mu      sync.RWMutex
	clients = make(map[uint]Conn)
)

// Register attaches a user's live connection. Called by the transport layer
// on connect; replaces any previous connection for the same user.
func Register(userID uint, conn Conn) {
	mu.Lock()
	defer mu.Unlock()
	clients[userID] = conn
}

// Unregister removes a user's connection. Called by the transport layer on
// disconnect.
func Unregister(userID uint) {
	mu.Lock()
	defer mu.Unlock()
	delete(clients, userID)
}

// PushIfConnected sends an event to the user's connection if one is
// registered. Best effort, at most once: a missing entry or a write failure
// is not an error for the caller.
func PushIfConnected(userID uint, event interface{}) bool {
	mu.RLock()
	conn, ok := clients[userID]
	mu.RUnlock()

	if !ok {
		return false
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Printf("[SOCKET] Push to user %d failed: %v", userID, err)
		return false
	}
	return true
}
