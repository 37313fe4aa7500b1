package socket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingConn struct {
	events []interface{}
	err    error
}

func (r *recordingConn) WriteJSON(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, v)
	return nil
}

func TestPushIfConnected(t *testing.T) {
	conn := &recordingConn{}
	Register(7, conn)
	defer Unregister(7)

	event := map[string]string{"type": "trainer_assigned"}
	assert.True(t, PushIfConnected(7, event))
	assert.Len(t, conn.events, 1)
	assert.Equal(t, event, conn.events[0])
}

func TestPushToAbsentUser(t *testing.T) {
	assert.False(t, PushIfConnected(999, map[string]string{"type": "noop"}))
}

func TestPushAfterUnregister(t *testing.T) {
	conn := &recordingConn{}
	Register(8, conn)
	Unregister(8)

	assert.False(t, PushIfConnected(8, map[string]string{"type": "noop"}))
	assert.Empty(t, conn.events)
}

func TestPushSwallowsWriteFailure(t *testing.T) {
	conn := &recordingConn{err: errors.New("connection reset")}
	Register(9, conn)
	defer Unregister(9)

	assert.False(t, PushIfConnected(9, map[string]string{"type": "noop"}))
}

func TestRegisterReplacesConnection(t *testing.T) {
	stale := &recordingConn{}
	fresh := &recordingConn{}
	Register(10, stale)
	Register(10, fresh)
	defer Unregister(10)

	assert.True(t, PushIfConnected(10, "ping"))
	assert.Empty(t, stale.events)
	assert.Len(t, fresh.events, 1)
}
