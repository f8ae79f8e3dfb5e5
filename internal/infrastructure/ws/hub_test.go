package ws

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drowwn/weNote/internal/collab"
)

func TestHub_SendEncodesAndQueues(t *testing.T) {
	h := NewHub(2, zerolog.Nop())
	cl := h.register("c1", nil)

	ok := h.Send("c1", collab.PresenceUpdate{Type: collab.TypePresenceUpdate, NoteID: "N1", Usernames: []string{}})
	require.True(t, ok)

	assert.JSONEq(t, `{"type":"presenceUpdate","noteId":"N1","usernames":[]}`, string(<-cl.send))
}

func TestHub_SendNeverBlocks(t *testing.T) {
	h := NewHub(1, zerolog.Nop())
	h.register("c1", nil)
	msg := collab.ContentChange{Type: collab.TypeContentChange, Note: collab.NoteSnapshot{ID: "N1"}}

	assert.True(t, h.Send("c1", msg))
	assert.False(t, h.Send("c1", msg), "full buffer must drop")
	assert.False(t, h.Send("ghost", msg), "unknown connection must drop")
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub(1, zerolog.Nop())
	cl := h.register("c1", nil)

	h.unregister("c1")
	h.unregister("c1")

	_, open := <-cl.send
	assert.False(t, open)
	assert.Zero(t, h.Len())
	assert.False(t, h.Send("c1", collab.PresenceUpdate{}))
}

func TestHub_ConcurrentSendAndUnregister(t *testing.T) {
	h := NewHub(8, zerolog.Nop())
	h.register("c1", nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			h.Send("c1", collab.PresenceUpdate{Type: collab.TypePresenceUpdate})
		}
	}()
	go func() {
		defer wg.Done()
		h.unregister("c1")
	}()
	wg.Wait()
}

func TestHub_CloseAllSkipsDetachedClients(t *testing.T) {
	h := NewHub(1, zerolog.Nop())
	h.register("c1", nil)

	assert.NotPanics(t, h.CloseAll)
	assert.True(t, h.Send("c1", collab.PresenceUpdate{Type: collab.TypePresenceUpdate}), "lock released after CloseAll")
}
