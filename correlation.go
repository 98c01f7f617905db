package lspclient

import "github.com/sansio/lspclient/internal/rpc"

// correlationTable maps outbound request ids to the reply-kind tag needed
// to decode the eventual response, per spec §4.3. It is not safe for
// concurrent use; the caller serializes access to the whole client.
type correlationTable struct {
	nextID  int64
	pending map[int64]rpc.RequestTag
}

func newCorrelationTable() *correlationTable {
	return &correlationTable{pending: make(map[int64]rpc.RequestTag)}
}

// allocate reserves the next id, records tag against it, and returns the id.
func (t *correlationTable) allocate(tag rpc.RequestTag) int64 {
	id := t.nextID
	t.nextID++
	t.pending[id] = tag
	return id
}

// take removes and returns the tag for id, or reports ok=false if id has
// no pending entry.
func (t *correlationTable) take(id int64) (rpc.RequestTag, bool) {
	tag, ok := t.pending[id]
	if ok {
		delete(t.pending, id)
	}
	return tag, ok
}

// len reports the number of in-flight requests, used to verify the
// pending-table conservation property in tests.
func (t *correlationTable) len() int {
	return len(t.pending)
}
