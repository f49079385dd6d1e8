package mqtt

import "testing"

func pushN(rb *ringBuffer, from, to int) {
	for i := from; i < to; i++ {
		rb.push(bufferedMsg{topic: Topic, payload: []byte{byte(i)}})
	}
}

func payloadBytes(msgs []bufferedMsg) []byte {
	out := make([]byte, len(msgs))
	for i, m := range msgs {
		out[i] = m.payload[0]
	}
	return out
}

func TestRingBufferEmpty(t *testing.T) {
	rb := newRingBuffer(4)
	if rb.len() != 0 {
		t.Errorf("len: got %d, want 0", rb.len())
	}
	if got := rb.drainAll(); got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestRingBufferKeepsOrder(t *testing.T) {
	rb := newRingBuffer(8)
	pushN(rb, 0, 5)
	if rb.len() != 5 {
		t.Fatalf("len: got %d, want 5", rb.len())
	}

	if got := payloadBytes(rb.drainAll()); string(got) != string([]byte{0, 1, 2, 3, 4}) {
		t.Errorf("unexpected order: %v", got)
	}
	if rb.len() != 0 || rb.drainAll() != nil {
		t.Error("buffer should be empty after drain")
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	rb := newRingBuffer(3)
	pushN(rb, 0, 7)

	if rb.len() != 3 {
		t.Fatalf("len: got %d, want 3", rb.len())
	}
	if rb.dropped != 4 {
		t.Errorf("dropped: got %d, want 4", rb.dropped)
	}
	if got := payloadBytes(rb.drainAll()); string(got) != string([]byte{4, 5, 6}) {
		t.Errorf("expected newest three, got %v", got)
	}
	if rb.dropped != 0 {
		t.Error("drain should clear the dropped count")
	}
}

func TestRingBufferReuseAfterWrap(t *testing.T) {
	rb := newRingBuffer(3)
	pushN(rb, 0, 5)
	rb.drainAll()

	pushN(rb, 10, 12)
	if got := payloadBytes(rb.drainAll()); string(got) != string([]byte{10, 11}) {
		t.Errorf("unexpected contents after reuse: %v", got)
	}
}
