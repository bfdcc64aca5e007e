package check

import (
	"sync"
	"testing"
	"time"
)

func TestMux_SendNeverBlocksWithoutConsumer(t *testing.T) {
	m := NewMux()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			m.Send(Update{ID: 0, Status: StatusRunning})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Send blocked with no consumer")
	}

	m.Close()
	n := 0
	for range m.Updates() {
		n++
	}
	if n != 10000 {
		t.Fatalf("want 10000 updates delivered, got %d", n)
	}
}

func TestMux_PerProducerOrder(t *testing.T) {
	m := NewMux()

	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for seq := 0; seq < perProducer; seq++ {
				m.Send(Update{ID: id, Status: StatusRunning, Wait: time.Duration(seq)})
			}
		}(p)
	}

	go func() {
		wg.Wait()
		m.Close()
	}()

	// Wait carries each producer's sequence number here; within one
	// producer it must arrive strictly in order.
	next := make([]time.Duration, producers)
	total := 0
	for u := range m.Updates() {
		if u.Wait != next[u.ID] {
			t.Fatalf("producer %d: got seq %d, want %d", u.ID, u.Wait, next[u.ID])
		}
		next[u.ID]++
		total++
	}
	if total != producers*perProducer {
		t.Fatalf("want %d updates, got %d", producers*perProducer, total)
	}
}

func TestMux_ClosedChannelDrains(t *testing.T) {
	m := NewMux()
	m.Send(Update{ID: 1, Status: StatusSucceeded})
	m.Close()

	var got []Update
	for u := range m.Updates() {
		got = append(got, u)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected drain result: %+v", got)
	}

	// Send after close is a silent no-op.
	m.Send(Update{ID: 2})
}
