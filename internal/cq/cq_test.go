package cq

import (
	"errors"
	"testing"
)

func TestQueueBatches(t *testing.T) {
	q := New[int]()
	defer q.Stop()

	for i := 0; i < 3; i++ {
		if !q.Push(i) {
			t.Fatalf("Push(%v) = false", i)
		}
	}

	var got []int
	for len(got) < 3 {
		got = append(got, <-q.Get()...)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("batch = %v, want [0 1 2]", got)
		}
	}
}

func TestQueuePushAfterStop(t *testing.T) {
	q := New[int]()
	q.Stop()
	if q.Push(1) {
		t.Fatal("Push() after Stop() = true")
	}
}

func TestFlush(t *testing.T) {
	var calls int
	boom := errors.New("boom")
	errs := Flush([]func() error{
		func() error { calls++; return nil },
		func() error { calls++; return boom },
		func() error { calls++; return nil },
	})
	if calls != 3 {
		t.Fatalf("calls = %v, want 3", calls)
	}
	if len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Fatalf("errs = %v, want [boom]", errs)
	}
}
