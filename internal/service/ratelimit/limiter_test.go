package ratelimit

import (
	"testing"
	"time"
)

func TestAllowConsumesCapacity(t *testing.T) {
	l := New(3, 0.001) // refill slow enough to be irrelevant here

	for i := 0; i < 3; i++ {
		if !l.Allow("HDFC Mutual Fund") {
			t.Fatalf("call %d should be allowed", i)
		}
	}
	if l.Allow("HDFC Mutual Fund") {
		t.Fatalf("bucket should be empty after capacity calls")
	}
}

func TestBucketsAreIndependent(t *testing.T) {
	l := New(1, 0.001)

	if !l.Allow("A") {
		t.Fatalf("first call for A should pass")
	}
	if l.Allow("A") {
		t.Fatalf("A should be exhausted")
	}
	if !l.Allow("B") {
		t.Fatalf("B has its own bucket")
	}
}

func TestRefill(t *testing.T) {
	l := New(1, 50) // 50 tokens per second

	if !l.Allow("A") {
		t.Fatalf("first call should pass")
	}
	if l.Allow("A") {
		t.Fatalf("bucket should be empty")
	}

	time.Sleep(40 * time.Millisecond)
	if !l.Allow("A") {
		t.Fatalf("bucket should have refilled")
	}
}

func TestWaitDeadline(t *testing.T) {
	l := New(1, 0.001)
	l.Allow("A")

	start := time.Now()
	if l.Wait("A", time.Now().Add(120*time.Millisecond)) {
		t.Fatalf("wait should give up at the deadline")
	}
	if time.Since(start) < 100*time.Millisecond {
		t.Fatalf("wait returned before the deadline")
	}
}

func TestWaitSucceedsAfterRefill(t *testing.T) {
	l := New(1, 20)
	l.Allow("A")

	if !l.Wait("A", time.Now().Add(time.Second)) {
		t.Fatalf("wait should succeed once a token refills")
	}
}
