package ristretto

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c, err := New[string]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !c.Set("k", "v", 1) {
		t.Fatal("Set rejected the entry")
	}
	// ristretto applies writes asynchronously
	time.Sleep(10 * time.Millisecond)

	got, found := c.Get("k")
	if !found || got != "v" {
		t.Errorf("Get = (%q, %v), want (v, true)", got, found)
	}
}

func TestTTLExpiry(t *testing.T) {
	c, err := New[string]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !c.SetWithTTL("k", "v", 1, 20*time.Millisecond) {
		t.Fatal("SetWithTTL rejected the entry")
	}
	time.Sleep(10 * time.Millisecond)

	if _, found := c.Get("k"); !found {
		t.Fatal("expected entry before TTL expiry")
	}

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire")
	}
}

func TestGetMissing(t *testing.T) {
	c, err := New[int]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, found := c.Get("missing")
	if found || got != 0 {
		t.Errorf("Get = (%d, %v), want zero value and false", got, found)
	}
}
