package ratelimiter

import (
	"testing"
	"time"
)

func TestTokenBucketBurst(t *testing.T) {
	tb := NewTokenBucket(1, 3)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("request %d within burst capacity was denied", i)
		}
	}
	if tb.Allow() {
		t.Fatal("request beyond burst capacity was allowed")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(100, 1)

	if !tb.Allow() {
		t.Fatal("first request was denied")
	}
	if tb.Allow() {
		t.Fatal("empty bucket allowed a request")
	}

	time.Sleep(20 * time.Millisecond)

	if !tb.Allow() {
		t.Fatal("bucket did not refill")
	}
}
