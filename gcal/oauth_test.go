package gcal

import (
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestNonceMatches(t *testing.T) {
	netErr := errors.New("dial tcp: connection refused")

	tests := []struct {
		name   string
		parked string
		err    error
		nonce  string
		want   bool
	}{
		{"matching nonce", "abc123", nil, "abc123", true},
		{"mismatched nonce", "abc123", nil, "zzz999", false},
		// A state that was never parked (never issued, expired, or
		// already redeemed) must be refused, not waved through.
		{"no parked nonce", "", redis.Nil, "attacker-chosen", false},
		// Only a transport failure degrades to correlation-only.
		{"redis unreachable", "", netErr, "abc123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nonceMatches(tt.parked, tt.err, tt.nonce, "m1"); got != tt.want {
				t.Fatalf("nonceMatches(%q, %v, %q) = %v, want %v", tt.parked, tt.err, tt.nonce, got, tt.want)
			}
		})
	}
}
