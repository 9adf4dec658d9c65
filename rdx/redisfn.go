package rdx

import (
	"time"

	"mentorhub/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init dials Redis. Callers treat a nil/unreachable connection as a soft
// failure: every helper below degrades instead of panicking, since Redis
// only backs caches and short-lived OAuth state here.
func Init(addr string) error {
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
	return Conn.Ping(globals.Ctx).Err()
}

func Close() error {
	if Conn == nil {
		return nil
	}
	return Conn.Close()
}

func RdxHset(hash, key, value string) error {
	return Conn.HSet(globals.Ctx, hash, key, value).Err()
}

func RdxHdel(hash, key string) error {
	return Conn.HDel(globals.Ctx, hash, key).Err()
}

// SetWithTTL stores a value that expires on its own, e.g. an OAuth state
// nonce that is only valid for the duration of the consent round-trip.
func SetWithTTL(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

// GetDel fetches a key and removes it in one step, so a state nonce can be
// redeemed at most once.
func GetDel(key string) (string, error) {
	return Conn.GetDel(globals.Ctx, key).Result()
}
