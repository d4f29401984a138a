package redis

import "strings"

const namespace = "sf"

// Keyspace builds every key the storefront writes, all under "sf:".
type Keyspace struct{}

func (Keyspace) IdempotencyKey(scope, id string) string { return key("idempotency", scope, id) }
func (Keyspace) RateLimitKey(scope string) string       { return key("rate_limit", scope) }
func (Keyspace) CartKey(sessionID string) string        { return key("cart", sessionID) }
func (Keyspace) LockKey(name string) string             { return key("lock", name) }

// AccessSessionKey holds the refresh digest for one access token jti.
func (Keyspace) AccessSessionKey(accessID string) string { return key("session", "access", accessID) }

// key joins non-blank parts after the namespace.
func key(parts ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			b.WriteByte(':')
			b.WriteString(p)
		}
	}
	return b.String()
}
