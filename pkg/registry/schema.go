package registry

import "fmt"

// Redis key pattern helpers
//
// All keys and Pub/Sub channels are namespaced to enable multiple pokestrat
// registries to safely coexist on a single Redis server.
//
// Key pattern: pokestrat:{namespace}:{entity}:{id}
// Channel pattern: pokestrat:{namespace}:{event_type}_events

// PoolKey returns the Redis key for a card's pool hash.
// Pattern: pokestrat:{namespace}:pool:{card_id}
func PoolKey(namespace, cardID string) string {
	return fmt.Sprintf("pokestrat:%s:pool:%s", namespace, cardID)
}

// PoolKeyPrefix returns the common prefix of all pool keys in a namespace.
// Used with SCAN to enumerate the collection.
func PoolKeyPrefix(namespace string) string {
	return fmt.Sprintf("pokestrat:%s:pool:", namespace)
}

// PoolEventsChannel returns the Pub/Sub channel for pool change events.
// Pattern: pokestrat:{namespace}:pool_events
func PoolEventsChannel(namespace string) string {
	return fmt.Sprintf("pokestrat:%s:pool_events", namespace)
}

// HoldingKey returns the Redis key for a holding document.
// Pattern: pokestrat:{namespace}:holding:{id}
func HoldingKey(namespace, holdingID string) string {
	return fmt.Sprintf("pokestrat:%s:holding:%s", namespace, holdingID)
}

// HoldingKeyPrefix returns the common prefix of all holding keys in a namespace.
func HoldingKeyPrefix(namespace string) string {
	return fmt.Sprintf("pokestrat:%s:holding:", namespace)
}
