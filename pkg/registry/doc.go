// Package registry implements the pool membership registry for pokestrat.
// A pool tracks which wallets have committed demand toward a single card,
// stored as one Redis hash per card ID and mirrored to observers through a
// Pub/Sub change feed.
//
// All Redis keys and channels are namespaced so that multiple registries can
// safely coexist on a single Redis server.
//
// Join and Leave are the only mutation paths for membership. Both run as
// optimistic transactions (WATCH on the pool key) so that concurrent callers
// can never produce a duplicate participant or a request count that disagrees
// with the participant list.
package registry
