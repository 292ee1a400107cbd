// Package store provides the persistence layer: the secure token
// store consumed by the auth manager and the listening-history
// repository fed by the dispatcher.
//
// # Token storage
//
// [TokenStore] keeps exactly one credential blob per (service,
// account) pair, serialized as JSON. lyrio uses the fixed pair
// ("com.lyrio.spotify", "spotify_token").
//
// # Track history
//
// [HistoryRepository] appends one row per emitted track change and
// serves the most recent entries for `lyrio history`.
package store
