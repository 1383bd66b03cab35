// Package feed provides article list storage implementations.
//
// Implementations:
//   - memory: in-memory slice, the default
//   - redis: Redis list with per-session key and TTL
//
// Both hold only the articles rendered for the current subscription;
// the list is cleared whenever a new subscription is issued.
package feed
