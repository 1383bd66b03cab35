// Package events provides event bus implementations.
//
// Implementations:
//   - memory: in-process handlers, the default
//   - redis: Redis Streams with consumer groups
package events
