// Package ports defines the interfaces between the application layer
// and its adapters: feed storage, event distribution and metrics.
package ports
