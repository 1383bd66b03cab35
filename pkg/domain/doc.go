// Package domain holds the core types shared across the reader:
// relay events, subscription filters, projected articles and
// status signals surfaced to the UI.
package domain
