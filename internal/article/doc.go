// Package article derives display records from relay events: a
// title taken from the event's "title" tag or its first content
// line, the remaining body text, a shortened author key and the
// event timestamp.
package article
