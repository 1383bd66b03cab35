package domain

import (
	"strings"
	"time"
)

// NostrEvent is a single event as delivered by the relay inside an
// EVENT frame. Events are transient: they are projected into an
// ArticleRecord and then discarded.
type NostrEvent struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// TagValue returns the second element of the first tag whose name
// matches, or "" when no such tag exists.
func (e *NostrEvent) TagValue(name string) string {
	for _, tag := range e.Tags {
		if len(tag) >= 2 && tag[0] == name {
			return tag[1]
		}
	}
	return ""
}

// Filter describes a subscription request: which event kinds to
// stream, how many stored events the relay may return, and optional
// tag constraints (one allowed value per tag name).
type Filter struct {
	Kinds      []int
	Limit      int
	TagFilters map[string]string
}

// Encode renders the filter as the JSON object carried in a REQ
// frame. Tag constraints are emitted under "#"+name keys per the
// relay protocol.
func (f Filter) Encode() map[string]interface{} {
	payload := map[string]interface{}{
		"kinds": f.Kinds,
		"limit": f.Limit,
	}
	for name, value := range f.TagFilters {
		payload["#"+name] = []string{value}
	}
	return payload
}

// ArticleRecord is the rendered form of an event: a derived title,
// the remaining body text, a shortened author key and the event
// timestamp. Records are immutable once created.
type ArticleRecord struct {
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	AuthorDisplay string    `json:"author_display"`
	Timestamp     time.Time `json:"timestamp"`
}

// Severity classifies a status signal for the UI.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Status is a one-line signal surfaced to the UI: end of stored
// events, relay notices, rejected requests, connection changes.
type Status struct {
	Text     string    `json:"text"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

// Info builds an informational status.
func Info(text string) Status {
	return Status{Text: text, Severity: SeverityInfo, At: time.Now()}
}

// Warning builds a warning status.
func Warning(text string) Status {
	return Status{Text: text, Severity: SeverityWarning, At: time.Now()}
}

// ShortPubKey truncates a pubkey to its 12-character display form.
// An empty pubkey renders as "unknown".
func ShortPubKey(pubkey string) string {
	if strings.TrimSpace(pubkey) == "" {
		return "unknown"
	}
	if len(pubkey) > 12 {
		return pubkey[:12]
	}
	return pubkey
}
