package article

import (
	"strings"
	"time"

	"github.com/mizutori/nosread/pkg/domain"
)

// UntitledPlaceholder is the title used when an event carries no
// title tag and no non-empty content line.
const UntitledPlaceholder = "(untitled)"

// Project renders an event as an article record. It is pure: no
// side effects beyond allocation, same input always yields the same
// record.
func Project(event *domain.NostrEvent) domain.ArticleRecord {
	title := deriveTitle(event)

	content := strings.TrimSpace(event.Content)
	body := content
	// The title is only stripped when the content literally starts
	// with it. A tag-derived title that does not prefix the content
	// stays duplicated in the body; observed behavior, kept as is.
	if strings.HasPrefix(content, title) {
		body = strings.TrimSpace(strings.TrimPrefix(content, title))
	}

	return domain.ArticleRecord{
		Title:         title,
		Body:          body,
		AuthorDisplay: domain.ShortPubKey(event.PubKey),
		Timestamp:     time.Unix(event.CreatedAt, 0),
	}
}

// deriveTitle prefers an explicit "title" tag, then the first
// non-empty content line, then the untitled placeholder.
func deriveTitle(event *domain.NostrEvent) string {
	if tagged := event.TagValue("title"); tagged != "" {
		return tagged
	}

	for _, line := range strings.Split(event.Content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}

	return UntitledPlaceholder
}
