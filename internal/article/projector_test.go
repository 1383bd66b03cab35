package article

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mizutori/nosread/pkg/domain"
)

func TestProjectTitleAndBody(t *testing.T) {
	cases := []struct {
		name      string
		tags      [][]string
		content   string
		wantTitle string
		wantBody  string
	}{
		{
			name:      "title tag matching content prefix",
			tags:      [][]string{{"title", "Foo"}},
			content:   "Foo\nbar",
			wantTitle: "Foo",
			wantBody:  "bar",
		},
		{
			name:      "first non-empty line",
			content:   "  \nHello\nworld",
			wantTitle: "Hello",
			wantBody:  "world",
		},
		{
			name:      "empty content",
			content:   "",
			wantTitle: "(untitled)",
			wantBody:  "",
		},
		{
			name:      "whitespace-only content",
			content:   "  \n\t\n",
			wantTitle: "(untitled)",
			wantBody:  "",
		},
		{
			// Tag titles that do not prefix the content stay
			// duplicated in the body; kept as observed.
			name:      "title tag not prefixing content",
			tags:      [][]string{{"title", "My Article"}},
			content:   "Something else entirely",
			wantTitle: "My Article",
			wantBody:  "Something else entirely",
		},
		{
			name:      "single line content",
			content:   "Just a headline",
			wantTitle: "Just a headline",
			wantBody:  "",
		},
		{
			name:      "title tag preferred over first line",
			tags:      [][]string{{"d", "slug"}, {"title", "Tagged"}},
			content:   "Tagged\nbody text",
			wantTitle: "Tagged",
			wantBody:  "body text",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := Project(&domain.NostrEvent{
				Tags:    tc.tags,
				Content: tc.content,
			})

			assert.Equal(t, tc.wantTitle, record.Title)
			assert.Equal(t, tc.wantBody, record.Body)
		})
	}
}

func TestProjectAuthorDisplay(t *testing.T) {
	record := Project(&domain.NostrEvent{PubKey: "0123456789abcdef0123"})
	assert.Equal(t, "0123456789ab", record.AuthorDisplay)

	record = Project(&domain.NostrEvent{PubKey: "short"})
	assert.Equal(t, "short", record.AuthorDisplay)

	record = Project(&domain.NostrEvent{})
	assert.Equal(t, "unknown", record.AuthorDisplay)
}

func TestProjectTimestamp(t *testing.T) {
	record := Project(&domain.NostrEvent{CreatedAt: 1700000000})
	assert.Equal(t, time.Unix(1700000000, 0), record.Timestamp)

	// Missing created_at defaults to the zero unix time.
	record = Project(&domain.NostrEvent{})
	assert.Equal(t, time.Unix(0, 0), record.Timestamp)
}

func TestProjectIsPure(t *testing.T) {
	event := &domain.NostrEvent{
		Tags:    [][]string{{"title", "Foo"}},
		Content: "Foo\nbar",
		PubKey:  "abc",
	}

	first := Project(event)
	second := Project(event)

	assert.Equal(t, first, second)
	assert.Equal(t, "Foo\nbar", event.Content)
}
