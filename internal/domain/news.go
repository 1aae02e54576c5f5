package domain

import "time"

// NewsPost is an entry in the company news feed.
type NewsPost struct {
	ID          string
	AuthorID    string
	Title       string
	Body        string
	Pinned      bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Published reports whether the post is visible in the feed.
func (p *NewsPost) Published() bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(time.Now())
}
