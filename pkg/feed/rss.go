// Package feed renders stored journal entries as an RSS 2.0 channel.
package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"voice-journal/pkg/domain"
)

// RSS renders journals as an RSS 2.0 document, one item per entry in the
// given order. link is the channel link and the base for item links.
func RSS(title, link string, journals []domain.Journal) ([]byte, error) {
	base := strings.TrimRight(link, "/")

	f := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: fmt.Sprintf("%s: spoken journal entries", title),
		Items:       make([]*feeds.Item, 0, len(journals)),
	}

	var latest time.Time
	for _, j := range journals {
		itemLink := link
		if base != "" && j.ID != "" {
			itemLink = base + "/" + j.ID
		}
		f.Items = append(f.Items, &feeds.Item{
			Title:       j.Title,
			Link:        &feeds.Link{Href: itemLink},
			Description: j.Summary,
			Id:          j.ID,
			Created:     j.CreatedAt.UTC(),
		})
		if j.CreatedAt.After(latest) {
			latest = j.CreatedAt
		}
	}
	if !latest.IsZero() {
		f.Created = latest.UTC()
		f.Updated = latest.UTC()
	}

	out, err := f.ToRss()
	if err != nil {
		return nil, fmt.Errorf("render rss: %w", err)
	}
	return []byte(out), nil
}
