package models

import (
	"sort"
	"time"
)

// Topic is a named, persisted collection of vocabulary items
type Topic struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Items     []VocabItem `json:"items" db:"-"`
	CreatedAt int64       `json:"createdAt" db:"created_at"` // epoch milliseconds
}

// CreatedTime returns CreatedAt as a time.Time
func (t Topic) CreatedTime() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// Clone returns a deep copy of the topic
func (t Topic) Clone() Topic {
	out := t
	out.Items = make([]VocabItem, len(t.Items))
	for i, item := range t.Items {
		out.Items[i] = item.Clone()
	}
	return out
}

// ItemIndex returns the position of the item with the given id, or -1
func (t *Topic) ItemIndex(id string) int {
	for i := range t.Items {
		if t.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// SortNewestFirst orders topics by CreatedAt descending
func SortNewestFirst(topics []Topic) {
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].CreatedAt > topics[j].CreatedAt
	})
}
