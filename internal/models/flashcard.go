package models

import "time"

// Flashcard is the view model for a single space news article
type Flashcard struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url"`
	VideoURL    *string   `json:"video_url,omitempty"`
	PublishedAt string    `json:"published_at"`
	Published   time.Time `json:"published,omitzero"`
	Source      string    `json:"source"`
	ReadTime    string    `json:"read_time"`
	Category    string    `json:"category"`
}

func (f Flashcard) Key() string             { return f.ID }
func (f Flashcard) PublishedTime() time.Time { return f.Published }

// SearchFields returns the text the search filter matches against.
// Flashcards carry no tags.
func (f Flashcard) SearchFields() (tags []string, title, content string) {
	return nil, f.Title, f.Content
}
