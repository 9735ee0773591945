package feed

import "encoding/json"

// RawArticle is one result of the articles API
type RawArticle struct {
	ID          *int64  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	ImageURL    string  `json:"image_url"`
	VideoURL    *string `json:"video_url"`
	PublishedAt string  `json:"published_at"`
	NewsSite    *string `json:"news_site"`
}

type articlesResponse struct {
	Results []json.RawMessage `json:"results"`
}

// RawMixItem is one entry of the content API, still in its envelope
type RawMixItem struct {
	ID      string         `json:"id"`
	Content *RawMixPayload `json:"content"`
}

type RawMixPayload struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ImageURL    string   `json:"imageUrl"`
	VideoURL    string   `json:"videoUrl"`
	AudioURL    string   `json:"audioUrl"`
	Author      string   `json:"author"`
	PublishedAt string   `json:"publishedAt"`
	Likes       *int     `json:"likes"`
	Tags        []string `json:"tags"`
}

type mixResponse struct {
	Content []json.RawMessage `json:"content"`
}
