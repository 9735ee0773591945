package models

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// MixType discriminates the MixContent variants
type MixType string

const (
	TypeArticle     MixType = "article"
	TypeVideo       MixType = "video"
	TypeSong        MixType = "song"
	TypeImage       MixType = "image"
	TypeText        MixType = "text"
	TypeUnsupported MixType = "unsupported"
)

// MixContent is one item of the mixed media feed. The concrete value is
// always one of Article, Video, Song, Image, Text or Unsupported.
type MixContent interface {
	Type() MixType
	Key() string
	PublishedTime() time.Time
	SearchFields() (tags []string, title, content string)
	isMixContent()
}

// MixBase holds the fields shared by every variant
type MixBase struct {
	ID          string    `json:"id"`
	PublishedAt string    `json:"published_at"`
	Published   time.Time `json:"published,omitzero"`
	Likes       int       `json:"likes"`
	Tags        []string  `json:"tags"`
}

func (b MixBase) Key() string             { return b.ID }
func (b MixBase) PublishedTime() time.Time { return b.Published }

type Article struct {
	MixBase
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	Author   string `json:"author,omitempty"`
}

type Video struct {
	MixBase
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	VideoURL string `json:"video_url"`
	ImageURL string `json:"image_url,omitempty"`
	Author   string `json:"author,omitempty"`
}

type Song struct {
	MixBase
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	AudioURL string `json:"audio_url"`
	ImageURL string `json:"image_url,omitempty"`
	Author   string `json:"author,omitempty"`
}

type Image struct {
	MixBase
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	ImageURL string `json:"image_url"`
	Author   string `json:"author,omitempty"`
}

type Text struct {
	MixBase
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

// Unsupported stands in for an upstream type this service does not know.
// Clients render a placeholder card for it.
type Unsupported struct {
	MixBase
	RawType string `json:"raw_type"`
}

func (Article) Type() MixType     { return TypeArticle }
func (Video) Type() MixType       { return TypeVideo }
func (Song) Type() MixType        { return TypeSong }
func (Image) Type() MixType       { return TypeImage }
func (Text) Type() MixType        { return TypeText }
func (Unsupported) Type() MixType { return TypeUnsupported }

func (Article) isMixContent()     {}
func (Video) isMixContent()       {}
func (Song) isMixContent()        {}
func (Image) isMixContent()       {}
func (Text) isMixContent()        {}
func (Unsupported) isMixContent() {}

func (a Article) SearchFields() ([]string, string, string)     { return a.Tags, a.Title, a.Content }
func (v Video) SearchFields() ([]string, string, string)       { return v.Tags, v.Title, v.Content }
func (s Song) SearchFields() ([]string, string, string)        { return s.Tags, s.Title, s.Content }
func (i Image) SearchFields() ([]string, string, string)       { return i.Tags, i.Title, i.Content }
func (t Text) SearchFields() ([]string, string, string)        { return t.Tags, t.Title, t.Content }
func (u Unsupported) SearchFields() ([]string, string, string) { return u.Tags, "", "" }

// fullTextThreshold is the content length above which clients link to the full article
const fullTextThreshold = 200

// HasFullText reports whether the article is long enough for a full article page.
func (a Article) HasFullText() bool {
	return len(a.Content) > fullTextThreshold
}

// Paragraphs splits the article body on blank lines.
func (a Article) Paragraphs() []string {
	var out []string
	for _, p := range strings.Split(a.Content, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var youtubeID = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// EmbedURL returns the YouTube embed URL for the video, or "" when the
// video is not a recognizable YouTube link.
func (v Video) EmbedURL() string {
	m := youtubeID.FindStringSubmatch(v.VideoURL)
	if m == nil || len(m[2]) != 11 {
		return ""
	}
	return "https://www.youtube.com/embed/" + m[2]
}

func (a Article) MarshalJSON() ([]byte, error) {
	type alias Article
	return json.Marshal(struct {
		Type        MixType `json:"type"`
		HasFullText bool    `json:"has_full_text"`
		alias
	}{a.Type(), a.HasFullText(), alias(a)})
}

func (v Video) MarshalJSON() ([]byte, error) {
	type alias Video
	return json.Marshal(struct {
		Type     MixType `json:"type"`
		EmbedURL string  `json:"embed_url,omitempty"`
		alias
	}{v.Type(), v.EmbedURL(), alias(v)})
}

func (s Song) MarshalJSON() ([]byte, error) {
	type alias Song
	return json.Marshal(struct {
		Type MixType `json:"type"`
		alias
	}{s.Type(), alias(s)})
}

func (i Image) MarshalJSON() ([]byte, error) {
	type alias Image
	return json.Marshal(struct {
		Type MixType `json:"type"`
		alias
	}{i.Type(), alias(i)})
}

func (t Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type MixType `json:"type"`
		alias
	}{t.Type(), alias(t)})
}

func (u Unsupported) MarshalJSON() ([]byte, error) {
	type alias Unsupported
	return json.Marshal(struct {
		Type MixType `json:"type"`
		alias
	}{u.Type(), alias(u)})
}
