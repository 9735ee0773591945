package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMixContentJSONCarriesType(t *testing.T) {
	base := MixBase{
		ID:          "m1",
		PublishedAt: "Feb 1, 12:00 AM",
		Published:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{},
	}

	tests := []struct {
		item     MixContent
		wantType string
	}{
		{Article{MixBase: base, Title: "t"}, "article"},
		{Video{MixBase: base, VideoURL: "https://cdn.example.com/v.mp4"}, "video"},
		{Song{MixBase: base, AudioURL: "https://cdn.example.com/a.mp3"}, "song"},
		{Image{MixBase: base, ImageURL: "https://cdn.example.com/i.jpg"}, "image"},
		{Text{MixBase: base, Content: "hello"}, "text"},
		{Unsupported{MixBase: base, RawType: "poll"}, "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.wantType, func(t *testing.T) {
			data, err := json.Marshal(tt.item)
			require.NoError(t, err)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.wantType, got["type"])
			assert.Equal(t, "m1", got["id"])
			assert.Equal(t, []interface{}{}, got["tags"])
			assert.EqualValues(t, 0, got["likes"])
			assert.Equal(t, string(tt.item.Type()), tt.wantType)
		})
	}
}

func TestVideoEmbedURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=short", ""},
		{"https://cdn.example.com/launch.mp4", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Video{VideoURL: tt.url}.EmbedURL(), tt.url)
	}
}

func TestArticleFullText(t *testing.T) {
	short := Article{Content: "A short note."}
	assert.False(t, short.HasFullText())

	long := Article{Content: strings.Repeat("a", 201)}
	assert.True(t, long.HasFullText())

	body := Article{Content: "First paragraph.\n\n   Second paragraph.  \n\n\n\nThird."}
	assert.Equal(t, []string{"First paragraph.", "Second paragraph.", "Third."}, body.Paragraphs())
}

func TestSearchFields(t *testing.T) {
	tags, title, content := Text{MixBase: MixBase{Tags: []string{"mars"}}, Title: "t", Content: "c"}.SearchFields()
	assert.Equal(t, []string{"mars"}, tags)
	assert.Equal(t, "t", title)
	assert.Equal(t, "c", content)

	tags, title, content = Flashcard{Title: "x", Content: "y"}.SearchFields()
	assert.Nil(t, tags)
	assert.Equal(t, "x", title)
	assert.Equal(t, "y", content)
}

func TestUnknownPublishedOmitted(t *testing.T) {
	data, err := json.Marshal(Text{MixBase: MixBase{ID: "t1", PublishedAt: "Unknown date"}})
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotContains(t, got, "published")
	assert.Equal(t, "Unknown date", got["published_at"])

	data, err = json.Marshal(Flashcard{ID: "1"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"published"`)

	data, err = json.Marshal(Flashcard{ID: "2", Published: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"published":"2024-03-01T00:00:00Z"`)
}

func TestMediaSearchFieldsIncludeContent(t *testing.T) {
	items := []MixContent{
		Video{Title: "v", Content: "launch replay"},
		Song{Title: "s", Content: "launch anthem"},
		Image{Title: "i", Content: "launch pad"},
	}
	for _, item := range items {
		_, _, content := item.SearchFields()
		assert.Contains(t, content, "launch", item.Type())
	}
}
