package feed

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bilgisen/spacecards/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func int64p(v int64) *int64 { return &v }
func strp(v string) *string { return &v }
func intp(v int) *int       { return &v }

func TestNormalizeArticle(t *testing.T) {
	n := NewNormalizer(time.UTC)

	card, err := n.NormalizeArticle(RawArticle{
		ID:          int64p(42),
		Title:       "NASA launches new satellite",
		Summary:     words(150),
		ImageURL:    "https://img.example.com/42.jpg",
		PublishedAt: "2024-01-20T14:30:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "42", card.ID)
	assert.Equal(t, DefaultSource, card.Source)
	assert.Equal(t, "1 min read", card.ReadTime)
	assert.Equal(t, "NASA", card.Category)
	assert.Nil(t, card.VideoURL)
	assert.Equal(t, "Jan 20, 02:30 PM", card.PublishedAt)
	assert.True(t, card.Published.Equal(time.Date(2024, 1, 20, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, words(150), card.Content)
}

func TestNormalizeArticleOptionalFields(t *testing.T) {
	n := NewNormalizer(time.UTC)

	card, err := n.NormalizeArticle(RawArticle{
		ID:       int64p(7),
		Title:    "<b>Falcon</b> &amp; friends",
		VideoURL: strp("https://youtu.be/dQw4w9WgXcQ"),
		NewsSite: strp("SpaceNews"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Falcon & friends", card.Title)
	assert.Equal(t, "SpaceX", card.Category)
	require.NotNil(t, card.VideoURL)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", *card.VideoURL)
	assert.Equal(t, "SpaceNews", card.Source)
	assert.Equal(t, UnknownDate, card.PublishedAt)
	assert.True(t, card.Published.IsZero())

	card, err = n.NormalizeArticle(RawArticle{ID: int64p(8), VideoURL: strp(""), NewsSite: strp("  ")})
	require.NoError(t, err)
	assert.Nil(t, card.VideoURL, "empty video url must be absent")
	assert.Equal(t, DefaultSource, card.Source)

	_, err = n.NormalizeArticle(RawArticle{Title: "no id"})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestNormalizeArticleDisplayLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	card, err := NewNormalizer(loc).NormalizeArticle(RawArticle{ID: int64p(1), PublishedAt: "2024-01-20T14:30:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "Jan 20, 09:30 AM", card.PublishedAt)
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, "1 min read", ReadTime(""))
	assert.Equal(t, "1 min read", ReadTime("   \n\t"))
	assert.Equal(t, "1 min read", ReadTime(words(1)))
	assert.Equal(t, "1 min read", ReadTime(words(200)))
	assert.Equal(t, "2 min read", ReadTime(words(201)))
	assert.Equal(t, "3 min read", ReadTime(words(401)))
	assert.Equal(t, "1 min read", ReadTime("spaced   out\n\nwords"))
}

func TestParseTimestamp(t *testing.T) {
	for _, value := range []string{
		"2024-01-20T14:30:00Z",
		"2024-01-20T14:30:00.123456Z",
		"2024-01-20T14:30:00+02:00",
		"2024-01-20T14:30:00",
		"2024-01-20",
	} {
		_, ok := ParseTimestamp(value)
		assert.True(t, ok, value)
	}

	for _, value := range []string{"", "yesterday", "20/01/2024"} {
		_, ok := ParseTimestamp(value)
		assert.False(t, ok, value)
	}
}

func TestNormalizeMixItem(t *testing.T) {
	n := NewNormalizer(time.UTC)

	tests := []struct {
		name    string
		payload RawMixPayload
		check   func(t *testing.T, item models.MixContent)
	}{
		{
			name:    "article",
			payload: RawMixPayload{Type: "article", Title: "Mars", Content: "Red", ImageURL: "i", Author: "a", PublishedAt: "2024-02-01T00:00:00Z"},
			check: func(t *testing.T, item models.MixContent) {
				a, ok := item.(models.Article)
				require.True(t, ok)
				assert.Equal(t, "Mars", a.Title)
				assert.Equal(t, "Red", a.Content)
				assert.Equal(t, "Feb 1, 12:00 AM", a.PublishedAt)
			},
		},
		{
			name:    "video",
			payload: RawMixPayload{Type: "video", VideoURL: "v", ImageURL: "poster"},
			check: func(t *testing.T, item models.MixContent) {
				v, ok := item.(models.Video)
				require.True(t, ok)
				assert.Equal(t, "v", v.VideoURL)
				assert.Equal(t, "poster", v.ImageURL)
			},
		},
		{
			name:    "song",
			payload: RawMixPayload{Type: "song", AudioURL: "a.mp3"},
			check: func(t *testing.T, item models.MixContent) {
				s, ok := item.(models.Song)
				require.True(t, ok)
				assert.Equal(t, "a.mp3", s.AudioURL)
			},
		},
		{
			name:    "image",
			payload: RawMixPayload{Type: "Image", ImageURL: "i.jpg"},
			check: func(t *testing.T, item models.MixContent) {
				i, ok := item.(models.Image)
				require.True(t, ok)
				assert.Equal(t, "i.jpg", i.ImageURL)
			},
		},
		{
			name:    "text",
			payload: RawMixPayload{Type: "text", Content: "hello"},
			check: func(t *testing.T, item models.MixContent) {
				txt, ok := item.(models.Text)
				require.True(t, ok)
				assert.Equal(t, "hello", txt.Content)
			},
		},
		{
			name:    "unsupported",
			payload: RawMixPayload{Type: "poll"},
			check: func(t *testing.T, item models.MixContent) {
				u, ok := item.(models.Unsupported)
				require.True(t, ok)
				assert.Equal(t, "poll", u.RawType)
				assert.Equal(t, models.TypeUnsupported, u.Type())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := tt.payload
			item, err := n.NormalizeMixItem(RawMixItem{ID: "m-" + tt.name, Content: &payload})
			require.NoError(t, err)
			assert.Equal(t, "m-"+tt.name, item.Key())
			tt.check(t, item)
		})
	}
}

func TestNormalizeMixItemDefaults(t *testing.T) {
	n := NewNormalizer(time.UTC)

	item, err := n.NormalizeMixItem(RawMixItem{ID: "x", Content: &RawMixPayload{Type: "text", Likes: intp(-3)}})
	require.NoError(t, err)
	txt := item.(models.Text)
	assert.Equal(t, 0, txt.Likes)
	assert.Equal(t, []string{}, txt.Tags)
	assert.Equal(t, UnknownDate, txt.PublishedAt)

	item, err = n.NormalizeMixItem(RawMixItem{ID: "y", Content: &RawMixPayload{Type: "text", Likes: intp(12), Tags: []string{"a", "b"}}})
	require.NoError(t, err)
	txt = item.(models.Text)
	assert.Equal(t, 12, txt.Likes)
	assert.Equal(t, []string{"a", "b"}, txt.Tags)

	_, err = n.NormalizeMixItem(RawMixItem{ID: "z"})
	assert.ErrorIs(t, err, ErrMissingEnvelope)

	_, err = n.NormalizeMixItem(RawMixItem{Content: &RawMixPayload{Type: "text"}})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestDecodeArticlesSkipsBadEntries(t *testing.T) {
	n := NewNormalizer(time.UTC)
	entries := []json.RawMessage{
		json.RawMessage(`{"id": 1, "title": "one", "summary": "s", "published_at": "2024-01-01T00:00:00Z"}`),
		json.RawMessage(`{"id": "not-a-number", "title": "bad"}`),
		json.RawMessage(`{"title": "no id"}`),
		json.RawMessage(`{"id": 1, "title": "dup"}`),
		json.RawMessage(`{"id": 2, "title": "two", "summary": null, "news_site": null, "video_url": null}`),
	}

	cards, skipped := n.DecodeArticles(entries)
	require.Len(t, cards, 2)
	assert.Equal(t, "1", cards[0].ID)
	assert.Equal(t, "one", cards[0].Title)
	assert.Equal(t, "2", cards[1].ID)

	require.Len(t, skipped, 3)
	assert.Equal(t, 1, skipped[0].Index)
	assert.ErrorIs(t, skipped[1].Err, ErrMissingID)
	assert.True(t, errors.Is(skipped[2].Err, ErrDuplicateID))
	assert.Contains(t, skipped[2].Error(), "item 3")
}

func TestDecodeMixItemsSkipsBadEntries(t *testing.T) {
	n := NewNormalizer(time.UTC)
	entries := []json.RawMessage{
		json.RawMessage(`{"id": "a", "content": {"type": "image", "imageUrl": "i", "publishedAt": "2024-01-01T00:00:00Z"}}`),
		json.RawMessage(`{"id": "b"}`),
		json.RawMessage(`[1, 2, 3]`),
		json.RawMessage(`{"id": "c", "content": {"type": "hologram"}}`),
	}

	items, skipped := n.DecodeMixItems(entries)
	require.Len(t, items, 2)
	assert.Equal(t, models.TypeImage, items[0].Type())
	assert.Equal(t, models.TypeUnsupported, items[1].Type())
	assert.Len(t, skipped, 2)
}

func TestCleanHTML(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		in, want string
	}{
		{"plain title", "plain title"},
		{"<p>Moon</p><p>landing</p>", "Moon landing"},
		{"Mars &lt;3 &amp; rovers", "Mars <3 & rovers"},
		{"Launch<script>alert(1)</script> today", "Launch today"},
		{"  spaced \n\t out  ", "spaced out"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, n.CleanHTML(tt.in), tt.in)
	}
}

func TestNormalizeArticleLiteralLessThan(t *testing.T) {
	n := NewNormalizer(time.UTC)

	card, err := n.NormalizeArticle(RawArticle{ID: int64p(11), Title: "Why a<b matters for NASA"})
	require.NoError(t, err)
	assert.Equal(t, "Why a<b matters for NASA", card.Title)
	assert.Equal(t, "NASA", card.Category)
}

func TestNormalizeMixMediaKeepsContent(t *testing.T) {
	n := NewNormalizer(time.UTC)

	item, err := n.NormalizeMixItem(RawMixItem{ID: "v1", Content: &RawMixPayload{Type: "video", Title: "Launch", Content: "Booster catch"}})
	require.NoError(t, err)
	video, ok := item.(models.Video)
	require.True(t, ok)
	assert.Equal(t, "Booster catch", video.Content)
}
