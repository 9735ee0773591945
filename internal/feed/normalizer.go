package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bilgisen/spacecards/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

const (
	// DefaultSource is used when an article has no news site
	DefaultSource = "Space News"
	// UnknownDate is displayed for timestamps that cannot be parsed
	UnknownDate = "Unknown date"

	displayLayout  = "Jan 2, 03:04 PM"
	wordsPerMinute = 200
)

var (
	ErrMissingID       = errors.New("missing required field: id")
	ErrMissingEnvelope = errors.New("missing required field: content")
	ErrDuplicateID     = errors.New("duplicate id in batch")
)

// Timestamp layouts accepted from upstream, tried in order
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer turns upstream payloads into view models
type Normalizer struct {
	policy *bluemonday.Policy
	tag    *regexp.Regexp
	loc    *time.Location
}

// NewNormalizer returns a Normalizer rendering display dates in loc (UTC if nil).
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)
	return &Normalizer{
		policy: policy,
		tag:    regexp.MustCompile(`</?[a-zA-Z][^<>]*>`),
		loc:    loc,
	}
}

// CleanHTML removes HTML tags, decodes entities and normalizes whitespace.
// Input without a complete tag is never sanitized, so a bare "<" survives.
func (n *Normalizer) CleanHTML(input string) string {
	cleaned := input
	if n.tag.MatchString(input) {
		cleaned = n.policy.Sanitize(input)
	}
	cleaned = html.UnescapeString(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}

// NormalizeArticle maps one articles API result to a Flashcard
func (n *Normalizer) NormalizeArticle(raw RawArticle) (models.Flashcard, error) {
	if raw.ID == nil {
		return models.Flashcard{}, ErrMissingID
	}

	published, display := n.timestamp(raw.PublishedAt)

	card := models.Flashcard{
		ID:          strconv.FormatInt(*raw.ID, 10),
		Title:       n.CleanHTML(raw.Title),
		Content:     raw.Summary,
		ImageURL:    raw.ImageURL,
		PublishedAt: display,
		Published:   published,
		Source:      DefaultSource,
		ReadTime:    ReadTime(raw.Summary),
		Category:    Classify(raw.Title),
	}
	if raw.VideoURL != nil && strings.TrimSpace(*raw.VideoURL) != "" {
		v := *raw.VideoURL
		card.VideoURL = &v
	}
	if raw.NewsSite != nil && strings.TrimSpace(*raw.NewsSite) != "" {
		card.Source = *raw.NewsSite
	}
	return card, nil
}

// NormalizeMixItem flattens one content API envelope into its variant
func (n *Normalizer) NormalizeMixItem(raw RawMixItem) (models.MixContent, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return nil, ErrMissingID
	}
	if raw.Content == nil {
		return nil, ErrMissingEnvelope
	}

	c := raw.Content
	published, display := n.timestamp(c.PublishedAt)
	base := models.MixBase{
		ID:          raw.ID,
		PublishedAt: display,
		Published:   published,
		Tags:        []string{},
	}
	if c.Likes != nil && *c.Likes > 0 {
		base.Likes = *c.Likes
	}
	if c.Tags != nil {
		base.Tags = c.Tags
	}

	switch rawType := strings.ToLower(strings.TrimSpace(c.Type)); models.MixType(rawType) {
	case models.TypeArticle:
		return models.Article{MixBase: base, Title: c.Title, Content: c.Content, ImageURL: c.ImageURL, Author: c.Author}, nil
	case models.TypeVideo:
		return models.Video{MixBase: base, Title: c.Title, Content: c.Content, VideoURL: c.VideoURL, ImageURL: c.ImageURL, Author: c.Author}, nil
	case models.TypeSong:
		return models.Song{MixBase: base, Title: c.Title, Content: c.Content, AudioURL: c.AudioURL, ImageURL: c.ImageURL, Author: c.Author}, nil
	case models.TypeImage:
		return models.Image{MixBase: base, Title: c.Title, Content: c.Content, ImageURL: c.ImageURL, Author: c.Author}, nil
	case models.TypeText:
		return models.Text{MixBase: base, Title: c.Title, Content: c.Content, Author: c.Author}, nil
	default:
		return models.Unsupported{MixBase: base, RawType: c.Type}, nil
	}
}

// Skipped records a batch entry that could not be normalized
type Skipped struct {
	Index int
	Err   error
}

func (s Skipped) Error() string {
	return fmt.Sprintf("item %d: %v", s.Index, s.Err)
}

// DecodeArticles normalizes each entry independently. Entries that fail
// are reported in the second return value and left out of the first.
func (n *Normalizer) DecodeArticles(entries []json.RawMessage) ([]models.Flashcard, []Skipped) {
	cards := make([]models.Flashcard, 0, len(entries))
	var skipped []Skipped
	seen := make(map[string]struct{}, len(entries))

	for i, entry := range entries {
		var raw RawArticle
		if err := json.Unmarshal(entry, &raw); err != nil {
			skipped = append(skipped, Skipped{Index: i, Err: fmt.Errorf("decode article: %w", err)})
			continue
		}
		card, err := n.NormalizeArticle(raw)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Err: err})
			continue
		}
		if _, dup := seen[card.ID]; dup {
			skipped = append(skipped, Skipped{Index: i, Err: fmt.Errorf("%w: %s", ErrDuplicateID, card.ID)})
			continue
		}
		seen[card.ID] = struct{}{}
		cards = append(cards, card)
	}
	return cards, skipped
}

// DecodeMixItems is DecodeArticles for the content API
func (n *Normalizer) DecodeMixItems(entries []json.RawMessage) ([]models.MixContent, []Skipped) {
	items := make([]models.MixContent, 0, len(entries))
	var skipped []Skipped
	seen := make(map[string]struct{}, len(entries))

	for i, entry := range entries {
		var raw RawMixItem
		if err := json.Unmarshal(entry, &raw); err != nil {
			skipped = append(skipped, Skipped{Index: i, Err: fmt.Errorf("decode mix item: %w", err)})
			continue
		}
		item, err := n.NormalizeMixItem(raw)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Err: err})
			continue
		}
		if _, dup := seen[item.Key()]; dup {
			skipped = append(skipped, Skipped{Index: i, Err: fmt.Errorf("%w: %s", ErrDuplicateID, item.Key())})
			continue
		}
		seen[item.Key()] = struct{}{}
		items = append(items, item)
	}
	return items, skipped
}

// ReadTime estimates reading time at 200 words per minute, never below one minute.
func ReadTime(text string) string {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// timestamp parses an upstream timestamp, returning the instant and its
// display form. Unparsable input yields the zero instant and UnknownDate.
func (n *Normalizer) timestamp(value string) (time.Time, string) {
	t, ok := ParseTimestamp(value)
	if !ok {
		return time.Time{}, UnknownDate
	}
	return t, t.In(n.loc).Format(displayLayout)
}

// ParseTimestamp parses the ISO 8601 variants seen upstream.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
