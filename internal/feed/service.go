package feed

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/bilgisen/spacecards/internal/logger"
	"github.com/bilgisen/spacecards/internal/models"
	"golang.org/x/sync/errgroup"
)

// ServiceConfig configures the content fetch service
type ServiceConfig struct {
	ArticlesBaseURL string
	ContentBaseURL  string
	Timeout         time.Duration
	UserAgent       string
	Location        *time.Location
}

// Service fetches, normalizes and orders upstream content. None of its
// fetch methods return errors: failures are logged and yield empty results.
type Service struct {
	fetcher     *Fetcher
	normalizer  *Normalizer
	articlesURL string
	contentURL  string
}

// Home is the landing page payload with both feeds
type Home struct {
	Flashcards []models.Flashcard  `json:"flashcards"`
	Mix        []models.MixContent `json:"mix"`
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		fetcher:     NewFetcher(cfg.Timeout, cfg.UserAgent),
		normalizer:  NewNormalizer(cfg.Location),
		articlesURL: strings.TrimRight(cfg.ArticlesBaseURL, "/") + "/articles",
		contentURL:  strings.TrimRight(cfg.ContentBaseURL, "/") + "/api/content",
	}
}

// FetchFlashcards returns the news articles, newest first
func (s *Service) FetchFlashcards(ctx context.Context) []models.Flashcard {
	log := logger.Component("feed")
	start := time.Now()

	var resp articlesResponse
	if err := s.fetcher.FetchJSON(ctx, s.articlesURL, &resp); err != nil {
		log.Error().
			Err(err).
			Str("url", s.articlesURL).
			Msg("Error fetching flashcards")
		return []models.Flashcard{}
	}

	cards, skipped := s.normalizer.DecodeArticles(resp.Results)
	logSkipped("flashcards", skipped)
	SortByPublished(cards)

	log.Info().
		Int("items", len(cards)).
		Int("skipped", len(skipped)).
		Dur("duration", time.Since(start)).
		Msg("Fetched flashcards")
	return cards
}

// FetchMixContent returns the mixed media feed, newest first
func (s *Service) FetchMixContent(ctx context.Context) []models.MixContent {
	log := logger.Component("feed")
	start := time.Now()

	var resp mixResponse
	if err := s.fetcher.FetchJSON(ctx, s.contentURL, &resp); err != nil {
		log.Error().
			Err(err).
			Str("url", s.contentURL).
			Msg("Error fetching mix content")
		return []models.MixContent{}
	}

	items, skipped := s.normalizer.DecodeMixItems(resp.Content)
	logSkipped("mix", skipped)
	SortByPublished(items)

	log.Info().
		Int("items", len(items)).
		Int("skipped", len(skipped)).
		Dur("duration", time.Since(start)).
		Msg("Fetched mix content")
	return items
}

// FetchFlashcard loads a single article for the full post view
func (s *Service) FetchFlashcard(ctx context.Context, id string) (models.Flashcard, bool) {
	log := logger.Component("feed")
	u := s.articlesURL + "/" + url.PathEscape(id)

	var raw RawArticle
	if err := s.fetcher.FetchJSON(ctx, u, &raw); err != nil {
		log.Error().
			Err(err).
			Str("id", id).
			Msg("Error fetching flashcard")
		return models.Flashcard{}, false
	}

	card, err := s.normalizer.NormalizeArticle(raw)
	if err != nil {
		log.Warn().
			Err(err).
			Str("id", id).
			Msg("Skipping malformed flashcard")
		return models.Flashcard{}, false
	}
	return card, true
}

// FindMixItem looks up one mix item by id in a fresh fetch
func (s *Service) FindMixItem(ctx context.Context, id string) (models.MixContent, bool) {
	for _, item := range s.FetchMixContent(ctx) {
		if item.Key() == id {
			return item, true
		}
	}
	return nil, false
}

// FetchAll fetches both feeds concurrently
func (s *Service) FetchAll(ctx context.Context) Home {
	var home Home
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		home.Flashcards = s.FetchFlashcards(gctx)
		return nil
	})
	g.Go(func() error {
		home.Mix = s.FetchMixContent(gctx)
		return nil
	})
	_ = g.Wait()
	return home
}

type published interface {
	PublishedTime() time.Time
}

// SortByPublished orders items newest first. The sort is stable and
// items without a known publication time go last.
func SortByPublished[T published](items []T) {
	slices.SortStableFunc(items, func(a, b T) int {
		ta, tb := a.PublishedTime(), b.PublishedTime()
		switch {
		case ta.IsZero() && tb.IsZero():
			return 0
		case ta.IsZero():
			return 1
		case tb.IsZero():
			return -1
		}
		return tb.Compare(ta)
	})
}

func logSkipped(feed string, skipped []Skipped) {
	for _, s := range skipped {
		logger.Warn().
			Str("feed", feed).
			Int("index", s.Index).
			Err(s.Err).
			Msg("Skipping malformed item")
	}
}
