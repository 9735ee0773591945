package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bilgisen/spacecards/internal/config"
	"github.com/bilgisen/spacecards/internal/feed"
	"github.com/bilgisen/spacecards/internal/logger"
	"github.com/bilgisen/spacecards/internal/middleware"
	"github.com/bilgisen/spacecards/internal/models"
	"github.com/bilgisen/spacecards/internal/session"
	"github.com/gofiber/fiber/v2"
)

const version = "1.0.0"

// ContentService is the content fetch service as the handlers use it
type ContentService interface {
	FetchFlashcards(ctx context.Context) []models.Flashcard
	FetchMixContent(ctx context.Context) []models.MixContent
	FetchFlashcard(ctx context.Context, id string) (models.Flashcard, bool)
	FindMixItem(ctx context.Context, id string) (models.MixContent, bool)
	FetchAll(ctx context.Context) feed.Home
}

// Feed names used in session routes, mapped to their scroll keys
var scrollKeys = map[string]string{
	"feed": session.FeedScrollKey,
	"mix":  session.MixScrollKey,
}

// SearchQuery is the query of the list endpoints
type SearchQuery struct {
	Q string `query:"q" validate:"max=200"`
}

// ViewQuery is the query of the feed view endpoint
type ViewQuery struct {
	ViewportHeight int `query:"viewport_height" validate:"gte=0,lte=100000"`
}

// ViewportSignal reports that an item crossed the visibility threshold
type ViewportSignal struct {
	Index           *int     `json:"index" validate:"required,gte=0"`
	VisibleFraction *float64 `json:"visible_fraction" validate:"required,gte=0,lte=1"`
}

type Handlers struct {
	config  *config.Config
	content ContentService
	store   session.Store
}

func NewHandlers(cfg *config.Config, content ContentService, store session.Store) *Handlers {
	return &Handlers{
		config:  cfg,
		content: content,
		store:   store,
	}
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetCategories handles GET /api/v1/categories
func (h *Handlers) GetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": feed.Categories(),
	})
}

// GetFlashcards handles GET /api/v1/flashcards
func (h *Handlers) GetFlashcards(c *fiber.Ctx) error {
	q := middleware.Query[SearchQuery](c).Q
	cards := feed.Filter(h.content.FetchFlashcards(c.Context()), q)
	return c.JSON(listResponse(cards, q))
}

// GetFlashcard handles GET /api/v1/flashcards/:id
func (h *Handlers) GetFlashcard(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Post ID must be numeric",
		})
	}

	card, ok := h.content.FetchFlashcard(c.Context(), id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}
	return c.JSON(card)
}

// GetMix handles GET /api/v1/mix
func (h *Handlers) GetMix(c *fiber.Ctx) error {
	q := middleware.Query[SearchQuery](c).Q
	items := feed.Filter(h.content.FetchMixContent(c.Context()), q)
	return c.JSON(listResponse(items, q))
}

// GetMixItem handles GET /api/v1/mix/:id
func (h *Handlers) GetMixItem(c *fiber.Ctx) error {
	id := c.Params("id")
	item, ok := h.content.FindMixItem(c.Context(), id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Article not found",
		})
	}

	resp := fiber.Map{"item": item}
	if a, isArticle := item.(models.Article); isArticle {
		resp["paragraphs"] = a.Paragraphs()
	}
	return c.JSON(resp)
}

// GetHome handles GET /api/v1/home
func (h *Handlers) GetHome(c *fiber.Ctx) error {
	return c.JSON(h.content.FetchAll(c.Context()))
}

// GetFeedView handles GET /api/v1/feeds/:feed/view. It loads the feed and
// tells the client where to scroll to restore the session position.
func (h *Handlers) GetFeedView(c *fiber.Ctx) error {
	name := c.Params("feed")
	key, ok := scrollKeys[name]
	if !ok {
		return unknownFeed(c, name)
	}

	ctx := c.Context()
	vh := middleware.Query[ViewQuery](c).ViewportHeight
	state := session.NewState(ctx, h.store, session.Key(middleware.SessionID(c), key))

	var (
		resp fiber.Map
		err  error
	)
	switch name {
	case "mix":
		resp, err = loadView(ctx, state, h.content.FetchMixContent, vh)
	default:
		resp, err = loadView(ctx, state, h.content.FetchFlashcards, vh)
	}
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetSession handles GET /api/v1/sessions/:feed
func (h *Handlers) GetSession(c *fiber.Ctx) error {
	state, name, err := h.sessionState(c)
	if err != nil {
		return unknownFeed(c, name)
	}
	return c.JSON(fiber.Map{
		"feed":  name,
		"index": state.Index(),
	})
}

// PutSession handles PUT /api/v1/sessions/:feed
func (h *Handlers) PutSession(c *fiber.Ctx) error {
	state, name, err := h.sessionState(c)
	if err != nil {
		return unknownFeed(c, name)
	}

	signal := middleware.Body[ViewportSignal](c)
	changed, err := state.EnterViewport(c.Context(), *signal.Index, *signal.VisibleFraction)
	if err != nil {
		logger.Get().Error().
			Err(err).
			Str("feed", name).
			Msg("Error saving scroll index")
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}

	return c.JSON(fiber.Map{
		"feed":    name,
		"index":   state.Index(),
		"changed": changed,
	})
}

// DeleteSession handles DELETE /api/v1/sessions/:feed, sent when the
// client tears the feed view down.
func (h *Handlers) DeleteSession(c *fiber.Ctx) error {
	state, name, err := h.sessionState(c)
	if err != nil {
		return unknownFeed(c, name)
	}

	if err := state.Close(c.Context()); err != nil {
		logger.Get().Error().
			Err(err).
			Str("feed", name).
			Msg("Error saving scroll index on teardown")
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}

	return c.JSON(fiber.Map{
		"feed":  name,
		"index": state.Index(),
	})
}

var errUnknownFeed = errors.New("unknown feed")

func (h *Handlers) sessionState(c *fiber.Ctx) (*session.State, string, error) {
	name := c.Params("feed")
	key, ok := scrollKeys[name]
	if !ok {
		return nil, name, errUnknownFeed
	}
	return session.NewState(c.Context(), h.store, session.Key(middleware.SessionID(c), key)), name, nil
}

func unknownFeed(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Unknown feed: " + name,
	})
}

func listResponse[T any](items []T, query string) fiber.Map {
	return fiber.Map{
		"query": query,
		"total": len(items),
		"items": items,
	}
}

// loadView loads a feed into a fresh view. A request cancelled during the
// fetch tears the view down, and the late result is dropped.
func loadView[T any](ctx context.Context, state *session.State, fetch func(context.Context) []T, viewportHeight int) (fiber.Map, error) {
	view := session.NewView[T](state)
	loaded := view.Load(ctx, func(ctx context.Context) []T {
		items := fetch(ctx)
		if ctx.Err() != nil {
			if err := view.Close(context.WithoutCancel(ctx)); err != nil {
				logger.Warn().Err(err).Msg("Error saving scroll index on cancelled load")
			}
		}
		return items
	})
	if !loaded {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "view closed before content loaded")
	}

	items := view.Items()
	index := state.Index()
	if last := len(items) - 1; last >= 0 && index > last {
		index = last
	}

	resp := fiber.Map{
		"items":         items,
		"total":         len(items),
		"current_index": index,
		"restore":       false,
	}
	if offset, ok := view.RestoreOffset(viewportHeight); ok {
		resp["restore"] = true
		resp["scroll_offset"] = offset
	}
	return resp, nil
}
