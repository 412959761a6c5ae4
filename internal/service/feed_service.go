package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/starbite-api/internal/cache"
	"github.com/spec-kit/starbite-api/internal/domain"
	"github.com/spec-kit/starbite-api/internal/events"
	"github.com/spec-kit/starbite-api/internal/repository"
	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

const (
	homeFeedKey        = "feed:home"
	homeFeedVersionKey = "feed:home:gen"
	homeFeedSize       = 5
)

// homeFeedEntry is the cache key of the feed built at generation gen.
func homeFeedEntry(gen int64) string {
	return homeFeedKey + ":" + strconv.FormatInt(gen, 10)
}

// FeedCacheObserver receives cache hit/miss notifications.
type FeedCacheObserver interface {
	RecordFeedCache(result string)
}

// FeedService builds the home feed and keeps its cached copy fresh.
type FeedService struct {
	restaurants repository.RestaurantRepository
	reviews     repository.ReviewRepository
	cache       cache.Cache
	ttl         time.Duration
	observer    FeedCacheObserver
	logger      *zap.Logger
}

// NewFeedService creates the service. cache may be nil to disable caching.
func NewFeedService(
	restaurants repository.RestaurantRepository,
	reviews repository.ReviewRepository,
	feedCache cache.Cache,
	ttl time.Duration,
	observer FeedCacheObserver,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		restaurants: restaurants,
		reviews:     reviews,
		cache:       feedCache,
		ttl:         ttl,
		observer:    observer,
		logger:      logger,
	}
}

// Home returns the latest reviews and restaurants, served from cache when possible.
// The feed is stored under the generation read before the rebuild; invalidation
// bumps the generation.
func (f *FeedService) Home(ctx context.Context) (*domain.HomeFeed, error) {
	gen, cacheable := f.generation(ctx)
	if cacheable {
		var cached domain.HomeFeed
		err := f.cache.Get(ctx, homeFeedEntry(gen), &cached)
		switch {
		case err == nil:
			f.record("hit")
			return &cached, nil
		case errors.Is(err, cache.ErrCacheMiss):
			f.record("miss")
		default:
			f.record("error")
			f.logger.Warn("home feed cache read failed", zap.Error(err))
		}
	}

	reviews, err := f.reviews.ListRecent(ctx, homeFeedSize)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	restaurants, err := f.restaurants.ListRecent(ctx, homeFeedSize)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	feed := &domain.HomeFeed{Reviews: reviews, Restaurants: restaurants}

	if cacheable {
		if err := f.cache.Set(ctx, homeFeedEntry(gen), feed, f.ttl); err != nil {
			f.logger.Warn("home feed cache write failed", zap.Error(err))
		}
	}
	return feed, nil
}

func (f *FeedService) generation(ctx context.Context) (int64, bool) {
	if f.cache == nil || f.ttl <= 0 {
		return 0, false
	}
	gen, err := f.cache.Version(ctx, homeFeedVersionKey)
	if err != nil {
		f.record("error")
		f.logger.Warn("home feed cache read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

// RegisterHandlers subscribes cache invalidation to content events.
func (f *FeedService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventRestaurantCreated, f.invalidate)
	dispatcher.Subscribe(events.EventReviewCreated, f.invalidate)
	dispatcher.Subscribe(events.EventReviewUpdated, f.invalidate)
}

func (f *FeedService) invalidate(ctx context.Context, event events.Event) error {
	if f.cache == nil {
		return nil
	}
	f.logger.Debug("invalidating home feed",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
	gen, err := f.cache.Bump(ctx, homeFeedVersionKey)
	if err != nil {
		return err
	}
	return f.cache.Delete(ctx, homeFeedEntry(gen-1))
}

func (f *FeedService) record(result string) {
	if f.observer != nil {
		f.observer.RecordFeedCache(result)
	}
}
