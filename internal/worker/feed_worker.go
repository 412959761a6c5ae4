package worker

import (
	"github.com/spec-kit/starbite-api/internal/events"
	"github.com/spec-kit/starbite-api/internal/service"
)

// StartFeedWorker registers the home feed invalidation handlers.
func StartFeedWorker(feed *service.FeedService, dispatcher events.Dispatcher) {
	if feed == nil {
		return
	}
	feed.RegisterHandlers(dispatcher)
}
