package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"vsdc.GO/config"
	"vsdc.GO/core/relay"
	"vsdc.GO/core/vsdc"
	activityRepo "vsdc.GO/model/repository/activity"
	checkpointRepo "vsdc.GO/model/repository/checkpoint"
	feedsRepo "vsdc.GO/model/repository/feeds"
	referenceRepo "vsdc.GO/model/repository/reference"
)

// ErrSyncInProgress is returned when a sync cycle is requested while one is
// already running. The request is not queued; the caller decides.
var ErrSyncInProgress = errors.New("sync already in progress")

// comprehensiveStart is the fixed lower bound for a full-history re-pull.
const comprehensiveStart = "20240101000000"

// staleAfter is the checkpoint age that makes a routine sync necessary.
const staleAfter = 24 * time.Hour

// pageDelay spaces successive feed requests during multi-day pulls.
const pageDelay = 100 * time.Millisecond

// Engine owns the reference and foreign feed synchronization. All run state
// lives on the struct behind the mutex: at most one cycle runs at a time,
// and a failed cycle leaves a pending flag for the retry schedule to find.
type Engine struct {
	client      *vsdc.Client
	checkpoints *checkpointRepo.CheckpointRepository
	refs        *referenceRepo.ReferenceRepository
	feeds       *feedsRepo.FeedsRepository
	activity    *activityRepo.ActivityRepository

	mu      sync.Mutex
	syncing bool
	pending bool
}

func NewEngine(client *vsdc.Client, checkpoints *checkpointRepo.CheckpointRepository,
	refs *referenceRepo.ReferenceRepository, feeds *feedsRepo.FeedsRepository,
	activity *activityRepo.ActivityRepository) *Engine {
	return &Engine{client: client, checkpoints: checkpoints, refs: refs, feeds: feeds, activity: activity}
}

func (e *Engine) app() *config.App {
	return config.GetApp()
}

func (e *Engine) record(kind, detail string) {
	log.Printf("sync: %s: %s", kind, detail)
	if err := e.activity.Append(kind, detail); err != nil {
		log.Printf("activity log write failed: %v", err)
	}
	relay.Publish(kind, detail)
}

// begin claims the single sync slot.
func (e *Engine) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.syncing {
		return false
	}
	e.syncing = true
	return true
}

func (e *Engine) finish() {
	e.mu.Lock()
	e.syncing = false
	e.mu.Unlock()
}

func (e *Engine) Syncing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncing
}

func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

func (e *Engine) setPending(v bool) {
	e.mu.Lock()
	e.pending = v
	e.mu.Unlock()
}

// syncFeedOnce runs one request cycle for one reference feed and returns the
// advanced watermark. Rows present: the service's resultDt becomes the next
// watermark. Empty page: skip to the next calendar day. Any failure leaves
// the watermark untouched.
func (e *Engine) syncFeedOnce(ctx context.Context, feed referenceFeed, lastReqDt string) (string, bool) {
	e.record(relay.KindSyncAttempt, "fetching "+feed.name)

	res, err := e.pull(ctx, feed.path, lastReqDt)
	if err != nil {
		e.record(relay.KindSyncError, fmt.Sprintf("%s fetch error: %v", feed.name, err))
		return lastReqDt, false
	}
	if !res.OK() {
		e.record(relay.KindSyncError, fmt.Sprintf("%s fetch rejected: %s", feed.name, res.ResultMsg))
		return lastReqDt, false
	}
	count, err := feed.persist(e, res.Data)
	if err != nil {
		e.record(relay.KindSyncError, fmt.Sprintf("%s persist error: %v", feed.name, err))
		return lastReqDt, false
	}
	if count > 0 {
		e.record(relay.KindSyncProgress, fmt.Sprintf("saved %d %s rows", count, feed.name))
		if res.ResultDt != "" {
			return res.ResultDt, true
		}
	}
	return vsdc.NextDay(lastReqDt), true
}

// SyncCodes runs one sync cycle for the three reference feeds in parallel.
// Feeds already caught up to today are skipped. A feed failure marks the
// cycle pending but never blocks the other feeds.
func (e *Engine) SyncCodes(ctx context.Context) error {
	if !e.begin() {
		return ErrSyncInProgress
	}
	defer e.finish()

	today := vsdc.Today()
	e.record(relay.KindSyncStart, "syncing up to "+today)

	failed := make([]bool, len(referenceFeeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, feed := range referenceFeeds {
		i, feed := i, feed
		g.Go(func() error {
			last, err := e.checkpoints.Get(feed.name)
			if err != nil {
				e.record(relay.KindSyncError, fmt.Sprintf("%s checkpoint read: %v", feed.name, err))
				failed[i] = true
				return nil
			}
			if last >= today {
				return nil
			}
			next, ok := e.syncFeedOnce(ctx, feed, last)
			if !ok {
				failed[i] = true
			}
			if next != last {
				if err := e.checkpoints.Set(feed.name, next); err != nil {
					e.record(relay.KindSyncError, fmt.Sprintf("%s checkpoint write: %v", feed.name, err))
					failed[i] = true
				}
			}
			return nil
		})
	}
	g.Wait()

	anyFailed := false
	for _, f := range failed {
		anyFailed = anyFailed || f
	}
	e.setPending(anyFailed)
	e.record(relay.KindSyncUpdate, "sync cycle completed")
	return nil
}

// CheckAndSync decides whether a routine sync is due: any feed checkpoint
// older than 24 hours, or a pending failure. The service must also answer
// its liveness probe, otherwise the cycle is skipped and retried later.
func (e *Engine) CheckAndSync(ctx context.Context) error {
	e.record(relay.KindSyncCheck, "starting sync check")

	needed := e.Pending()
	if !needed {
		for _, feed := range referenceFeeds {
			last, err := e.checkpoints.Get(feed.name)
			if err != nil || vsdc.OlderThan(last, staleAfter) {
				needed = true
				break
			}
		}
	}
	if !needed {
		e.record(relay.KindSyncSkipped, "all feeds current")
		return nil
	}
	if !e.client.CheckAvailability(ctx) {
		e.record(relay.KindSyncSkipped, "service unavailable")
		return nil
	}
	e.record(relay.KindSyncRequired, "sync required")
	return e.SyncCodes(ctx)
}

// RetryIfPending re-runs the cycle after a failure, once the service answers
// its liveness probe again.
func (e *Engine) RetryIfPending(ctx context.Context) error {
	if !e.Pending() {
		return nil
	}
	e.record(relay.KindSyncCheck, "checking service for pending sync")
	if !e.client.CheckAvailability(ctx) {
		return nil
	}
	e.record(relay.KindSyncRetry, "retrying sync")
	return e.SyncCodes(ctx)
}

// ComprehensiveSync re-pulls all three reference feeds day by day over the
// full history window, deduplicating before and after, then jumps every
// checkpoint to today. A failed day is logged and skipped; the pull
// continues with the next day.
func (e *Engine) ComprehensiveSync(ctx context.Context) error {
	if !e.begin() {
		return ErrSyncInProgress
	}
	defer e.finish()

	today := vsdc.Today()
	e.record(relay.KindSyncStart, fmt.Sprintf("comprehensive sync from %s to %s", comprehensiveStart, today))

	if removed, err := e.refs.DedupeAll(); err != nil {
		e.record(relay.KindCleanupError, fmt.Sprintf("duplicate removal failed: %v", err))
	} else if removed > 0 {
		e.record(relay.KindCleanup, fmt.Sprintf("removed %d duplicate rows", removed))
	}

	totals := make(map[string]int, len(referenceFeeds))
	for cursor := comprehensiveStart; cursor < today; cursor = vsdc.NextDay(cursor) {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.record(relay.KindSyncProgress, "processing date "+cursor)
		for _, feed := range referenceFeeds {
			res, err := e.pull(ctx, feed.path, cursor)
			if err != nil {
				e.record(relay.KindSyncError, fmt.Sprintf("%s fetch error for %s: %v", feed.name, cursor, err))
				continue
			}
			if !res.OK() {
				continue
			}
			n, err := feed.persist(e, res.Data)
			if err != nil {
				e.record(relay.KindSyncError, fmt.Sprintf("%s persist error for %s: %v", feed.name, cursor, err))
				continue
			}
			totals[feed.name] += n
		}
		if err := sleep(ctx, pageDelay); err != nil {
			return err
		}
	}

	if removed, err := e.refs.DedupeAll(); err != nil {
		e.record(relay.KindCleanupError, fmt.Sprintf("duplicate removal failed: %v", err))
	} else if removed > 0 {
		e.record(relay.KindCleanup, fmt.Sprintf("removed %d duplicate rows", removed))
	}

	for _, feed := range referenceFeeds {
		if err := e.checkpoints.Set(feed.name, today); err != nil {
			return fmt.Errorf("advance %s checkpoint: %w", feed.name, err)
		}
	}

	e.record(relay.KindSyncComplete, fmt.Sprintf(
		"comprehensive sync completed: StandardCodes=%d ItemClassCodes=%d Notices=%d",
		totals[checkpointRepo.FeedStandardCodes], totals[checkpointRepo.FeedItemClassCodes], totals[checkpointRepo.FeedNotices]))
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
