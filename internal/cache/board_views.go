// Package cache keeps aggregated board views in Redis so repeated board loads
// skip the list and card queries.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/monocle-dev/taskboard/internal/services"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const DefaultTTL = 5 * time.Minute

// BoardViews is a services.ViewCache backed by Redis. A nil client disables
// caching. Redis failures are logged and reported as misses.
//
// Every board has a generation counter that Evict increments. Views are keyed
// by board and generation, so a view assembled before an eviction lands under
// a generation nobody reads anymore and simply expires.
type BoardViews struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

var _ services.ViewCache = (*BoardViews)(nil)

// NewBoardViews returns a cache whose entries live for ttl. A non-positive
// ttl uses DefaultTTL; entries always expire.
func NewBoardViews(client *redis.Client, ttl time.Duration, logger *log.Logger) *BoardViews {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &BoardViews{redis: client, ttl: ttl, logger: logger}
}

func boardGenerationKey(boardID string) string {
	return "board:gen:" + boardID
}

func boardViewKey(boardID string, generation int64) string {
	return "board:view:" + boardID + ":" + strconv.FormatInt(generation, 10)
}

func (c *BoardViews) enabled() bool {
	return c != nil && c.redis != nil
}

func (c *BoardViews) generation(ctx context.Context, boardID string) (int64, error) {
	gen, err := c.redis.Get(ctx, boardGenerationKey(boardID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *BoardViews) Load(ctx context.Context, boardID string) (*services.BoardView, int64, bool) {
	if !c.enabled() {
		return nil, -1, false
	}

	gen, err := c.generation(ctx, boardID)
	if err != nil {
		c.logger.WithError(err).WithField("board_id", boardID).Warn("board view cache read failed")
		return nil, -1, false
	}

	key := boardViewKey(boardID, gen)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).WithField("board_id", boardID).Warn("board view cache read failed")
			return nil, -1, false
		}
		return nil, gen, false
	}

	var view services.BoardView
	if err := json.Unmarshal(data, &view); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return nil, gen, false
	}
	return &view, gen, true
}

func (c *BoardViews) Store(ctx context.Context, view *services.BoardView, generation int64) {
	if !c.enabled() || view == nil || generation < 0 {
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, boardViewKey(view.ID, generation), data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("board_id", view.ID).Warn("board view cache write failed")
	}
}

func (c *BoardViews) Evict(ctx context.Context, boardID string) {
	if !c.enabled() {
		return
	}

	gen, err := c.redis.Incr(ctx, boardGenerationKey(boardID)).Result()
	if err != nil {
		c.logger.WithError(err).WithField("board_id", boardID).Warn("board view cache evict failed")
		return
	}
	// Unreachable now; drop it instead of waiting for the TTL.
	_ = c.redis.Del(ctx, boardViewKey(boardID, gen-1)).Err()
}
