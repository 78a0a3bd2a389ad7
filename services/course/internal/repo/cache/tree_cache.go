package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnhub/pkg/logger"
	"learnhub/services/course/internal/entity"

	"github.com/redis/go-redis/v9"
)

const TreeTTL = 10 * time.Minute

// TreeCache keeps rendered course trees in Redis. A nil client turns every
// call into a miss.
type TreeCache interface {
	Get(ctx context.Context, courseID string) (*entity.CourseTree, bool)
	Set(ctx context.Context, tree *entity.CourseTree)
	Invalidate(ctx context.Context, courseID string)
}

type treeCache struct {
	client redis.Cmdable
	logger *logger.Logger
}

func NewTreeCache(client redis.Cmdable, log *logger.Logger) TreeCache {
	return &treeCache{client: client, logger: log}
}

func TreeKey(courseID string) string {
	return fmt.Sprintf("course:tree:%s", courseID)
}

func (c *treeCache) Get(ctx context.Context, courseID string) (*entity.CourseTree, bool) {
	if c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, TreeKey(courseID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("[TREE CACHE] get %s: %v", courseID, err)
		}
		return nil, false
	}

	var tree entity.CourseTree
	if err := json.Unmarshal(raw, &tree); err != nil {
		c.logger.Warn("[TREE CACHE] corrupt entry for %s: %v", courseID, err)
		return nil, false
	}
	return &tree, true
}

func (c *treeCache) Set(ctx context.Context, tree *entity.CourseTree) {
	if c.client == nil || tree == nil || tree.Course == nil {
		return
	}

	raw, err := json.Marshal(tree)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, TreeKey(tree.Course.ID), raw, TreeTTL).Err(); err != nil {
		c.logger.Warn("[TREE CACHE] set %s: %v", tree.Course.ID, err)
	}
}

func (c *treeCache) Invalidate(ctx context.Context, courseID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, TreeKey(courseID)).Err(); err != nil {
		c.logger.Warn("[TREE CACHE] invalidate %s: %v", courseID, err)
	}
}
