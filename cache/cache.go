package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const keyPrefix = "projects"

// KeyTechnologies caches the distinct technology list.
const KeyTechnologies = keyPrefix + ":technologies"

// ListKey builds the cache key for a filtered project listing. An empty tech
// filter keys under "all" so the unfiltered listing has a stable key.
func ListKey(tech string, limit int) string {
	if tech == "" {
		tech = "all"
	}
	return fmt.Sprintf("%s:list:%s:%d", keyPrefix, strings.ToLower(tech), limit)
}

// DetailKey builds the cache key for a single project lookup.
func DetailKey(id string) string {
	return fmt.Sprintf("%s:detail:%s", keyPrefix, id)
}

// Store is the read-through surface handlers use.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Invalidator flushes every project read key. The persistence layer calls it
// after each successful mutation, and the mutation does not count as complete
// until invalidation returns.
type Invalidator interface {
	InvalidateProjects() error
}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateProjects() error {
	return nil
}

// NewNopInvalidator returns an Invalidator that does nothing, for tests and
// cache-less setups.
func NewNopInvalidator() Invalidator {
	return nopInvalidator{}
}
