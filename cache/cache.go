package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// The cache holds large read-only objects that are expensive to build and
// safe to share between searches, such as precomputed evaluation tables.
// Objects are built on first request and never evicted.

type cache struct {
	sync.Mutex
	objects map[string]any
}

// LoadFunc builds the object stored under key.
type LoadFunc func(key string) (any, error)

// GlobalObjectCache is the process-wide object cache.
var GlobalObjectCache *cache

var createOnce sync.Once

func (c *cache) load(key string, loadFunc LoadFunc) (any, error) {
	log.Debug().Str("key", key).Msg("loading into cache")

	obj, err := loadFunc(key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *cache) get(key string, loadFunc LoadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	return c.load(key, loadFunc)
}

func (c *cache) len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

func CreateGlobalObjectCache() {
	GlobalObjectCache = &cache{objects: make(map[string]any)}
}

// Load returns the object stored under key, building it with loadFunc if
// it is not cached yet. Failed loads are not cached.
func Load(key string, loadFunc LoadFunc) (any, error) {
	createOnce.Do(func() {
		if GlobalObjectCache == nil {
			CreateGlobalObjectCache()
		}
	})
	return GlobalObjectCache.get(key, loadFunc)
}

// Len returns the number of cached objects.
func Len() int {
	createOnce.Do(func() {
		if GlobalObjectCache == nil {
			CreateGlobalObjectCache()
		}
	})
	return GlobalObjectCache.len()
}
