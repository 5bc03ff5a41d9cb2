package secrets

import "weak"

// identityCache keeps at most one live proxy per object path. Entries are
// weak: the cache never keeps a proxy alive on its own, so an entry ages
// out once the last owner drops its reference, with no unregister call.
//
// The cache is confined to the Service's dispatch goroutine; concurrent
// loads of the same path are resolved at registration time, where the
// first live instance wins and later loaders discard theirs.
type identityCache struct {
	items       map[ObjectPath]weak.Pointer[Item]
	collections map[ObjectPath]weak.Pointer[Collection]
}

func newIdentityCache() *identityCache {
	return &identityCache{
		items:       make(map[ObjectPath]weak.Pointer[Item]),
		collections: make(map[ObjectPath]weak.Pointer[Collection]),
	}
}

// item returns the live proxy for path, or nil. Dead entries are pruned on
// the way.
func (c *identityCache) item(path ObjectPath) *Item {
	ref, ok := c.items[path]
	if !ok {
		return nil
	}
	it := ref.Value()
	if it == nil {
		delete(c.items, path)
	}
	return it
}

// registerItem records it under path unless a live instance already
// exists, in which case the existing one is returned and the caller must
// use it instead of the instance it just loaded.
func (c *identityCache) registerItem(path ObjectPath, it *Item) *Item {
	if live := c.item(path); live != nil {
		return live
	}
	c.items[path] = weak.Make(it)
	return it
}

func (c *identityCache) collection(path ObjectPath) *Collection {
	ref, ok := c.collections[path]
	if !ok {
		return nil
	}
	col := ref.Value()
	if col == nil {
		delete(c.collections, path)
	}
	return col
}

func (c *identityCache) registerCollection(path ObjectPath, col *Collection) *Collection {
	if live := c.collection(path); live != nil {
		return live
	}
	c.collections[path] = weak.Make(col)
	return col
}
