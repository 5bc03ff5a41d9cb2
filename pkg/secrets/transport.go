package secrets

import "context"

// WireSecret is the transfer form of a secret payload: ciphertext (or
// plaintext, for plain sessions) plus the session that can decode it. Only
// the SessionCodec interprets Params and Data.
type WireSecret struct {
	Session     ObjectPath
	Params      []byte
	Data        []byte
	ContentType string
}

// ItemInfo is the property snapshot fetched when an item proxy is loaded.
type ItemInfo struct {
	Label      string
	Attributes Attributes
	Locked     bool
}

// CollectionInfo is the property snapshot fetched when a collection proxy
// is loaded.
type CollectionInfo struct {
	Label  string
	Locked bool
}

// Transport issues individual remote calls against the service. One method
// per call the orchestration engine needs; marshaling and the wire
// protocol are entirely the transport's concern.
//
// Calls may block; the engine always invokes them off its dispatch
// goroutine and expects them to honor context cancellation. Calls that can
// require interactive confirmation return a prompt path; NoObject (or "")
// means none is needed.
type Transport interface {
	// SearchItems returns the paths of all items matching attrs, split
	// into those currently unlocked and those locked.
	SearchItems(ctx context.Context, attrs Attributes) (unlocked, locked []ObjectPath, err error)

	// Lock asks the service to lock the given items or collections. The
	// returned list holds the paths already locked without confirmation.
	Lock(ctx context.Context, paths []ObjectPath) (locked []ObjectPath, prompt ObjectPath, err error)

	// Unlock is the inverse of Lock.
	Unlock(ctx context.Context, paths []ObjectPath) (unlocked []ObjectPath, prompt ObjectPath, err error)

	// GetSecrets fetches the wire-form secrets for the given item paths in
	// one batch. Locked items are absent from the reply, not an error.
	GetSecrets(ctx context.Context, paths []ObjectPath, session ObjectPath) (map[ObjectPath]WireSecret, error)

	// CreateItem creates or replaces an item in the collection. An unset
	// collection path targets the service's default collection.
	CreateItem(ctx context.Context, collection ObjectPath, label string, attrs Attributes, secret WireSecret, replace bool) (item, prompt ObjectPath, err error)

	// DeleteItem removes one item.
	DeleteItem(ctx context.Context, item ObjectPath) (prompt ObjectPath, err error)

	// ReadAlias resolves a collection alias. NoObject means the alias has
	// no assigned collection; that is not an error.
	ReadAlias(ctx context.Context, name string) (ObjectPath, error)

	// SetAlias assigns a collection to an alias. An unset collection path
	// removes the alias.
	SetAlias(ctx context.Context, name string, collection ObjectPath) error

	// ItemProperties fetches the snapshot backing an item proxy.
	ItemProperties(ctx context.Context, item ObjectPath) (ItemInfo, error)

	// CollectionProperties fetches the snapshot backing a collection proxy.
	CollectionProperties(ctx context.Context, collection ObjectPath) (CollectionInfo, error)
}
