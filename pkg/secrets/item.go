package secrets

// Proxy is a client-side handle representing one remote object. At most
// one live proxy exists per path while anything holds a reference to it;
// the Service's identity cache enforces this.
type Proxy interface {
	Path() ObjectPath
}

// Item is the proxy for one secret record. The label, attributes and lock
// state are a snapshot taken when the proxy was loaded; the path is the
// item's stable identity.
type Item struct {
	path   ObjectPath
	label  string
	attrs  Attributes
	locked bool
}

func newItem(path ObjectPath, info ItemInfo) *Item {
	return &Item{
		path:   path,
		label:  info.Label,
		attrs:  info.Attributes.clone(),
		locked: info.Locked,
	}
}

// Path returns the item's remote object path.
func (i *Item) Path() ObjectPath { return i.path }

// Label returns the item's human-readable label.
func (i *Item) Label() string { return i.label }

// Locked reports whether the item was locked when loaded.
func (i *Item) Locked() bool { return i.locked }

// Attributes returns a copy of the item's attribute map.
func (i *Item) Attributes() Attributes { return i.attrs.clone() }

// Collection is the proxy for a collection of items.
type Collection struct {
	path   ObjectPath
	label  string
	locked bool
}

func newCollection(path ObjectPath, info CollectionInfo) *Collection {
	return &Collection{
		path:   path,
		label:  info.Label,
		locked: info.Locked,
	}
}

// Path returns the collection's remote object path.
func (c *Collection) Path() ObjectPath { return c.path }

// Label returns the collection's human-readable label.
func (c *Collection) Label() string { return c.label }

// Locked reports whether the collection was locked when loaded.
func (c *Collection) Locked() bool { return c.locked }
