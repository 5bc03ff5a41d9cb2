package dbusx

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/keyfold/keyfold/pkg/secrets"
)

// wireSecret is the (oayays) secret struct of the protocol.
type wireSecret struct {
	Session     dbus.ObjectPath
	Params      []byte
	Value       []byte
	ContentType string
}

func toWire(ws secrets.WireSecret) wireSecret {
	params := ws.Params
	if params == nil {
		params = []byte{}
	}
	return wireSecret{
		Session:     toDBusPath(ws.Session),
		Params:      params,
		Value:       ws.Data,
		ContentType: ws.ContentType,
	}
}

func fromWire(ws wireSecret) secrets.WireSecret {
	return secrets.WireSecret{
		Session:     secrets.ObjectPath(ws.Session),
		Params:      ws.Params,
		Data:        ws.Value,
		ContentType: ws.ContentType,
	}
}

// Transport implements secrets.Transport over a bus connection.
type Transport struct {
	conn *Conn
}

// NewTransport builds a Transport on conn.
func NewTransport(conn *Conn) *Transport {
	return &Transport{conn: conn}
}

// SearchItems calls Service.SearchItems.
func (t *Transport) SearchItems(ctx context.Context, attrs secrets.Attributes) (unlocked, locked []secrets.ObjectPath, err error) {
	var u, l []dbus.ObjectPath
	call := t.conn.service().CallWithContext(ctx, serviceIface+".SearchItems", 0, map[string]string(attrs))
	if err := call.Store(&u, &l); err != nil {
		return nil, nil, err
	}
	return fromDBusPaths(u), fromDBusPaths(l), nil
}

// Lock calls Service.Lock.
func (t *Transport) Lock(ctx context.Context, paths []secrets.ObjectPath) (locked []secrets.ObjectPath, prompt secrets.ObjectPath, err error) {
	return t.xlock(ctx, "Lock", paths)
}

// Unlock calls Service.Unlock.
func (t *Transport) Unlock(ctx context.Context, paths []secrets.ObjectPath) (unlocked []secrets.ObjectPath, prompt secrets.ObjectPath, err error) {
	return t.xlock(ctx, "Unlock", paths)
}

func (t *Transport) xlock(ctx context.Context, method string, paths []secrets.ObjectPath) ([]secrets.ObjectPath, secrets.ObjectPath, error) {
	var done []dbus.ObjectPath
	var prompt dbus.ObjectPath
	call := t.conn.service().CallWithContext(ctx, serviceIface+"."+method, 0, toDBusPaths(paths))
	if err := call.Store(&done, &prompt); err != nil {
		return nil, secrets.NoObject, err
	}
	return fromDBusPaths(done), secrets.ObjectPath(prompt), nil
}

// GetSecrets calls Service.GetSecrets for a batch of item paths.
func (t *Transport) GetSecrets(ctx context.Context, paths []secrets.ObjectPath, session secrets.ObjectPath) (map[secrets.ObjectPath]secrets.WireSecret, error) {
	var reply map[dbus.ObjectPath]wireSecret
	call := t.conn.service().CallWithContext(ctx, serviceIface+".GetSecrets", 0, toDBusPaths(paths), toDBusPath(session))
	if err := call.Store(&reply); err != nil {
		return nil, err
	}
	out := make(map[secrets.ObjectPath]secrets.WireSecret, len(reply))
	for p, ws := range reply {
		out[secrets.ObjectPath(p)] = fromWire(ws)
	}
	return out, nil
}

// CreateItem calls Collection.CreateItem on the target collection, or on
// the default-collection alias when none is given.
func (t *Transport) CreateItem(ctx context.Context, collection secrets.ObjectPath, label string, attrs secrets.Attributes, secret secrets.WireSecret, replace bool) (item, prompt secrets.ObjectPath, err error) {
	target := defaultCollectionPath
	if collection.IsSet() {
		target = dbus.ObjectPath(collection)
	}
	props := map[string]dbus.Variant{
		itemIface + ".Label":      dbus.MakeVariant(label),
		itemIface + ".Attributes": dbus.MakeVariant(map[string]string(attrs)),
	}
	var itemPath, promptPath dbus.ObjectPath
	call := t.conn.object(target).CallWithContext(ctx, collectionIface+".CreateItem", 0, props, toWire(secret), replace)
	if err := call.Store(&itemPath, &promptPath); err != nil {
		return secrets.NoObject, secrets.NoObject, err
	}
	return secrets.ObjectPath(itemPath), secrets.ObjectPath(promptPath), nil
}

// DeleteItem calls Item.Delete.
func (t *Transport) DeleteItem(ctx context.Context, item secrets.ObjectPath) (prompt secrets.ObjectPath, err error) {
	var promptPath dbus.ObjectPath
	call := t.conn.object(dbus.ObjectPath(item)).CallWithContext(ctx, itemIface+".Delete", 0)
	if err := call.Store(&promptPath); err != nil {
		return secrets.NoObject, err
	}
	return secrets.ObjectPath(promptPath), nil
}

// ReadAlias calls Service.ReadAlias.
func (t *Transport) ReadAlias(ctx context.Context, name string) (secrets.ObjectPath, error) {
	var path dbus.ObjectPath
	call := t.conn.service().CallWithContext(ctx, serviceIface+".ReadAlias", 0, name)
	if err := call.Store(&path); err != nil {
		return secrets.NoObject, err
	}
	return secrets.ObjectPath(path), nil
}

// SetAlias calls Service.SetAlias. An unset collection removes the alias.
func (t *Transport) SetAlias(ctx context.Context, name string, collection secrets.ObjectPath) error {
	return t.conn.service().CallWithContext(ctx, serviceIface+".SetAlias", 0, name, toDBusPath(collection)).Err
}

// ItemProperties fetches the Label, Attributes and Locked properties of an
// item in one GetAll round trip.
func (t *Transport) ItemProperties(ctx context.Context, item secrets.ObjectPath) (secrets.ItemInfo, error) {
	props, err := t.getAll(ctx, dbus.ObjectPath(item), itemIface)
	if err != nil {
		return secrets.ItemInfo{}, err
	}
	// GetAll replies are keyed by bare property name.
	info := secrets.ItemInfo{}
	if err := storeProp(props, "Label", &info.Label); err != nil {
		return secrets.ItemInfo{}, err
	}
	var attrs map[string]string
	if err := storeProp(props, "Attributes", &attrs); err != nil {
		return secrets.ItemInfo{}, err
	}
	info.Attributes = secrets.Attributes(attrs)
	if err := storeProp(props, "Locked", &info.Locked); err != nil {
		return secrets.ItemInfo{}, err
	}
	return info, nil
}

// CollectionProperties fetches the Label and Locked properties of a
// collection in one GetAll round trip.
func (t *Transport) CollectionProperties(ctx context.Context, collection secrets.ObjectPath) (secrets.CollectionInfo, error) {
	props, err := t.getAll(ctx, dbus.ObjectPath(collection), collectionIface)
	if err != nil {
		return secrets.CollectionInfo{}, err
	}
	info := secrets.CollectionInfo{}
	if err := storeProp(props, "Label", &info.Label); err != nil {
		return secrets.CollectionInfo{}, err
	}
	if err := storeProp(props, "Locked", &info.Locked); err != nil {
		return secrets.CollectionInfo{}, err
	}
	return info, nil
}

func (t *Transport) getAll(ctx context.Context, path dbus.ObjectPath, iface string) (map[string]dbus.Variant, error) {
	var props map[string]dbus.Variant
	call := t.conn.object(path).CallWithContext(ctx, "org.freedesktop.DBus.Properties.GetAll", 0, iface)
	if err := call.Store(&props); err != nil {
		return nil, err
	}
	return props, nil
}

func storeProp(props map[string]dbus.Variant, name string, dst interface{}) error {
	v, ok := props[name]
	if !ok {
		return fmt.Errorf("property %s missing from reply", name)
	}
	if err := v.Store(dst); err != nil {
		return fmt.Errorf("property %s: %w", name, err)
	}
	return nil
}
