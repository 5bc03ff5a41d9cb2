package secrets

// ObjectPath identifies an item, collection, session or prompt inside the
// secret service. Paths are opaque join keys; the engine never parses them
// beyond the IsSet check.
type ObjectPath string

// NoObject is the well-known path the service uses to mean "no object
// here". The protocol signals absence with this path rather than omitting
// the field: a reply carrying NoObject as its prompt means no confirmation
// is needed, and an alias resolving to NoObject has no collection.
const NoObject ObjectPath = "/"

// Well-known collection aliases.
const (
	// DefaultCollection is the alias of the collection secrets are stored
	// in when no target is given.
	DefaultCollection = "default"

	// SessionCollection is the alias of the collection that is discarded
	// when the login session ends.
	SessionCollection = "session"
)

// IsSet reports whether p names an actual object. The empty string is
// treated the same as NoObject so lenient peers decode safely.
func (p ObjectPath) IsSet() bool {
	return p != "" && p != NoObject
}
