package secrets

// AttrSchema is the attribute under which a schema name is stored with an
// item, so that lookups with the same schema only match records stored
// through it.
const AttrSchema = "xdg:schema"

// Attributes describes a secret record as string key/value pairs. Keys are
// unique within one map; ordering is irrelevant. Attributes are the
// search, lookup, store and remove key.
type Attributes map[string]string

func (a Attributes) clone() Attributes {
	out := make(Attributes, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// AttributeType constrains the string encoding of one attribute value.
type AttributeType int

const (
	// AttributeString places no constraint on the value.
	AttributeString AttributeType = iota

	// AttributeInteger requires a decimal integer string.
	AttributeInteger

	// AttributeBoolean requires "true" or "false".
	AttributeBoolean
)

// Schema names a set of typed attributes. When a schema is passed to
// store, lookup, search or remove, the attribute map is validated against
// it locally before any remote call, and the schema name is injected into
// the attributes sent to the service under AttrSchema unless DontMatchName
// is set.
type Schema struct {
	// Name is the dotted schema identifier, e.g. "org.example.Password".
	Name string

	// Attributes maps allowed attribute names to their value types.
	Attributes map[string]AttributeType

	// DontMatchName omits the schema name from match attributes. Needed
	// for records stored by tools that never set AttrSchema.
	DontMatchName bool
}

// matchAttributes returns the attributes actually sent to the service: a
// copy of attrs carrying the schema name, unless the schema opts out.
func matchAttributes(sc *Schema, attrs Attributes) Attributes {
	out := attrs.clone()
	if sc != nil && sc.Name != "" && !sc.DontMatchName {
		out[AttrSchema] = sc.Name
	}
	return out
}

// AttributeValidator is the schema validation collaborator. Validate
// returns nil when attrs conforms to sc; any error aborts the requesting
// operation before a remote call is made.
type AttributeValidator interface {
	Validate(sc *Schema, attrs Attributes) error
}
