// Package schema validates attribute maps against keyfold schemas.
//
// A secrets.Schema is compiled into a JSON Schema document — attribute
// values travel as strings, so typed attributes become string patterns —
// and the attribute map is checked against it with gojsonschema. This
// runs locally, before any remote call.
package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/keyfold/keyfold/pkg/secrets"
)

const (
	integerPattern = `^-?[0-9]+$`
	booleanPattern = `^(true|false)$`
)

// Validator implements secrets.AttributeValidator. Compiled schema
// documents are cached by schema name.
type Validator struct {
	mu       sync.Mutex
	compiled map[string]*gojsonschema.Schema
}

// New creates a Validator.
func New() *Validator {
	return &Validator{compiled: make(map[string]*gojsonschema.Schema)}
}

// Validate checks attrs against sc. A nil schema accepts anything.
func (v *Validator) Validate(sc *secrets.Schema, attrs secrets.Attributes) error {
	if sc == nil {
		return nil
	}
	js, err := v.schemaFor(sc)
	if err != nil {
		return err
	}

	doc := make(map[string]interface{}, len(attrs))
	for k, val := range attrs {
		doc[k] = val
	}
	result, err := js.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema %q: %w", sc.Name, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%w: schema %q: %s",
		secrets.ErrValidationFailed, sc.Name, strings.Join(msgs, "; "))
}

func (v *Validator) schemaFor(sc *secrets.Schema) (*gojsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if js, ok := v.compiled[sc.Name]; ok && sc.Name != "" {
		return js, nil
	}
	js, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(buildDocument(sc)))
	if err != nil {
		return nil, fmt.Errorf("schema %q does not compile: %w", sc.Name, err)
	}
	if sc.Name != "" {
		v.compiled[sc.Name] = js
	}
	return js, nil
}

// buildDocument translates a keyfold schema into a JSON Schema document.
// Attributes not named by the schema are rejected; attributes the schema
// names but the map omits are allowed, matching lookup-by-subset usage.
func buildDocument(sc *secrets.Schema) map[string]interface{} {
	props := make(map[string]interface{}, len(sc.Attributes))
	for name, typ := range sc.Attributes {
		p := map[string]interface{}{"type": "string"}
		switch typ {
		case secrets.AttributeInteger:
			p["pattern"] = integerPattern
		case secrets.AttributeBoolean:
			p["pattern"] = booleanPattern
		}
		props[name] = p
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}
