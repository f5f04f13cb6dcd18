// Package decode turns a raw event's positional argument list into a
// named, typed property bag for a known class. Decoding is pure: it never
// touches the store, and reference resolution is left to the validator.
package decode

import (
	"fmt"

	"github.com/meshgraph/loom/pkg/types"
)

// Decode maps a fixed-order list of raw argument values onto the given
// class layout. Absent slots are skipped, so a sparse list expresses a
// partial update. More values than layout slots is invalid data; scalar
// values are coerced to string, int64, or bool per the slot type.
func Decode(class types.KnownClass, layout []types.PropertyDef, values []types.RawValue) (*types.Bag, error) {
	if len(values) > len(layout) {
		return nil, fmt.Errorf("class %s: %d values for %d properties: %w",
			class, len(values), len(layout), types.ErrInvalidData)
	}

	bag := &types.Bag{
		Class:  class,
		Values: make(map[string]any),
		Refs:   make(map[string]types.Reference),
	}

	for i, raw := range values {
		if raw.Absent() {
			continue
		}
		def := layout[i]

		if def.Type == types.PropertyReference {
			if raw.Ref == nil {
				return nil, fmt.Errorf("class %s property %q: scalar value in reference slot: %w",
					class, def.Name, types.ErrInvalidData)
			}
			bag.Refs[def.Name] = types.Reference{
				Target:   raw.Ref.Target,
				Existing: raw.Ref.Existing,
			}
			continue
		}

		if raw.Ref != nil {
			return nil, fmt.Errorf("class %s property %q: reference value in %s slot: %w",
				class, def.Name, def.Type, types.ErrInvalidData)
		}
		v, err := coerce(def.Type, raw.Value)
		if err != nil {
			return nil, fmt.Errorf("class %s property %q: %w", class, def.Name, err)
		}
		bag.Values[def.Name] = v
	}

	return bag, nil
}

// coerce converts a raw scalar to the slot's Go representation. JSON
// decoding hands integers over as float64; both are accepted.
func coerce(propType string, v any) (any, error) {
	switch propType {
	case types.PropertyText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected text, got %T: %w", v, types.ErrInvalidData)
		}
		return s, nil
	case types.PropertyInteger:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case float64:
			return int64(n), nil
		}
		return nil, fmt.Errorf("expected integer, got %T: %w", v, types.ErrInvalidData)
	case types.PropertyBoolean:
		t, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T: %w", v, types.ErrInvalidData)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported property type %q: %w", propType, types.ErrInvalidData)
	}
}
