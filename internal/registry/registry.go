// Package registry maps ledger class identifiers to known class names and
// supplies the fixed per-class property layouts the decoder positions raw
// values against. Class resolution for persisted entities goes through the
// store's class-entity index; batch-local resolution uses the batch's own
// creation records and never touches the store.
package registry

import (
	"fmt"

	"github.com/meshgraph/loom/pkg/types"
)

// classNames maps ledger class ids to known class names. Ids outside this
// table are invisible to the materializer.
var classNames = map[uint32]types.KnownClass{
	1: types.ClassChannel,
	2: types.ClassCategory,
	3: types.ClassVideo,
	4: types.ClassVideoMedia,
	5: types.ClassLicense,
	6: types.ClassMediaLocation,
	7: types.ClassLanguage,
	8: types.ClassFeaturedVideo,
}

// layouts holds the ordered property layout of every known class. Raw
// argument values are positional against these slots.
var layouts = map[types.KnownClass][]types.PropertyDef{
	types.ClassChannel: {
		{Name: "handle", Type: types.PropertyText},
		{Name: "description", Type: types.PropertyText},
		{Name: "coverPhotoUrl", Type: types.PropertyText},
		{Name: "avatarPhotoUrl", Type: types.PropertyText},
		{Name: "isPublic", Type: types.PropertyBoolean},
		{Name: "isCurated", Type: types.PropertyBoolean},
		{Name: "language", Type: types.PropertyReference, Target: types.ClassLanguage},
	},
	types.ClassCategory: {
		{Name: "name", Type: types.PropertyText},
		{Name: "description", Type: types.PropertyText},
	},
	types.ClassVideo: {
		{Name: "channel", Type: types.PropertyReference, Target: types.ClassChannel},
		{Name: "category", Type: types.PropertyReference, Target: types.ClassCategory},
		{Name: "title", Type: types.PropertyText},
		{Name: "description", Type: types.PropertyText},
		{Name: "duration", Type: types.PropertyInteger},
		{Name: "thumbnailUrl", Type: types.PropertyText},
		{Name: "language", Type: types.PropertyReference, Target: types.ClassLanguage},
		{Name: "media", Type: types.PropertyReference, Target: types.ClassVideoMedia},
		{Name: "license", Type: types.PropertyReference, Target: types.ClassLicense},
		{Name: "isPublic", Type: types.PropertyBoolean},
		{Name: "isExplicit", Type: types.PropertyBoolean},
		{Name: "isCurated", Type: types.PropertyBoolean},
	},
	types.ClassVideoMedia: {
		{Name: "encoding", Type: types.PropertyText},
		{Name: "pixelWidth", Type: types.PropertyInteger},
		{Name: "pixelHeight", Type: types.PropertyInteger},
		{Name: "size", Type: types.PropertyInteger},
		{Name: "location", Type: types.PropertyReference, Target: types.ClassMediaLocation},
	},
	types.ClassLicense: {
		{Name: "knownLicense", Type: types.PropertyText},
		{Name: "customText", Type: types.PropertyText},
		{Name: "attribution", Type: types.PropertyText},
	},
	types.ClassMediaLocation: {
		{Name: "kind", Type: types.PropertyText},
		{Name: "uri", Type: types.PropertyText},
		{Name: "contentId", Type: types.PropertyText},
	},
	types.ClassLanguage: {
		{Name: "name", Type: types.PropertyText},
		{Name: "code", Type: types.PropertyText},
	},
	types.ClassFeaturedVideo: {
		{Name: "video", Type: types.PropertyReference, Target: types.ClassVideo},
	},
}

// refTargets caches, per class, the target class of every reference-typed
// property, keyed by property name. Built once at package init.
var refTargets = func() map[types.KnownClass]map[string]types.KnownClass {
	out := make(map[types.KnownClass]map[string]types.KnownClass, len(layouts))
	for class, layout := range layouts {
		m := make(map[string]types.KnownClass)
		for _, def := range layout {
			if def.Type == types.PropertyReference {
				m[def.Name] = def.Target
			}
		}
		out[class] = m
	}
	return out
}()

// ClassName returns the known class name for a ledger class id, or false
// when the id is outside the known set.
func ClassName(classID uint32) (types.KnownClass, bool) {
	name, ok := classNames[classID]
	return name, ok
}

// Layout returns the ordered property layout of a known class.
func Layout(class types.KnownClass) ([]types.PropertyDef, error) {
	layout, ok := layouts[class]
	if !ok {
		return nil, fmt.Errorf("layout for class %q: %w", class, types.ErrUnknownClass)
	}
	return layout, nil
}

// RefTarget returns the class a reference-typed property of the given
// class must point at, or false when the property is not a reference.
func RefTarget(class types.KnownClass, property string) (types.KnownClass, bool) {
	target, ok := refTargets[class][property]
	return target, ok
}

// Resolver resolves the class of persisted entities through the store's
// class-entity index.
type Resolver struct {
	store types.Store
}

// NewResolver returns a Resolver reading from the given store.
func NewResolver(store types.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveClass returns the known class name of the entity with the given
// id. The second return is false when the entity does not exist or its
// class id is outside the known set.
func (r *Resolver) ResolveClass(entityID string) (types.KnownClass, bool, error) {
	entity, err := r.store.GetClassEntity(entityID)
	if err != nil {
		if err == types.ErrNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("resolving class of entity %s: %w", entityID, err)
	}
	name, ok := classNames[entity.ClassID]
	return name, ok, nil
}
