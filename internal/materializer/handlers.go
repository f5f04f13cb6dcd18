// Per-class lifecycle handlers. Each known class has a create, update, and
// remove routine; dispatch is an exhaustive switch over the KnownClass
// enumeration, so adding a class is a compile-visible change here and in
// the registry layouts.
package materializer

import (
	"fmt"

	"github.com/meshgraph/loom/pkg/types"
)

// newRow returns an empty typed row of the given class carrying the entity
// id. The caller fills properties via applyBag and sets the version.
func newRow(class types.KnownClass, id string) (types.TypedRow, error) {
	meta := types.RowMeta{ID: id}
	switch class {
	case types.ClassChannel:
		return &types.Channel{RowMeta: meta}, nil
	case types.ClassCategory:
		return &types.Category{RowMeta: meta}, nil
	case types.ClassVideo:
		return &types.Video{RowMeta: meta}, nil
	case types.ClassVideoMedia:
		return &types.VideoMedia{RowMeta: meta}, nil
	case types.ClassLicense:
		return &types.License{RowMeta: meta}, nil
	case types.ClassMediaLocation:
		return &types.MediaLocation{RowMeta: meta}, nil
	case types.ClassLanguage:
		return &types.Language{RowMeta: meta}, nil
	case types.ClassFeaturedVideo:
		return &types.FeaturedVideo{RowMeta: meta}, nil
	default:
		return nil, fmt.Errorf("class %q: %w", class, types.ErrUnknownClass)
	}
}

// applyBag copies every property present in the bag onto the row, leaving
// absent properties untouched. References are stored as the resolved
// target id in string form.
func applyBag(row types.TypedRow, bag *types.Bag) error {
	switch r := row.(type) {
	case *types.Channel:
		if bag.Has("handle") {
			r.Handle = bag.Text("handle")
		}
		if bag.Has("description") {
			r.Description = bag.Text("description")
		}
		if bag.Has("coverPhotoUrl") {
			r.CoverPhotoURL = bag.Text("coverPhotoUrl")
		}
		if bag.Has("avatarPhotoUrl") {
			r.AvatarPhotoURL = bag.Text("avatarPhotoUrl")
		}
		if bag.Has("isPublic") {
			r.IsPublic = bag.Bool("isPublic")
		}
		if bag.Has("isCurated") {
			r.IsCurated = bag.Bool("isCurated")
		}
		if bag.Has("language") {
			r.Language = bag.RefTarget("language")
		}
	case *types.Category:
		if bag.Has("name") {
			r.Name = bag.Text("name")
		}
		if bag.Has("description") {
			r.Description = bag.Text("description")
		}
	case *types.Video:
		if bag.Has("channel") {
			r.Channel = bag.RefTarget("channel")
		}
		if bag.Has("category") {
			r.CategoryID = bag.RefTarget("category")
		}
		if bag.Has("title") {
			r.Title = bag.Text("title")
		}
		if bag.Has("description") {
			r.Description = bag.Text("description")
		}
		if bag.Has("duration") {
			r.Duration = bag.Int("duration")
		}
		if bag.Has("thumbnailUrl") {
			r.ThumbnailURL = bag.Text("thumbnailUrl")
		}
		if bag.Has("language") {
			r.Language = bag.RefTarget("language")
		}
		if bag.Has("media") {
			r.Media = bag.RefTarget("media")
		}
		if bag.Has("license") {
			r.License = bag.RefTarget("license")
		}
		if bag.Has("isPublic") {
			r.IsPublic = bag.Bool("isPublic")
		}
		if bag.Has("isExplicit") {
			r.IsExplicit = bag.Bool("isExplicit")
		}
		if bag.Has("isCurated") {
			r.IsCurated = bag.Bool("isCurated")
		}
	case *types.VideoMedia:
		if bag.Has("encoding") {
			r.Encoding = bag.Text("encoding")
		}
		if bag.Has("pixelWidth") {
			r.PixelWidth = bag.Int("pixelWidth")
		}
		if bag.Has("pixelHeight") {
			r.PixelHeight = bag.Int("pixelHeight")
		}
		if bag.Has("size") {
			r.Size = bag.Int("size")
		}
		if bag.Has("location") {
			r.Location = bag.RefTarget("location")
		}
	case *types.License:
		if bag.Has("knownLicense") {
			r.KnownLicense = bag.Text("knownLicense")
		}
		if bag.Has("customText") {
			r.CustomText = bag.Text("customText")
		}
		if bag.Has("attribution") {
			r.Attribution = bag.Text("attribution")
		}
	case *types.MediaLocation:
		if bag.Has("kind") {
			r.Kind = bag.Text("kind")
		}
		if bag.Has("uri") {
			r.URI = bag.Text("uri")
		}
		if bag.Has("contentId") {
			r.ContentID = bag.Text("contentId")
		}
	case *types.Language:
		if bag.Has("name") {
			r.Name = bag.Text("name")
		}
		if bag.Has("code") {
			r.Code = bag.Text("code")
		}
	case *types.FeaturedVideo:
		if bag.Has("video") {
			r.Video = bag.RefTarget("video")
		}
	default:
		return fmt.Errorf("row type %T: %w", row, types.ErrUnknownClass)
	}
	return nil
}

// createRow materializes a new typed row with version set to the block
// height. The caller must have run the reference integrity check first.
func (d *Dispatcher) createRow(class types.KnownClass, id string, bag *types.Bag, block types.BlockRef) error {
	row, err := newRow(class, id)
	if err != nil {
		return err
	}
	if err := applyBag(row, bag); err != nil {
		return err
	}
	row.SetRowVersion(block.Height)
	return d.store.SaveRow(row)
}

// updateRow loads the typed row, applies only the properties present in
// the bag, and bumps the version. A missing row is a silent no-op; class
// resolution upstream makes this unusual but it must not crash.
func (d *Dispatcher) updateRow(class types.KnownClass, id string, bag *types.Bag, block types.BlockRef) error {
	row, err := d.store.GetRow(class, id)
	if err != nil {
		if err == types.ErrNotFound {
			return nil
		}
		return err
	}
	if err := applyBag(row, bag); err != nil {
		return err
	}
	row.SetRowVersion(block.Height)
	return d.store.SaveRow(row)
}

// removeRow deletes the typed row. Absent rows are tolerated: an entity
// that never received schema support has no typed row to delete.
func (d *Dispatcher) removeRow(class types.KnownClass, id string) error {
	return d.store.RemoveRow(class, id)
}
