// Typed-row table access. One SQL table per known class; row routing goes
// through a per-class spec so Get, Has, Save, and Remove stay generic
// while hydration and column layout stay class-specific.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/meshgraph/loom/pkg/types"
)

// scanner abstracts *sql.Row and *sql.Rows for hydrate functions.
type scanner interface {
	Scan(dest ...any) error
}

// rowSpec describes how one known class maps onto its SQL table. columns
// excludes entity_id and version, which every table carries first.
type rowSpec struct {
	table   string
	columns []string
	args    func(row types.TypedRow) ([]any, error)
	hydrate func(s scanner) (types.TypedRow, error)
}

var rowSpecs = map[types.KnownClass]rowSpec{
	types.ClassChannel: {
		table:   "channels",
		columns: []string{"handle", "description", "cover_photo_url", "avatar_photo_url", "is_public", "is_curated", "language"},
		args: func(row types.TypedRow) ([]any, error) {
			r, ok := row.(*types.Channel)
			if !ok {
				return nil, types.ErrInvalidData
			}
			return []any{r.Handle, r.Description, r.CoverPhotoURL, r.AvatarPhotoURL, r.IsPublic, r.IsCurated, r.Language}, nil
		},
		hydrate: func(s scanner) (types.TypedRow, error) {
			var r types.Channel
			err := s.Scan(&r.ID, &r.Version, &r.Handle, &r.Description, &r.CoverPhotoURL,
				&r.AvatarPhotoURL, &r.IsPublic, &r.IsCurated, &r.Language)
			return &r, err
		},
	},
	types.ClassCategory: {
		table:   "categories",
		columns: []string{"name", "description"},
		args: func(row types.TypedRow) ([]any, error) {
			r, ok := row.(*types.Category)
			if !ok {
				return nil, types.ErrInvalidData
			}
			return []any{r.Name, r.Description}, nil
		},
		hydrate: func(s scanner) (types.TypedRow, error) {
			var r types.Category
			err := s.Scan(&r.ID, &r.Version, &r.Name, &r.Description)
			return &r, err
		},
	},
	types.ClassVideo: {
		table: "videos",
		columns: []string{"channel", "category", "title", "description", "duration", "thumbnail_url",
			"language", "media", "license", "is_public", "is_explicit", "is_curated"},
		args: func(row types.TypedRow) ([]any, error) {
			r, ok := row.(*types.Video)
			if !ok {
				return nil, types.ErrInvalidData
			}
			return []any{r.Channel, r.CategoryID, r.Title, r.Description, r.Duration, r.ThumbnailURL,
				r.Language, r.Media, r.License, r.IsPublic, r.IsExplicit, r.IsCurated}, nil
		},
		hydrate: func(s scanner) (types.TypedRow, error) {
			var r types.Video
			err := s.Scan(&r.ID, &r.Version, &r.Channel, &r.CategoryID, &r.Title, &r.Description,
				&r.Duration, &r.ThumbnailURL, &r.Language, &r.Media, &r.License,
				&r.IsPublic, &r.IsExplicit, &r.IsCurated)
			return &r, err
		},
	},
	types.ClassVideoMedia: {
		table:   "video_media",
		columns: []string{"encoding", "pixel_width", "pixel_height", "size", "location"},
		args: func(row types.TypedRow) ([]any, error) {
			r, ok := row.(*types.VideoMedia)
			if !ok {
				return nil, types.ErrInvalidData
			}
			return []any{r.Encoding, r.PixelWidth, r.PixelHeight, r.Size, r.Location}, nil
		},
		hydrate: func(s scanner) (types.TypedRow, error) {
			var r types.VideoMedia
			err := s.Scan(&r.ID, &r.Version, &r.Encoding, &r.PixelWidth, &r.PixelHeight, &r.Size, &r.Location)
			return &r, err
		},
	},
	types.ClassLicense: {
		table:   "licenses",
		columns: []string{"known_license", "custom_text", "attribution"},
		args: func(row types.TypedRow) ([]any, error) {
			r, ok := row.(*types.License)
			if !ok {
				return nil, types.ErrInvalidData
			}
			return []any{r.KnownLicense, r.CustomText, r.Attribution}, nil
		},
		hydrate: func(s scanner) (types.TypedRow, error) {
			var r types.License
			err := s.Scan(&r.ID, &r.Version, &r.KnownLicense, &r.CustomText, &r.Attribution)
			return &r, err
		},
	},
	types.ClassMediaLocation: {
		table:   "media_locations",
		columns: []string{"kind", "uri", "content_id"},
		args: func(row types.TypedRow) ([]any, error) {
			r, ok := row.(*types.MediaLocation)
			if !ok {
				return nil, types.ErrInvalidData
			}
			return []any{r.Kind, r.URI, r.ContentID}, nil
		},
		hydrate: func(s scanner) (types.TypedRow, error) {
			var r types.MediaLocation
			err := s.Scan(&r.ID, &r.Version, &r.Kind, &r.URI, &r.ContentID)
			return &r, err
		},
	},
	types.ClassLanguage: {
		table:   "languages",
		columns: []string{"name", "code"},
		args: func(row types.TypedRow) ([]any, error) {
			r, ok := row.(*types.Language)
			if !ok {
				return nil, types.ErrInvalidData
			}
			return []any{r.Name, r.Code}, nil
		},
		hydrate: func(s scanner) (types.TypedRow, error) {
			var r types.Language
			err := s.Scan(&r.ID, &r.Version, &r.Name, &r.Code)
			return &r, err
		},
	},
	types.ClassFeaturedVideo: {
		table:   "featured_videos",
		columns: []string{"video"},
		args: func(row types.TypedRow) ([]any, error) {
			r, ok := row.(*types.FeaturedVideo)
			if !ok {
				return nil, types.ErrInvalidData
			}
			return []any{r.Video}, nil
		},
		hydrate: func(s scanner) (types.TypedRow, error) {
			var r types.FeaturedVideo
			err := s.Scan(&r.ID, &r.Version, &r.Video)
			return &r, err
		},
	},
}

// spec returns the rowSpec for a class.
func spec(class types.KnownClass) (rowSpec, error) {
	sp, ok := rowSpecs[class]
	if !ok {
		return rowSpec{}, fmt.Errorf("class %q: %w", class, types.ErrUnknownClass)
	}
	return sp, nil
}

// GetRow retrieves the typed row of the given class and entity id.
func (b *Backend) GetRow(class types.KnownClass, id string) (types.TypedRow, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}
	sp, err := spec(class)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT entity_id, version, %s FROM %s WHERE entity_id = ?",
		strings.Join(sp.columns, ", "), sp.table)
	row, err := sp.hydrate(b.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting %s %s: %w", class, id, err)
	}
	return row, nil
}

// HasRow reports whether a typed row of the given class exists.
func (b *Backend) HasRow(class types.KnownClass, id string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return false, err
	}
	sp, err := spec(class)
	if err != nil {
		return false, err
	}

	var one int
	err = b.db.QueryRow(
		fmt.Sprintf("SELECT 1 FROM %s WHERE entity_id = ?", sp.table), id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s %s: %w", class, id, err)
	}
	return true, nil
}

// SaveRow creates or replaces a typed row.
func (b *Backend) SaveRow(row types.TypedRow) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.guard(); err != nil {
		return err
	}
	if row == nil || row.RowID() == "" {
		return types.ErrInvalidData
	}
	sp, err := spec(row.RowClass())
	if err != nil {
		return err
	}
	args, err := sp.args(row)
	if err != nil {
		return err
	}

	assigns := make([]string, 0, len(sp.columns)+1)
	assigns = append(assigns, "version = excluded.version")
	for _, col := range sp.columns {
		assigns = append(assigns, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (entity_id, version, %s) VALUES (?, ?%s) ON CONFLICT(entity_id) DO UPDATE SET %s",
		sp.table,
		strings.Join(sp.columns, ", "),
		strings.Repeat(", ?", len(sp.columns)),
		strings.Join(assigns, ", "),
	)

	all := append([]any{row.RowID(), row.RowVersion()}, args...)
	if _, err := b.db.Exec(query, all...); err != nil {
		return fmt.Errorf("saving %s %s: %w", row.RowClass(), row.RowID(), err)
	}
	return nil
}

// ClassCounts returns the number of typed rows per known class.
func (b *Backend) ClassCounts() (map[types.KnownClass]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}

	counts := make(map[types.KnownClass]int, len(rowSpecs))
	for class, sp := range rowSpecs {
		var n int
		err := b.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", sp.table)).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", class, err)
		}
		counts[class] = n
	}
	return counts, nil
}

// RemoveRow deletes a typed row. Removing an absent row is a no-op.
func (b *Backend) RemoveRow(class types.KnownClass, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.guard(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}
	sp, err := spec(class)
	if err != nil {
		return err
	}

	if _, err := b.db.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE entity_id = ?", sp.table), id,
	); err != nil {
		return fmt.Errorf("removing %s %s: %w", class, id, err)
	}
	return nil
}
