package types

// TypedRow is implemented by every per-class row struct. Get and Save on
// the Store accept and return TypedRow; callers type-assert to the
// concrete struct when they need class-specific fields.
type TypedRow interface {
	// RowClass returns the known class this row belongs to.
	RowClass() KnownClass

	// RowID returns the entity id, shared with the ClassEntity index row.
	RowID() string

	// RowVersion returns the block height of the last successful mutation.
	RowVersion() uint64

	// SetRowVersion records the block height of a successful mutation.
	SetRowVersion(v uint64)
}

// RowMeta carries the fields common to every typed row. Reference-valued
// properties are stored as the resolved target entity id in string form;
// an empty id means the reference is unset.
type RowMeta struct {
	ID      string
	Version uint64
}

func (m *RowMeta) RowID() string         { return m.ID }
func (m *RowMeta) RowVersion() uint64    { return m.Version }
func (m *RowMeta) SetRowVersion(v uint64) { m.Version = v }

// Channel is a publisher of videos.
type Channel struct {
	RowMeta
	Handle         string
	Description    string
	CoverPhotoURL  string
	AvatarPhotoURL string
	IsPublic       bool
	IsCurated      bool
	Language       string // Language entity id.
}

func (*Channel) RowClass() KnownClass { return ClassChannel }

// Category groups videos by topic.
type Category struct {
	RowMeta
	Name        string
	Description string
}

func (*Category) RowClass() KnownClass { return ClassCategory }

// Video is the central content row, linking a channel to its media,
// license, and classification entities.
type Video struct {
	RowMeta
	Channel      string // Channel entity id.
	CategoryID   string // Category entity id.
	Title        string
	Description  string
	Duration     int64
	ThumbnailURL string
	Language     string // Language entity id.
	Media        string // VideoMedia entity id.
	License      string // License entity id.
	IsPublic     bool
	IsExplicit   bool
	IsCurated    bool
}

func (*Video) RowClass() KnownClass { return ClassVideo }

// VideoMedia describes the encoded asset behind a video.
type VideoMedia struct {
	RowMeta
	Encoding    string
	PixelWidth  int64
	PixelHeight int64
	Size        int64
	Location    string // MediaLocation entity id.
}

func (*VideoMedia) RowClass() KnownClass { return ClassVideoMedia }

// License records the license a video is published under.
type License struct {
	RowMeta
	KnownLicense string
	CustomText   string
	Attribution  string
}

func (*License) RowClass() KnownClass { return ClassLicense }

// MediaLocation points at where a media asset is stored.
type MediaLocation struct {
	RowMeta
	Kind      string
	URI       string
	ContentID string
}

func (*MediaLocation) RowClass() KnownClass { return ClassMediaLocation }

// Language is a spoken-language tag referenced by channels and videos.
type Language struct {
	RowMeta
	Name string
	Code string
}

func (*Language) RowClass() KnownClass { return ClassLanguage }

// FeaturedVideo marks a video as editorially featured.
type FeaturedVideo struct {
	RowMeta
	Video string // Video entity id.
}

func (*FeaturedVideo) RowClass() KnownClass { return ClassFeaturedVideo }
