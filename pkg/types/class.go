package types

// KnownClass names one of the business entity types the materializer
// understands. Classes outside this enumeration never acquire typed rows;
// their entities exist only as ClassEntity index rows.
type KnownClass string

const (
	ClassChannel       KnownClass = "Channel"
	ClassCategory      KnownClass = "Category"
	ClassVideo         KnownClass = "Video"
	ClassVideoMedia    KnownClass = "VideoMedia"
	ClassLicense       KnownClass = "License"
	ClassMediaLocation KnownClass = "MediaLocation"
	ClassLanguage      KnownClass = "Language"
	ClassFeaturedVideo KnownClass = "FeaturedVideo"
)

// knownClasses is the set of recognized class names.
var knownClasses = map[KnownClass]bool{
	ClassChannel:       true,
	ClassCategory:      true,
	ClassVideo:         true,
	ClassVideoMedia:    true,
	ClassLicense:       true,
	ClassMediaLocation: true,
	ClassLanguage:      true,
	ClassFeaturedVideo: true,
}

// KnownClasses lists every recognized class in declaration order.
var KnownClasses = []KnownClass{
	ClassChannel,
	ClassCategory,
	ClassVideo,
	ClassVideoMedia,
	ClassLicense,
	ClassMediaLocation,
	ClassLanguage,
	ClassFeaturedVideo,
}

// Known reports whether c is one of the recognized class names.
func (c KnownClass) Known() bool {
	return knownClasses[c]
}

func (c KnownClass) String() string {
	return string(c)
}
