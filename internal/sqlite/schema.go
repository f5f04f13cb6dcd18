// Package sqlite implements the SQLite storage backend for the Loom graph
// materializer. The database is the durable store: schema creation is
// idempotent so an existing graph survives re-attachment.
package sqlite

// Schema DDL, one table per known class plus the generic class-entity
// index, the metadata table holding the next-entity-id counter, and the
// ingest-run provenance log.
const (
	createClassEntities = `CREATE TABLE IF NOT EXISTS class_entities (
    entity_id TEXT PRIMARY KEY,
    class_id INTEGER NOT NULL,
    version INTEGER NOT NULL,
    block_height INTEGER NOT NULL,
    block_hash TEXT
);`

	createChannels = `CREATE TABLE IF NOT EXISTS channels (
    entity_id TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    handle TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    cover_photo_url TEXT NOT NULL DEFAULT '',
    avatar_photo_url TEXT NOT NULL DEFAULT '',
    is_public INTEGER NOT NULL DEFAULT 0,
    is_curated INTEGER NOT NULL DEFAULT 0,
    language TEXT NOT NULL DEFAULT ''
);`

	createCategories = `CREATE TABLE IF NOT EXISTS categories (
    entity_id TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT ''
);`

	createVideos = `CREATE TABLE IF NOT EXISTS videos (
    entity_id TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    channel TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    duration INTEGER NOT NULL DEFAULT 0,
    thumbnail_url TEXT NOT NULL DEFAULT '',
    language TEXT NOT NULL DEFAULT '',
    media TEXT NOT NULL DEFAULT '',
    license TEXT NOT NULL DEFAULT '',
    is_public INTEGER NOT NULL DEFAULT 0,
    is_explicit INTEGER NOT NULL DEFAULT 0,
    is_curated INTEGER NOT NULL DEFAULT 0
);`

	createVideoMedia = `CREATE TABLE IF NOT EXISTS video_media (
    entity_id TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    encoding TEXT NOT NULL DEFAULT '',
    pixel_width INTEGER NOT NULL DEFAULT 0,
    pixel_height INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL DEFAULT 0,
    location TEXT NOT NULL DEFAULT ''
);`

	createLicenses = `CREATE TABLE IF NOT EXISTS licenses (
    entity_id TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    known_license TEXT NOT NULL DEFAULT '',
    custom_text TEXT NOT NULL DEFAULT '',
    attribution TEXT NOT NULL DEFAULT ''
);`

	createMediaLocations = `CREATE TABLE IF NOT EXISTS media_locations (
    entity_id TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    kind TEXT NOT NULL DEFAULT '',
    uri TEXT NOT NULL DEFAULT '',
    content_id TEXT NOT NULL DEFAULT ''
);`

	createLanguages = `CREATE TABLE IF NOT EXISTS languages (
    entity_id TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    code TEXT NOT NULL DEFAULT ''
);`

	createFeaturedVideos = `CREATE TABLE IF NOT EXISTS featured_videos (
    entity_id TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    video TEXT NOT NULL DEFAULT ''
);`

	createMetadata = `CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

	createIngestRuns = `CREATE TABLE IF NOT EXISTS ingest_runs (
    run_id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    first_block INTEGER NOT NULL,
    last_block INTEGER NOT NULL,
    applied INTEGER NOT NULL,
    dropped INTEGER NOT NULL,
    ignored INTEGER NOT NULL
);`
)

// Index DDL for common lookups.
const (
	idxClassEntitiesClass = `CREATE INDEX IF NOT EXISTS idx_class_entities_class ON class_entities(class_id);`
	idxVideosChannel      = `CREATE INDEX IF NOT EXISTS idx_videos_channel ON videos(channel);`
	idxVideosCategory     = `CREATE INDEX IF NOT EXISTS idx_videos_category ON videos(category);`
	idxFeaturedVideo      = `CREATE INDEX IF NOT EXISTS idx_featured_videos_video ON featured_videos(video);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createClassEntities,
	createChannels,
	createCategories,
	createVideos,
	createVideoMedia,
	createLicenses,
	createMediaLocations,
	createLanguages,
	createFeaturedVideos,
	createMetadata,
	createIngestRuns,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxClassEntitiesClass,
	idxVideosChannel,
	idxVideosCategory,
	idxFeaturedVideo,
}
