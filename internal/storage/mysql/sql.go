package mysql

const upsertCasinoSQL = `
INSERT INTO casinos
  (slug, cms_id, title, rating_avg, rating_count, views, exclusive, created_at, data, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  cms_id       = VALUES(cms_id),
  title        = VALUES(title),
  rating_avg   = VALUES(rating_avg),
  rating_count = VALUES(rating_count),
  views        = VALUES(views),
  exclusive    = VALUES(exclusive),
  created_at   = VALUES(created_at),
  data         = VALUES(data),
  raw          = COALESCE(VALUES(raw), casinos.raw),
  synced_at    = CURRENT_TIMESTAMP
`

const upsertGameSQL = `
INSERT INTO games
  (slug, cms_id, title, provider_slug, rating_avg, rating_count, views, created_at, data, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  cms_id        = VALUES(cms_id),
  title         = VALUES(title),
  provider_slug = VALUES(provider_slug),
  rating_avg    = VALUES(rating_avg),
  rating_count  = VALUES(rating_count),
  views         = VALUES(views),
  created_at    = VALUES(created_at),
  data          = VALUES(data),
  raw           = COALESCE(VALUES(raw), games.raw),
  synced_at     = CURRENT_TIMESTAMP
`

const upsertDocumentSQL = `
INSERT INTO site_documents (kind, locale, body)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  body       = VALUES(body),
  updated_at = CURRENT_TIMESTAMP
`

const insertMissSQL = `
INSERT INTO ingest_misses (kind, miss_key, http_status, reason)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getCasinoSQL = `SELECT data, raw FROM casinos WHERE slug = ?`

const getGameSQL = `SELECT data, raw FROM games WHERE slug = ?`

const getDocumentSQL = `SELECT body FROM site_documents WHERE kind = ? AND locale = ?`

// List queries are assembled by listSQL; these are the fixed heads.
const listCasinosHead = `SELECT data FROM casinos`
const listGamesHead = `SELECT data FROM games`
