package storage

// Schema contains SQL statements to create database tables. Analysis
// payloads are stored as JSON columns; the queryable audit fields get
// their own columns and indexes.
const Schema = `
CREATE TABLE IF NOT EXISTS audits (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    website_url TEXT NOT NULL,
    display_name TEXT,
    tier TEXT NOT NULL DEFAULT 'basic',
    status TEXT NOT NULL DEFAULT 'pending',
    created_at DATETIME NOT NULL,
    completed_at DATETIME,
    pages_scanned INTEGER DEFAULT 0,
    error_message TEXT,
    scores_json TEXT,
    issues_json TEXT,
    pagespeed_json TEXT,
    html_analysis_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_audits_user_id ON audits(user_id);
CREATE INDEX IF NOT EXISTS idx_audits_status ON audits(status);
CREATE INDEX IF NOT EXISTS idx_audits_created_at ON audits(created_at);
`
