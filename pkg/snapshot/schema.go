package snapshot

// schema contains the SQL statements creating the snapshot schema.
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id          TEXT PRIMARY KEY,
    path        TEXT NOT NULL,
    environment TEXT NOT NULL,
    data        TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
CREATE INDEX IF NOT EXISTS idx_snapshots_path ON snapshots(path);
`
