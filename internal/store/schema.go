package store

// coreSchema creates the commit-history table. One row per recorded
// commit; the hash is unique so re-running the hook is idempotent.
const coreSchema = `
CREATE SEQUENCE IF NOT EXISTS commits_id_seq;

CREATE TABLE IF NOT EXISTS commits (
    id            BIGINT PRIMARY KEY DEFAULT nextval('commits_id_seq'),
    commit_hash   VARCHAR NOT NULL UNIQUE,
    message       VARCHAR,
    author        VARCHAR,
    branch        VARCHAR,
    committed_at  TIMESTAMPTZ NOT NULL,
    project_name  VARCHAR,
    remote_url    VARCHAR,
    user_prompts  INTEGER NOT NULL,
    code_prompts  INTEGER NOT NULL,
    ai_responses  INTEGER NOT NULL,
    tool_calls    INTEGER NOT NULL,
    files_changed INTEGER NOT NULL,
    lines_added   INTEGER NOT NULL,
    lines_deleted INTEGER NOT NULL,
    score         DOUBLE  NOT NULL,
    level         VARCHAR NOT NULL,
    source        VARCHAR NOT NULL,
    session_ids   VARCHAR,
    recorded_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_commits_committed_at ON commits (committed_at);
CREATE INDEX IF NOT EXISTS idx_commits_project ON commits (project_name);
`
