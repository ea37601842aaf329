package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) NOT NULL,
		display_name VARCHAR(255) NOT NULL,
		oauth_provider VARCHAR(50) NOT NULL,
		oauth_subject VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		last_login_at TIMESTAMP WITH TIME ZONE,
		UNIQUE(oauth_provider, oauth_subject)
	)`,

	`CREATE TABLE IF NOT EXISTS user_sessions (
		id VARCHAR(64) PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		oauth_provider VARCHAR(50) NOT NULL,
		oauth_subject VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(255),
		document_type VARCHAR(100),
		input_type VARCHAR(50) NOT NULL,
		original_filename VARCHAR(500),
		status VARCHAR(50) NOT NULL DEFAULT 'pending',
		error_message TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// One summary per document; removing the document removes its summary.
	`CREATE TABLE IF NOT EXISTS document_summaries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		document_id UUID NOT NULL UNIQUE REFERENCES documents(id) ON DELETE CASCADE,
		plain_summary TEXT,
		key_facts JSONB,
		flagged_terms JSONB,
		generated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_sessions_user_id ON user_sessions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_sessions_expires_at ON user_sessions(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_user_id_created_at ON documents(user_id, created_at DESC)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// MigrationCount reports how many statements Migrate applies.
func MigrationCount() int {
	return len(migrations)
}
