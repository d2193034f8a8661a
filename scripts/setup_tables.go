package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Creates (or with -drop, removes) the environment-prefixed tables.
// Usage: go run scripts/setup_tables.go [-drop]
func main() {
	drop := flag.Bool("drop", false, "drop the tables instead of creating them")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		prefix = env + "_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	if *drop {
		dropSQL := fmt.Sprintf(`
			DROP TABLE IF EXISTS %sactivity CASCADE;
			DROP TABLE IF EXISTS %snode_versions CASCADE;
			DROP TABLE IF EXISTS %stags CASCADE;
			DROP TABLE IF EXISTS %snodes CASCADE;
		`, prefix, prefix, prefix, prefix)
		if _, err := db.Exec(dropSQL); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Printf("All tables dropped successfully (prefix: %s)\n", prefix)
		return
	}

	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]snodes (
			id UUID PRIMARY KEY,
			type TEXT NOT NULL CHECK (type IN ('folder', 'doc')),
			parent_id UUID REFERENCES %[1]snodes(id),
			title VARCHAR(255) NOT NULL,
			icon TEXT,
			description TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			owner_id TEXT,
			org_id TEXT,
			content JSONB,
			status TEXT CHECK (status IN ('draft', 'in_review', 'final')),
			tag_ids TEXT[] NOT NULL DEFAULT '{}',
			source_file TEXT,
			current_major_version INTEGER,
			current_minor_version INTEGER,
			current_version_string TEXT,
			last_version_snapshot_at TIMESTAMPTZ,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			deleted_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			created_by TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			updated_by TEXT NOT NULL,
			updated_by_name TEXT NOT NULL DEFAULT '',
			CHECK ((owner_id IS NULL) != (org_id IS NULL))
		);
		CREATE INDEX IF NOT EXISTS %[1]snodes_parent_idx ON %[1]snodes(parent_id) WHERE NOT is_deleted;
		CREATE INDEX IF NOT EXISTS %[1]snodes_owner_idx ON %[1]snodes(owner_id) WHERE NOT is_deleted;
		CREATE INDEX IF NOT EXISTS %[1]snodes_org_idx ON %[1]snodes(org_id) WHERE NOT is_deleted;

		CREATE TABLE IF NOT EXISTS %[1]snode_versions (
			id UUID PRIMARY KEY,
			doc_id UUID NOT NULL REFERENCES %[1]snodes(id),
			major_version INTEGER NOT NULL,
			minor_version INTEGER NOT NULL,
			version_string TEXT NOT NULL,
			title VARCHAR(255) NOT NULL,
			content JSONB NOT NULL,
			is_major_version BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			created_by TEXT NOT NULL,
			created_by_name TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS %[1]snode_versions_doc_idx ON %[1]snode_versions(doc_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS %[1]stags (
			id UUID PRIMARY KEY,
			name VARCHAR(64) NOT NULL,
			color TEXT,
			owner_id TEXT,
			org_id TEXT,
			usage_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			CHECK ((owner_id IS NULL) != (org_id IS NULL))
		);
		CREATE UNIQUE INDEX IF NOT EXISTS %[1]stags_owner_name_idx ON %[1]stags(owner_id, name) WHERE owner_id IS NOT NULL;
		CREATE UNIQUE INDEX IF NOT EXISTS %[1]stags_org_name_idx ON %[1]stags(org_id, name) WHERE org_id IS NOT NULL;

		CREATE TABLE IF NOT EXISTS %[1]sactivity (
			id UUID PRIMARY KEY,
			actor_id TEXT NOT NULL,
			actor_name TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			node_id UUID NOT NULL,
			node_type TEXT NOT NULL,
			node_title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS %[1]sactivity_created_idx ON %[1]sactivity(created_at DESC);
	`, prefix)

	if _, err := db.Exec(createSQL); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	fmt.Printf("All tables created successfully (prefix: %s)\n", prefix)
}
