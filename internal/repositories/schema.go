package repository

import "database/sql"

// Schema bootstrap. The unique indexes are load-bearing: wishlist pairs and
// cart line tuples must collide at the storage layer so concurrent writers
// resolve to exactly one surviving row.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name        TEXT NOT NULL,
		email       TEXT NOT NULL UNIQUE,
		phone       TEXT NOT NULL UNIQUE,
		password    TEXT NOT NULL,
		role        TEXT NOT NULL DEFAULT 'customer',
		street      TEXT,
		city        TEXT,
		state       TEXT,
		postal_code TEXT,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		last_login  TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name              TEXT NOT NULL,
		brand             TEXT NOT NULL,
		category          TEXT NOT NULL,
		price             NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		original_price    NUMERIC(12,2),
		description       TEXT NOT NULL,
		short_description TEXT,
		image             TEXT NOT NULL,
		images            JSONB,
		stock             INTEGER NOT NULL DEFAULT 10 CHECK (stock >= 0),
		status            TEXT NOT NULL DEFAULT 'active',
		variants          JSONB,
		average_rating    DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_reviews     INTEGER NOT NULL DEFAULT 0,
		tags              TEXT[],
		is_new            BOOLEAN NOT NULL DEFAULT FALSE,
		sku               TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL,
		product_id UUID NOT NULL,
		name       TEXT NOT NULL,
		price      NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		image      TEXT NOT NULL DEFAULT '',
		quantity   INTEGER NOT NULL CHECK (quantity >= 1),
		size       TEXT NOT NULL DEFAULT 'L',
		color      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT cart_items_line_key UNIQUE (user_id, product_id, size, color)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items (user_id)`,
	`CREATE TABLE IF NOT EXISTS wishlist_items (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL,
		product_id UUID NOT NULL,
		added_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT wishlist_items_pair_key UNIQUE (user_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_wishlist_items_user ON wishlist_items (user_id)`,
}

func Migrate(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
