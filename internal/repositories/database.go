package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/furniro/storefront/internal/config"
	"github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type Repository struct {
	DB *sql.DB

	User     UserRepository
	Product  ProductRepository
	Cart     CartRepository
	Wishlist WishlistRepository
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Repository{
		DB:       db,
		User:     NewUserRepo(db),
		Product:  NewProductRepo(db),
		Cart:     NewCartRepo(db),
		Wishlist: NewWishlistRepo(db),
	}, nil
}

func (r *Repository) Close() error {
	return r.DB.Close()
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Both wishlist pairs and cart line tuples rely on this to turn a
// lost insert race into a conflict instead of a duplicate row.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// UniqueConstraint returns the name of the violated constraint, or "".
func UniqueConstraint(err error) string {
	var pqErr *pq.Error

	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr.Constraint
	}

	return ""
}
