// Package catalogrepo reads the school, restaurant and menu tables that the
// catalog system owns. Menus are stored as JSON documents, one per
// (school, restaurant) pair.
package catalogrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"dormeal/internal/core/domain/model/catalog"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/pkg/errs"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS schools (
	id   uuid PRIMARY KEY,
	name text NOT NULL
);
CREATE TABLE IF NOT EXISTS restaurants (
	id        uuid NOT NULL,
	school_id uuid NOT NULL REFERENCES schools (id),
	name      text NOT NULL,
	image_url text,
	PRIMARY KEY (id, school_id)
);
CREATE TABLE IF NOT EXISTS menus (
	school_id     uuid NOT NULL,
	restaurant_id uuid NOT NULL,
	document      jsonb NOT NULL,
	PRIMARY KEY (school_id, restaurant_id)
);`

// menuDocument is the stored form of a menu. The ids live in the key columns.
type menuDocument struct {
	RestaurantName string            `json:"restaurantName"`
	Sections       []catalog.Section `json:"sections"`
}

// Open connects to postgres through lib/pq.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}
	return db, nil
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) (*Repository, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Schools(ctx context.Context) ([]catalog.School, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM schools ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer rows.Close()

	var schools []catalog.School
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		schoolID, err := kernel.UUIDFromString(id)
		if err != nil {
			return nil, fmt.Errorf("school %q: %w", id, err)
		}
		schools = append(schools, catalog.School{ID: schoolID, Name: name})
	}
	return schools, rows.Err()
}

func (r *Repository) School(ctx context.Context, schoolID kernel.UUID) (catalog.School, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM schools WHERE id = $1`, schoolID.String()).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.School{}, errs.NewObjectNotFoundError("school", schoolID.String())
	}
	if err != nil {
		return catalog.School{}, fmt.Errorf("get school: %w", err)
	}
	return catalog.School{ID: schoolID, Name: name}, nil
}

func (r *Repository) Restaurants(ctx context.Context, schoolID kernel.UUID) ([]catalog.Restaurant, error) {
	if _, err := r.School(ctx, schoolID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(image_url, '')
		FROM restaurants
		WHERE school_id = $1
		ORDER BY name`, schoolID.String())
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []catalog.Restaurant
	for rows.Next() {
		var id, name, imageURL string
		if err := rows.Scan(&id, &name, &imageURL); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurantID, err := kernel.UUIDFromString(id)
		if err != nil {
			return nil, fmt.Errorf("restaurant %q: %w", id, err)
		}
		restaurants = append(restaurants, catalog.Restaurant{
			ID:       restaurantID,
			SchoolID: schoolID,
			Name:     name,
			ImageURL: imageURL,
		})
	}
	return restaurants, rows.Err()
}

func (r *Repository) Menu(ctx context.Context, schoolID, restaurantID kernel.UUID) (catalog.Menu, error) {
	var document []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM menus WHERE school_id = $1 AND restaurant_id = $2`,
		schoolID.String(), restaurantID.String(),
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Menu{}, errs.NewObjectNotFoundError("menu", restaurantID.String())
	}
	if err != nil {
		return catalog.Menu{}, fmt.Errorf("get menu: %w", err)
	}

	var stored menuDocument
	if err := json.Unmarshal(document, &stored); err != nil {
		return catalog.Menu{}, fmt.Errorf("decode menu %s: %w", restaurantID, err)
	}
	return catalog.Menu{
		RestaurantID:   restaurantID,
		SchoolID:       schoolID,
		RestaurantName: stored.RestaurantName,
		Sections:       stored.Sections,
	}, nil
}

// Import creates the catalog tables when missing and upserts the seed in one
// transaction. Used to bootstrap a local database.
func (r *Repository) Import(ctx context.Context, seed catalog.Seed) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	for _, s := range seed.Schools {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schools (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
			s.ID.String(), s.Name,
		); err != nil {
			return fmt.Errorf("import school %s: %w", s.ID, err)
		}
	}
	for _, rest := range seed.Restaurants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO restaurants (id, school_id, name, image_url) VALUES ($1, $2, $3, NULLIF($4, ''))
			ON CONFLICT (id, school_id) DO UPDATE SET name = EXCLUDED.name, image_url = EXCLUDED.image_url`,
			rest.ID.String(), rest.SchoolID.String(), rest.Name, rest.ImageURL,
		); err != nil {
			return fmt.Errorf("import restaurant %s: %w", rest.ID, err)
		}
	}
	for _, m := range seed.Menus {
		document, err := json.Marshal(menuDocument{RestaurantName: m.RestaurantName, Sections: m.Sections})
		if err != nil {
			return fmt.Errorf("encode menu %s: %w", m.RestaurantID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO menus (school_id, restaurant_id, document) VALUES ($1, $2, $3)
			ON CONFLICT (school_id, restaurant_id) DO UPDATE SET document = EXCLUDED.document`,
			m.SchoolID.String(), m.RestaurantID.String(), document,
		); err != nil {
			return fmt.Errorf("import menu %s: %w", m.RestaurantID, err)
		}
	}
	return tx.Commit()
}
