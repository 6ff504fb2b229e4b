package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for packages and their tiers.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new catalog store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// listQuery aggregates each package's tiers into a JSON array so a single
// round trip returns the full catalog.
const listQuery = `
	SELECT p.id, p.name, p.category, COALESCE(p.description, ''), p.is_active,
	       p.created_at, p.updated_at,
	       COALESCE(
	         json_agg(
	           jsonb_build_object(
	             'id', pt.id, 'name', pt.name, 'price', pt.price,
	             'features', pt.features, 'scope', pt.scope,
	             'ideal_for', pt.ideal_for, 'add_ons', pt.add_ons,
	             'included', pt.included, 'not_included', pt.not_included,
	             'sort_order', pt.sort_order
	           ) ORDER BY pt.sort_order
	         ) FILTER (WHERE pt.id IS NOT NULL), '[]'
	       ) AS tiers
	FROM packages p
	LEFT JOIN package_tiers pt ON p.id = pt.package_id
	GROUP BY p.id
	ORDER BY p.created_at DESC`

// List returns all packages with their tiers ordered by sort_order.
func (s *Store) List(ctx context.Context) ([]*Package, error) {
	rows, err := s.pool.Query(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	defer rows.Close()

	var packages []*Package
	for rows.Next() {
		p := &Package{}
		var tiersJSON []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt, &tiersJSON); err != nil {
			return nil, fmt.Errorf("scanning package row: %w", err)
		}
		if err := json.Unmarshal(tiersJSON, &p.Tiers); err != nil {
			return nil, fmt.Errorf("unmarshaling tiers: %w", err)
		}
		if p.Tiers == nil {
			p.Tiers = []Tier{}
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

// Create inserts a package and its tiers, returning the new package id.
func (s *Store) Create(ctx context.Context, in CreatePackageInput) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO packages (name, category, description)
		 VALUES ($1, $2, $3) RETURNING id`,
		in.Name, in.Category, in.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating package: %w", err)
	}

	if err := s.insertTiers(ctx, id, in.Tiers); err != nil {
		return 0, err
	}
	return id, nil
}

// Update performs a partial update on a package. A non-nil Tiers replaces the
// package's entire tier set.
func (s *Store) Update(ctx context.Context, id int64, in UpdatePackageInput) error {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *in.Category)
		argIdx++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
		argIdx++
	}
	if in.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *in.IsActive)
		argIdx++
	}

	if len(setClauses) > 0 {
		setClauses = append(setClauses, "updated_at = now()")
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE packages SET %s WHERE id = $%d`,
			strings.Join(setClauses, ", "), argIdx)
		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("updating package: %w", err)
		}
	}

	if in.Tiers != nil {
		if _, err := s.pool.Exec(ctx,
			`DELETE FROM package_tiers WHERE package_id = $1`, id); err != nil {
			return fmt.Errorf("clearing package tiers: %w", err)
		}
		if err := s.insertTiers(ctx, id, *in.Tiers); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes a package by id. Tiers cascade.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting package: %w", err)
	}
	return nil
}

// CountActive returns the number of active packages.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM packages WHERE is_active = true`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting packages: %w", err)
	}
	return n, nil
}

func (s *Store) insertTiers(ctx context.Context, packageID int64, tiers []Tier) error {
	for i, t := range tiers {
		features, err := marshalList(t.Features)
		if err != nil {
			return err
		}
		addOns, err := marshalList(t.AddOns)
		if err != nil {
			return err
		}
		included, err := marshalList(t.Included)
		if err != nil {
			return err
		}
		notIncluded, err := marshalList(t.NotIncluded)
		if err != nil {
			return err
		}

		_, err = s.pool.Exec(ctx,
			`INSERT INTO package_tiers
			   (package_id, name, price, features, scope, ideal_for, add_ons, included, not_included, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			packageID, t.Name, t.Price, features, t.Scope, t.IdealFor,
			addOns, included, notIncluded, i,
		)
		if err != nil {
			return fmt.Errorf("creating tier %q: %w", t.Name, err)
		}
	}
	return nil
}

// marshalList converts a string slice to JSON for JSONB storage, treating nil
// as an empty list.
func marshalList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshaling tier list: %w", err)
	}
	return data, nil
}
