package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/cohorent/backend/internal/contracts"
)

//go:embed schema.sql
var schemaSQL string

// PostgresRepository implements contracts.ProductRepository
// ⭐ SSOT: 제품 카탈로그 저장소는 여기서만
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new product repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the catalog schema if missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure catalog schema: %w", err)
	}
	return nil
}

const selectProduct = `
	SELECT id, name, description, category, tags, phase,
	       external_signals, economics, performance, created_at, updated_at
	FROM catalog.products
`

// List retrieves all products in insertion order
func (r *PostgresRepository) List(ctx context.Context) ([]*contracts.Product, error) {
	rows, err := r.pool.Query(ctx, selectProduct+` ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]*contracts.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get retrieves one product by id
func (r *PostgresRepository) Get(ctx context.Context, id string) (*contracts.Product, error) {
	row := r.pool.QueryRow(ctx, selectProduct+` WHERE id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new product
func (r *PostgresRepository) Create(ctx context.Context, p *contracts.Product) error {
	signals, economics, performance, err := marshalBundles(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO catalog.products (
			id, name, description, category, tags, phase,
			external_signals, economics, performance, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Category, tagsOrEmpty(p.Tags), int16(p.Phase),
		signals, economics, performance, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("product %s already exists", p.ID)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update replaces an existing product
func (r *PostgresRepository) Update(ctx context.Context, p *contracts.Product) error {
	signals, economics, performance, err := marshalBundles(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE catalog.products SET
			name = $2,
			description = $3,
			category = $4,
			tags = $5,
			phase = $6,
			external_signals = $7,
			economics = $8,
			performance = $9,
			updated_at = $10
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Category, tagsOrEmpty(p.Tags), int16(p.Phase),
		signals, economics, performance, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrProductNotFound
	}
	return nil
}

// Delete removes a product
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM catalog.products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*contracts.Product, error) {
	var (
		p                               contracts.Product
		phase                           int16
		signals, economics, performance []byte
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Tags, &phase,
		&signals, &economics, &performance, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Phase = contracts.Phase(phase)

	if err := unmarshalBundle(signals, &p.ExternalSignals); err != nil {
		return nil, fmt.Errorf("decode external_signals for %s: %w", p.ID, err)
	}
	if err := unmarshalBundle(economics, &p.Economics); err != nil {
		return nil, fmt.Errorf("decode economics for %s: %w", p.ID, err)
	}
	if err := unmarshalBundle(performance, &p.Performance); err != nil {
		return nil, fmt.Errorf("decode performance for %s: %w", p.ID, err)
	}
	return &p, nil
}

// marshalBundles encodes metric bundles as JSONB (nil bundle → NULL)
func marshalBundles(p *contracts.Product) (signals, economics, performance []byte, err error) {
	if signals, err = marshalBundle(p.ExternalSignals); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal external_signals: %w", err)
	}
	if economics, err = marshalBundle(p.Economics); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal economics: %w", err)
	}
	if performance, err = marshalBundle(p.Performance); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal performance: %w", err)
	}
	return signals, economics, performance, nil
}

func marshalBundle[T any](bundle *T) ([]byte, error) {
	if bundle == nil {
		return nil, nil
	}
	return json.Marshal(bundle)
}

func unmarshalBundle[T any](data []byte, dst **T) error {
	if len(data) == 0 {
		*dst = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
