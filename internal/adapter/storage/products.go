package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/smartdeal/storefront/internal/core/port"
)

var ErrNotFound = errors.New("not found")

var _ port.CatalogStore = (*ProductsRepository)(nil)

// A ProductsRepository is the SQL-backed catalog store.
type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

const productColumns = `
	id, code, name, description, highlights, images,
	affiliate_link, platform, categories,
	price, mrp, offer, likes, dislikes, created_at`

// FetchAll returns the collection, newest first.
func (r ProductsRepository) FetchAll(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "ProductsRepository.FetchAll"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + `
		FROM products ORDER BY created_at DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// Upsert writes one product by id and returns the refreshed
// collection.
func (r ProductsRepository) Upsert(
	ctx context.Context, p domain.Product,
) ([]domain.Product, error) {
	const op = "ProductsRepository.Upsert"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			highlights = EXCLUDED.highlights,
			images = EXCLUDED.images,
			affiliate_link = EXCLUDED.affiliate_link,
			platform = EXCLUDED.platform,
			categories = EXCLUDED.categories,
			price = EXCLUDED.price,
			mrp = EXCLUDED.mrp,
			offer = EXCLUDED.offer,
			likes = EXCLUDED.likes,
			dislikes = EXCLUDED.dislikes;
	`

	highlightsB, _ := json.Marshal(p.Highlights)
	imagesB, _ := json.Marshal(p.Images)
	categoriesB, _ := json.Marshal(p.Categories)

	_, err := r.sqldb.ExecContext(ctx, query,
		p.ID, p.Code, p.Name, p.Description,
		string(highlightsB), string(imagesB),
		p.AffiliateLink, p.Platform, string(categoriesB),
		p.Price, p.MRP, p.Offer, p.Likes, p.Dislikes, p.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.FetchAll(ctx)
}

// Remove deletes one product by id and returns the refreshed
// collection. A missing id is not an error.
func (r ProductsRepository) Remove(
	ctx context.Context, id string,
) ([]domain.Product, error) {
	const op = "ProductsRepository.Remove"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err := r.sqldb.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.FetchAll(ctx)
}

// ApplyInteraction replaces the like/dislike counters with absolute
// values.
func (r ProductsRepository) ApplyInteraction(
	ctx context.Context, id string, c domain.Counters,
) error {
	const op = "ProductsRepository.ApplyInteraction"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx,
		`UPDATE products SET likes = $2, dislikes = $3 WHERE id = $1;`,
		id, c.Likes, c.Dislikes,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func scanProduct(scan func(dest ...any) error) (domain.Product, error) {
	var (
		p           domain.Product
		highlightsS string
		imagesS     string
		categoriesS string
	)

	err := scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &highlightsS, &imagesS,
		&p.AffiliateLink, &p.Platform, &categoriesS,
		&p.Price, &p.MRP, &p.Offer, &p.Likes, &p.Dislikes, &p.Timestamp,
	)
	if err != nil {
		return domain.Product{}, err
	}

	if err := json.Unmarshal([]byte(highlightsS), &p.Highlights); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal([]byte(imagesS), &p.Images); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal([]byte(categoriesS), &p.Categories); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
