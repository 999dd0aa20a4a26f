package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/storefront/internal/model"
)

// ProductRepo stores the catalog in the MySQL 'products' table. Ids are
// UUID strings generated here, not by the database.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id, name, description, price, image_url, category, stock"

type scanner interface{ Scan(dest ...any) error }

func scanProduct(s scanner) (model.Product, error) {
	var p model.Product
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category, &p.Stock)
	return p, err
}

// List returns every product ordered by name.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) Create(ctx context.Context, in model.ProductInput) (model.Product, error) {
	p := model.Product{ID: uuid.NewString(), ProductInput: in}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO products ("+productColumns+") VALUES (?,?,?,?,?,?,?)",
		p.ID, in.Name, in.Description, in.Price, in.ImageURL, in.Category, in.Stock)
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// Update overwrites every writable field. It returns ErrNotFound when no
// row matches.
func (r *ProductRepo) Update(ctx context.Context, id string, in model.ProductInput) (model.Product, error) {
	const q = `UPDATE products
	           SET name = ?, description = ?, price = ?, image_url = ?, category = ?, stock = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.DB.ExecContext(ctx, q, in.Name, in.Description, in.Price, in.ImageURL, in.Category, in.Stock, id); err != nil {
		return model.Product{}, err
	}
	// MySQL reports 0 affected rows for an unchanged row, so confirm with a read.
	return r.Get(ctx, id)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
