package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getUserByID = `
SELECT id, email, first_name, last_name, role, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id pgtype.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserBySessionToken = `
SELECT u.id, u.email, u.first_name, u.last_name, u.role, u.created_at, u.updated_at
FROM users u
JOIN sessions s ON s.user_id = u.id
WHERE s.token = $1 AND s.expires_at > now()
`

func (q *Queries) GetUserBySessionToken(ctx context.Context, token string) (User, error) {
	row := q.db.QueryRow(ctx, getUserBySessionToken, token)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getAddressForUser = `
SELECT id, user_id, full_name, line1, line2, city, region, postal_code, country, created_at
FROM addresses
WHERE id = $1 AND user_id = $2
`

type GetAddressForUserParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) GetAddressForUser(ctx context.Context, arg GetAddressForUserParams) (Address, error) {
	row := q.db.QueryRow(ctx, getAddressForUser, arg.ID, arg.UserID)
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Line1, &a.Line2, &a.City, &a.Region, &a.PostalCode, &a.Country, &a.CreatedAt)
	return a, err
}

const getAddressByID = `
SELECT id, user_id, full_name, line1, line2, city, region, postal_code, country, created_at
FROM addresses
WHERE id = $1
`

func (q *Queries) GetAddressByID(ctx context.Context, id pgtype.UUID) (Address, error) {
	row := q.db.QueryRow(ctx, getAddressByID, id)
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Line1, &a.Line2, &a.City, &a.Region, &a.PostalCode, &a.Country, &a.CreatedAt)
	return a, err
}

const getProduct = `
SELECT id, name, description, price_cents, currency, active, created_at, updated_at
FROM products
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id pgtype.UUID) (Product, error) {
	row := q.db.QueryRow(ctx, getProduct, id)
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Currency, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
