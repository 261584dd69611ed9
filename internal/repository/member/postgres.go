package member

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-purchase/internal/domain"
	cartsvc "storefront-purchase/internal/service/cart"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns the member resolver backed by the members table.
func NewPostgres(pool *pgxpool.Pool) cartsvc.MemberService {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByID(ctx context.Context, memberID string) (*domain.Member, error) {
	const q = `
SELECT id::text, COALESCE(name, ''), COALESCE(email, '')
FROM members
WHERE id::text = $1
`
	var m domain.Member
	err := r.pool.QueryRow(ctx, q, memberID).Scan(&m.ID, &m.Name, &m.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
