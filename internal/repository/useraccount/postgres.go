package useraccount

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

// NewPostgres returns the identity-side account resolver backed by the
// user_accounts table.
func NewPostgres(pool *pgxpool.Pool) cartsvc.UserAccountService {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByID(ctx context.Context, userID string) (*domain.UserAccount, error) {
	const q = `
SELECT id::text, user_name, COALESCE(member_id::text, '')
FROM user_accounts
WHERE id::text = $1
`
	var u domain.UserAccount
	err := r.pool.QueryRow(ctx, q, userID).Scan(&u.ID, &u.UserName, &u.MemberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
