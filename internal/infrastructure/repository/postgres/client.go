package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/streamhub/account-server/internal/domain"
)

func OpenDatabaseConnPool(dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, domain.ErrDbConnection
	}
	return pool, nil
}
