package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool は Supabase の PostgreSQL への接続プールを生成し、疎通確認する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
