package postgres

import (
	"context"

	"github.com/pashagolub/pgxmock/v3"
)

// setupMockContext stores the mock pool under the transaction key so
// BaseRepository.conn resolves to the mock instead of a real pool.
func setupMockContext(mock pgxmock.PgxPoolIface) context.Context {
	return context.WithValue(context.Background(), txKey, mock)
}
