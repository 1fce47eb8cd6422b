package bunrepo

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-leadcards/pkg/interfaces/store"
	"github.com/uptrace/bun"
)

type txKey struct{}

// TxManager runs callbacks inside a bun transaction. Repositories called with
// the callback's context write through that transaction.
type TxManager struct {
	db *bun.DB
}

var _ store.TransactionManager = (*TxManager)(nil)

func NewTxManager(db *bun.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	if _, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return fn(ctx)
	}
	return m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or db.
func conn(ctx context.Context, db *bun.DB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return db
}
