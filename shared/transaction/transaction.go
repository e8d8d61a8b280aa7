// Package transaction runs composite writes as one unit of work on the write connection.
//
// Every write that touches more than one table (booking + room, invoice + booking) goes through
// Transactor.WithinTx. Work that must only happen once the data is durable (cache invalidation,
// event publishing) is registered with OnCommit from inside the unit and runs after COMMIT.
package transaction

//go:generate go run go.uber.org/mock/mockgen -source=./transaction.go -destination=./mocks/transaction_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Func func(ctx context.Context, tx *sqlx.Tx) error

type Transactor interface {
	WithinTx(ctx context.Context, name string, fn Func) error
}

type hooksKey struct{}

type hooks struct {
	fns []func(ctx context.Context)
}

type transactorImpl struct {
	db      *postgres.Connection
	otel    otel.Otel
	timeout time.Duration
}

func New(db *postgres.Connection, cfg *config.Config, otel otel.Otel) Transactor {
	return &transactorImpl{
		db:      db,
		otel:    otel,
		timeout: time.Duration(cfg.Hotel.TxTimeoutSeconds) * time.Second,
	}
}

// WithinTx begins a read committed transaction, runs fn and commits. Any error or panic from fn
// rolls everything back. A *failure.Failure returned by fn is surfaced as is, anything else is
// reported as a TransactionAborted failure.
func (t *transactorImpl) WithinTx(ctx context.Context, name string, fn Func) (err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelTransactionScopeName, constant.OtelTransactionScopeName+"."+name)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	txCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc

		txCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.Write.BeginTxx(txCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		log.Error().Err(err).Str("tx", name).Msg("failed to begin transaction")

		return failure.TransactionAborted(name, err) //nolint:wrapcheck
	}

	registry := &hooks{}
	txCtx = context.WithValue(txCtx, hooksKey{}, registry)

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Str("tx", name).Msg("failed to rollback transaction after panic")
			}

			panic(p)
		}
	}()

	if err = fn(txCtx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Str("tx", name).Msg("failed to rollback transaction")
		}

		log.Warn().Err(err).Str("tx", name).Msg("transaction rolled back")

		return abort(name, err)
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Str("tx", name).Msg("failed to commit transaction")

		return failure.TransactionAborted(name, err) //nolint:wrapcheck
	}

	after := context.WithoutCancel(ctx)
	for _, hook := range registry.fns {
		hook(after)
	}

	return nil
}

// OnCommit defers hook until the surrounding transaction commits. Outside a transaction the hook
// runs immediately.
func OnCommit(ctx context.Context, hook func(ctx context.Context)) {
	if registry, ok := ctx.Value(hooksKey{}).(*hooks); ok {
		registry.fns = append(registry.fns, hook)

		return
	}

	hook(context.WithoutCancel(ctx))
}

func abort(name string, err error) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	return failure.TransactionAborted(name, err) //nolint:wrapcheck
}
