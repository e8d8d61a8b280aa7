package transaction_test

import (
	"context"
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	"hotel/shared/failure"
	"hotel/shared/transaction"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactor(t *testing.T) (transaction.Transactor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := &postgres.Connection{Write: sqlx.NewDb(db, "sqlmock")}
	cfg := &config.Config{}
	cfg.Hotel.TxTimeoutSeconds = 5

	return transaction.New(conn, cfg, mocks.NewOtel()), mock
}

func TestWithinTx_Commit(t *testing.T) {
	tr, mock := newTransactor(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE invoices").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var hooked []string

	err := tr.WithinTx(context.Background(), "invoice.pay", func(ctx context.Context, tx *sqlx.Tx) error {
		transaction.OnCommit(ctx, func(context.Context) { hooked = append(hooked, "first") })

		if _, err := tx.ExecContext(ctx, "UPDATE invoices SET payment_status = 'Paid'"); err != nil {
			return err
		}

		transaction.OnCommit(ctx, func(context.Context) { hooked = append(hooked, "second") })

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, hooked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_Rollback(t *testing.T) {
	tests := []struct {
		name     string
		fnErr    error
		wantKind failure.Kind
		sameErr  bool
	}{
		{
			name:     "domain failure surfaces unchanged",
			fnErr:    failure.TerminalState("booking already completed"),
			wantKind: failure.KindTerminalState,
			sameErr:  true,
		},
		{
			name:     "wrapped domain failure surfaces unchanged",
			fnErr:    fmt.Errorf("mark completed: %w", failure.NotFound("booking not found")),
			wantKind: failure.KindNotFound,
			sameErr:  true,
		},
		{
			name:     "storage error becomes transaction aborted",
			fnErr:    errors.New("connection reset by peer"),
			wantKind: failure.KindTransactionAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, mock := newTransactor(t)

			mock.ExpectBegin()
			mock.ExpectRollback()

			hooked := false

			err := tr.WithinTx(context.Background(), "invoice.pay", func(ctx context.Context, _ *sqlx.Tx) error {
				transaction.OnCommit(ctx, func(context.Context) { hooked = true })

				return tt.fnErr
			})

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, failure.GetKind(err))
			assert.ErrorIs(t, err, tt.fnErr)

			if tt.sameErr {
				assert.Equal(t, tt.fnErr, err)
			}

			assert.False(t, hooked, "post-commit hooks must not run after rollback")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWithinTx_BeginFails(t *testing.T) {
	tr, mock := newTransactor(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := tr.WithinTx(context.Background(), "booking.create", func(context.Context, *sqlx.Tx) error {
		called = true

		return nil
	})

	assert.False(t, called)
	assert.True(t, failure.Is(err, failure.KindTransactionAborted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_CommitFails(t *testing.T) {
	tr, mock := newTransactor(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	hooked := false
	err := tr.WithinTx(context.Background(), "invoice.derive", func(ctx context.Context, _ *sqlx.Tx) error {
		transaction.OnCommit(ctx, func(context.Context) { hooked = true })

		return nil
	})

	assert.True(t, failure.Is(err, failure.KindTransactionAborted))
	assert.False(t, hooked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_PanicRollsBack(t *testing.T) {
	tr, mock := newTransactor(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tr.WithinTx(context.Background(), "booking.update", func(context.Context, *sqlx.Tx) error {
			panic("boom")
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnCommit_OutsideTransaction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var hookErr error

	transaction.OnCommit(ctx, func(c context.Context) { hookErr = c.Err() })

	assert.NoError(t, hookErr, "hooks run detached from the caller's cancellation")
}
