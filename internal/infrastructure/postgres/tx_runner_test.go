package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/atelier-api/internal/domain"
)

func newRetryRunner(maxRetries int, backoff time.Duration) *TxRunner {
	return &TxRunner{maxRetries: maxRetries, backoff: backoff, log: zerolog.Nop()}
}

// failing devuelve los errores en orden y luego nil; cuenta los intentos.
func failing(errs ...error) (func(context.Context) error, *int) {
	calls := 0
	return func(context.Context) error {
		calls++
		if calls <= len(errs) {
			return errs[calls-1]
		}
		return nil
	}, &calls
}

var (
	errSerialization = &pgconn.PgError{Code: sqlStateSerializationFailure, Message: "could not serialize access"}
	errDeadlock      = &pgconn.PgError{Code: sqlStateDeadlockDetected, Message: "deadlock detected"}
)

func TestTxRunnerRetry_ReintentaHastaExito(t *testing.T) {
	r := newRetryRunner(3, time.Millisecond)
	once, calls := failing(errSerialization, errDeadlock)

	require.NoError(t, r.retry(context.Background(), once))
	assert.Equal(t, 3, *calls)
}

func TestTxRunnerRetry_AgotadoDevuelveConflicto(t *testing.T) {
	r := newRetryRunner(2, time.Millisecond)
	once, calls := failing(errSerialization, errSerialization, errSerialization, errSerialization)

	err := r.retry(context.Background(), once)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "SQLSTATE 40001")
	assert.Equal(t, 3, *calls, "un intento más maxRetries reintentos")
}

func TestTxRunnerRetry_SinReintentos(t *testing.T) {
	r := newRetryRunner(0, time.Millisecond)
	once, calls := failing(errDeadlock)

	assert.ErrorIs(t, r.retry(context.Background(), once), domain.ErrConflict)
	assert.Equal(t, 1, *calls)
}

func TestTxRunnerRetry_ErrorNoReintentableSaleEnseguida(t *testing.T) {
	r := newRetryRunner(3, time.Millisecond)
	unique := &pgconn.PgError{Code: sqlStateUniqueViolation}
	once, calls := failing(unique)

	err := r.retry(context.Background(), once)
	assert.Same(t, unique, err, "el error vuelve sin envolver")
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, *calls)

	boom := errors.New("boom")
	once, calls = failing(boom)
	assert.Equal(t, boom, r.retry(context.Background(), once))
	assert.Equal(t, 1, *calls)
}

func TestTxRunnerRetry_CancelacionCortaLaEspera(t *testing.T) {
	r := newRetryRunner(5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	once := func(context.Context) error {
		calls++
		cancel()
		return errSerialization
	}

	start := time.Now()
	err := r.retry(ctx, once)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestTxRunnerRetry_EsperaLineal(t *testing.T) {
	r := newRetryRunner(2, 20*time.Millisecond)
	once, _ := failing(errSerialization, errSerialization)

	start := time.Now()
	require.NoError(t, r.retry(context.Background(), once))
	// 20ms + 40ms entre los tres intentos
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}
