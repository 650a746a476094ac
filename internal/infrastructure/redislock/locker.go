// Package redislock serializa operaciones sobre un mismo lote entre instancias usando Redis (Redlock).
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var _ inventory.BatchLocker = (*Locker)(nil)

// ErrLockBusy no se obtuvo el lock dentro de los reintentos configurados.
var ErrLockBusy = errors.New("lote bloqueado por otra operación")

// Options parámetros del mutex.
type Options struct {
	Expiry     time.Duration
	Tries      int
	RetryDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Expiry <= 0 {
		o.Expiry = 10 * time.Second
	}
	if o.Tries <= 0 {
		o.Tries = 32
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 50 * time.Millisecond
	}
	return o
}

// Locker implementación de inventory.BatchLocker sobre redsync.
type Locker struct {
	rs   *redsync.Redsync
	opts Options
	log  zerolog.Logger
}

// New construye el locker sobre un cliente go-redis.
func New(client redis.UniversalClient, opts Options, log zerolog.Logger) *Locker {
	return &Locker{
		rs:   redsync.New(goredis.NewPool(client)),
		opts: opts.withDefaults(),
		log:  log,
	}
}

// WithLock ejecuta fn con el lock key tomado. El lock se libera al terminar, aun si fn falla.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(l.opts.Expiry),
		redsync.WithTries(l.opts.Tries),
		redsync.WithRetryDelay(l.opts.RetryDelay),
	)
	if err := mutex.LockContext(ctx); err != nil {
		if isContention(err) {
			return fmt.Errorf("%s: %w: %w", key, ErrLockBusy, domain.ErrConflict)
		}
		return fmt.Errorf("tomar lock %s: %w", key, err)
	}
	defer func() {
		if ok, err := mutex.UnlockContext(context.WithoutCancel(ctx)); !ok || err != nil {
			l.log.Warn().Err(err).Str("lock_key", key).Msg("no se pudo liberar el lock")
		}
	}()
	return fn(ctx)
}

// isContention distingue un lock tomado por otro proceso de un fallo de comunicación con Redis.
func isContention(err error) bool {
	return errors.Is(err, redsync.ErrFailed) ||
		errors.As(err, new(*redsync.ErrTaken)) ||
		errors.As(err, new(*redsync.ErrNodeTaken))
}

// Ping verifica la conexión con Redis al arrancar.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
