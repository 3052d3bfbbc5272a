// Package pool implements a fixed-size set of pre-opened export
// sessions (spec §4.7), grounded on the original ConnectionPool's
// BlockingQueue acquire/release shape but built on a buffered channel so
// acquire order is FIFO without extra bookkeeping.
package pool

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// sessionInitSQL is run once per pooled connection immediately after open,
// matching the original pool's autocommit-off / READ UNCOMMITTED / read-only
// session setup for export workloads.
const sessionInitSQL = `SET TRANSACTION ISOLATION LEVEL READ UNCOMMITTED`

// Pool is a bounded set of *sql.Conn sessions sized to parallelThreads.
// A broken session is never replaced mid-run, and Acquire does not validate
// a session before handing it out; errors surface on the caller's first
// query.
type Pool struct {
	db       *sql.DB
	sessions chan *sql.Conn
	sem      *semaphore.Weighted
	size     int
	active   atomic.Int32
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Open pre-creates size sessions against db and readies them for read-only
// export use. Failure to open any session aborts the whole pool.
func Open(ctx context.Context, db *sql.DB, size int, log *slog.Logger) (*Pool, error) {
	if log == nil {
		log = slog.Default()
	}

	p := &Pool{
		db:       db,
		sessions: make(chan *sql.Conn, size),
		sem:      semaphore.NewWeighted(int64(size)),
		size:     size,
		log:      log,
	}

	log.Info("initializing connection pool", "size", size)

	for i := 0; i < size; i++ {
		conn, err := db.Conn(ctx)
		if err != nil {
			p.closeOpened()
			return nil, fmt.Errorf("pool: open session %d/%d: %w", i+1, size, err)
		}
		if _, err := conn.ExecContext(ctx, sessionInitSQL); err != nil {
			conn.Close()
			p.closeOpened()
			return nil, fmt.Errorf("pool: configure session %d/%d: %w", i+1, size, err)
		}
		p.sessions <- conn
	}

	log.Info("connection pool initialized")
	return p, nil
}

func (p *Pool) closeOpened() {
	close(p.sessions)
	for conn := range p.sessions {
		conn.Close()
	}
}

// Acquire blocks until a session is available or ctx is cancelled. The
// weighted semaphore gates entry so a waiter never holds a channel receive
// open past its ctx deadline; the channel itself still carries the actual
// *sql.Conn to preserve FIFO acquire order.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	select {
	case conn, ok := <-p.sessions:
		if !ok {
			p.sem.Release(1)
			return nil, fmt.Errorf("pool: closed")
		}
		active := p.active.Add(1)
		p.log.Debug("session acquired", "active", active, "size", p.size)
		return conn, nil
	case <-ctx.Done():
		p.sem.Release(1)
		return nil, ctx.Err()
	}
}

// Release returns conn to the pool. A nil conn is a no-op. Releasing after
// Shutdown panics, which indicates a caller bug rather than a runtime
// condition to recover from.
func (p *Pool) Release(conn *sql.Conn) {
	if conn == nil {
		return
	}
	active := p.active.Add(-1)
	p.log.Debug("session released", "active", active, "size", p.size)
	p.sessions <- conn
	p.sem.Release(1)
}

// Shutdown closes every pooled session. Safe to call once; a second call
// is a no-op.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	p.log.Info("shutting down connection pool")
	close(p.sessions)
	for conn := range p.sessions {
		if err := conn.Close(); err != nil {
			p.log.Warn("error closing session", "error", err)
		}
	}
	p.log.Info("connection pool shutdown complete")
}

// Size reports the fixed pool capacity.
func (p *Pool) Size() int { return p.size }

// ActiveCount reports the number of sessions currently checked out.
func (p *Pool) ActiveCount() int { return int(p.active.Load()) }
