// Package database keeps a single lazily-opened Postgres pool that survives
// between requests and is rebuilt after the connection breaks.
package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrMissingURL = errors.New("DATABASE_URL is not set")

// State mirrors the connection lifecycle reported by the diagnostic endpoint.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Provider hands out the pool repositories run their queries on.
type Provider interface {
	DB(ctx context.Context) (*sql.DB, error)
}

// Options tunes the pool and the connection attempt.
type Options struct {
	MaxPoolSize    int
	MaxIdleTime    time.Duration
	ConnectTimeout time.Duration
	// OnConnect runs once per freshly opened pool, before it is cached.
	OnConnect func(ctx context.Context, db *sql.DB) error
}

// Connector caches one *sql.DB. Concurrent callers share a single
// connection attempt; a failed attempt is not cached.
type Connector struct {
	url  string
	opts Options
	log  *zap.Logger
	open func(driverName, dsn string) (*sql.DB, error)

	mu         sync.Mutex
	db         *sql.DB
	connecting bool
	group      singleflight.Group
}

func NewConnector(url string, opts Options, log *zap.Logger) *Connector {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	return &Connector{url: url, opts: opts, log: log, open: sql.Open}
}

// DB returns the cached pool, connecting first when needed.
func (c *Connector) DB(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	db := c.db
	c.mu.Unlock()
	if db != nil {
		return db, nil
	}

	ch := c.group.DoChan("connect", func() (any, error) {
		return c.connect(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*sql.DB), nil
	}
}

func (c *Connector) connect(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	if c.db != nil {
		db := c.db
		c.mu.Unlock()
		return db, nil
	}
	c.connecting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.connecting = false
		c.mu.Unlock()
	}()

	if c.url == "" {
		return nil, ErrMissingURL
	}

	c.log.Info("creating new database connection")
	start := time.Now()

	db, err := c.open("pgx", c.url)
	if err != nil {
		c.log.Error("database connection failed", zap.Error(err))
		return nil, fmt.Errorf("open database: %w", err)
	}
	if c.opts.MaxPoolSize > 0 {
		db.SetMaxOpenConns(c.opts.MaxPoolSize)
		db.SetMaxIdleConns(c.opts.MaxPoolSize)
	}
	if c.opts.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(c.opts.MaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.opts.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		c.log.Error("database connection failed", zap.Error(err))
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if c.opts.OnConnect != nil {
		if err := c.opts.OnConnect(pingCtx, db); err != nil {
			_ = db.Close()
			c.log.Error("database setup failed", zap.Error(err))
			return nil, fmt.Errorf("prepare database: %w", err)
		}
	}

	c.mu.Lock()
	c.db = db
	c.mu.Unlock()
	c.log.Info("database connected", zap.Duration("elapsed", time.Since(start)))
	return db, nil
}

// Invalidate drops the cached pool when err shows the connection is gone,
// so the next call to DB reconnects. Other errors are ignored.
func (c *Connector) Invalidate(err error) {
	if !IsConnectionError(err) {
		return
	}
	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()
	if db != nil {
		c.log.Warn("database disconnected, dropping cached connection", zap.Error(err))
		_ = db.Close()
	}
}

// State reports whether a pool is cached or being opened.
func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.db != nil:
		return StateConnected
	case c.connecting:
		return StateConnecting
	default:
		return StateDisconnected
	}
}

func (c *Connector) Close() error {
	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()
	if db == nil {
		return nil
	}
	return db.Close()
}

// IsConnectionError reports errors after which the pool should be rebuilt.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

type static struct{ db *sql.DB }

// Static wraps an already opened pool, e.g. a sqlmock in tests.
func Static(db *sql.DB) Provider {
	return static{db: db}
}

func (s static) DB(context.Context) (*sql.DB, error) {
	return s.db, nil
}

// Report forwards err to the provider so a broken pool gets dropped, and
// returns err unchanged.
func Report(p Provider, err error) error {
	if inv, ok := p.(interface{ Invalidate(error) }); ok && err != nil {
		inv.Invalidate(err)
	}
	return err
}
