// Package database opens the MySQL connection pool and applies the
// embedded schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// Options describes the MySQL connection. Zero pool values take the
// defaults below.
type Options struct {
	User, Pass, Host, Port, Name string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	// Attempts is how many times the initial ping is tried before Open
	// gives up; the wait doubles after each failure.
	Attempts int
}

func (o Options) withDefaults() Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 25
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = 30 * time.Minute
	}
	if o.Attempts <= 0 {
		o.Attempts = 1
	}
	return o
}

// DSN builds the driver connection string. parseTime maps DATE/DATETIME
// onto time.Time and loc=UTC keeps calendar days stable across hosts.
func DSN(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = user + ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC", auth, host, port, name)
}

// Open builds the pool and waits until MySQL answers a ping.
func Open(ctx context.Context, o Options, log logrus.FieldLogger) (*sql.DB, error) {
	o = o.withDefaults()
	db, err := sql.Open("mysql", DSN(o.User, o.Pass, o.Host, o.Port, o.Name))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(o.MaxOpenConns)
	db.SetMaxIdleConns(o.MaxOpenConns)
	db.SetConnMaxLifetime(o.ConnMaxLifetime)

	if err := waitReady(ctx, db, o.Attempts, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Pinger is the part of *sql.DB waitReady needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func waitReady(ctx context.Context, db Pinger, attempts int, log logrus.FieldLogger) error {
	wait := 500 * time.Millisecond
	var err error
	for i := 1; i <= attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pctx)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		if log != nil {
			log.WithError(err).WithField("attempt", i).Warn("mysql not ready, retrying")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("ping mysql after %d attempts: %w", attempts, err)
}
