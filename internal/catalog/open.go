package catalog

import (
	"context"

	"github.com/clepbridge/clepbridge/internal/db"
	"github.com/clepbridge/clepbridge/internal/match"
)

// Store is everything the learner surfaces read.
type Store interface {
	match.Source
	match.ExamLister
}

// Open connects with the named driver (sqlite, postgres or pgxpool) and
// returns the matching store plus a close func.
func Open(ctx context.Context, driver, dsn string) (Store, func(), error) {
	if db.Normalize(db.Driver(driver)) == db.DriverPgxPool {
		pool, err := db.OpenPool(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return NewPGStore(pool), pool.Close, nil
	}
	dbh, err := db.Open(ctx, db.Driver(driver), dsn)
	if err != nil {
		return nil, nil, err
	}
	return NewSQLStore(dbh), func() { _ = dbh.Close() }, nil
}
