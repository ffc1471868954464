// Command clepmatch runs a learner match against the reference tables and
// prints the qualifying institutions.
//
//	clepmatch -score 14=55 -score "College Algebra=62" -state NY
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/peterbourgon/ff/v3"

	"github.com/clepbridge/clepbridge/internal/catalog"
	"github.com/clepbridge/clepbridge/internal/config"
	"github.com/clepbridge/clepbridge/internal/match"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.Red("clepmatch: %v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("clepmatch", flag.ContinueOnError)
	var scores scoreFlags
	var (
		driver  = fs.String("db-driver", cfg.DBDriver, "sqlite|postgres|pgxpool")
		dsn     = fs.String("db-dsn", cfg.DBDSN, "database connection string")
		zip     = fs.String("zip", "", "only institutions in this 5-digit ZIP")
		state   = fs.String("state", "", "only institutions in this 2-letter state")
		asJSON  = fs.Bool("json", false, "print results as JSON")
		timeout = fs.Duration("timeout", 15*time.Second, "overall timeout")
	)
	fs.Var(&scores, "score", "exam=score, exam by id or name (repeatable)")

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("CLEPMATCH")); err != nil {
		return err
	}
	if len(scores) == 0 {
		return errors.New("at least one -score is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, closeStore, err := catalog.Open(ctx, *driver, *dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", *driver, err)
	}
	defer closeStore()

	exams, err := store.ListExams(ctx)
	if err != nil {
		return err
	}
	learner, err := match.Intake(exams, match.IntakeRequest{Entries: scores, Zipcode: *zip})
	if err != nil {
		return err
	}

	results, err := match.NewEngine(store).Match(ctx, learner, match.GeoFilter{Zipcode: *zip, State: *state})
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	color.Cyan("\n%d matching acceptance policies", len(results))
	renderTable(os.Stdout, results)
	return nil
}
