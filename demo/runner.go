// Package demo implements the three systime demo blocks as independent
// operations on a Runner.
package demo

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/mevdschee/systime/config"
	"github.com/mevdschee/systime/metrics"
	"github.com/mevdschee/systime/pattern"
	"github.com/mevdschee/systime/store"
	"github.com/mevdschee/systime/timestamp"
)

// Values written by the database round trip
const (
	sampleMemo     = "Theo is cute"
	sampleImportTS = "210723120000+0000"
	sampleImportTZ = "961219163957+0000"
)

// sample is one entry of the datetime demo
type sample struct {
	text    string
	pattern string
	iso     bool // also print the ISO renderings
}

var samples = []sample{
	{"961219163957+0000", pattern.Compact, false},
	{"1996-12-19T16:39:57-00:00", pattern.RFC3339, false},
	{"2018-01-26T18:30:09.453Z", pattern.RFC3339, true},
	{"2021-01-01T05:00:00.003Z", pattern.RFC3339, true},
}

// Opener connects to a store
type Opener func(ctx context.Context, cfg *config.Config) (store.Store, error)

// Runner runs demo operations. Operations report failures as errors and
// never exit the process.
type Runner struct {
	Config *config.Config
	Out    io.Writer
	Clock  func() time.Time
	Open   Opener

	// InitSchema creates the demo table before the database round trip,
	// dropping an existing one first when DropTable is set
	InitSchema bool
	DropTable  bool
}

// NewRunner returns a Runner using the system clock and store.Open
func NewRunner(cfg *config.Config, out io.Writer) *Runner {
	return &Runner{
		Config: cfg,
		Out:    out,
		Clock:  time.Now,
		Open:   store.Open,
	}
}

// Run invokes each selected demo in order and stops at the first error
func (r *Runner) Run(ctx context.Context, set Set) error {
	for _, d := range set.List() {
		if err := r.RunDemo(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// RunDemo invokes a single demo
func (r *Runner) RunDemo(ctx context.Context, d Demo) error {
	var op func(context.Context) error
	switch d {
	case DBRoundTrip:
		op = r.DBRoundTrip
	case ConfigDump:
		op = r.ConfigDump
	case Datetime:
		op = r.Datetime
	default:
		return fmt.Errorf("%w: %v", ErrUnknownDemo, d)
	}

	log.Printf("[Demo] Running %s", d)
	start := time.Now()
	err := op(ctx)
	metrics.DemoDuration.WithLabelValues(d.String()).Observe(time.Since(start).Seconds())
	metrics.DemoRuns.WithLabelValues(d.String(), metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("%s demo: %w", d, err)
	}
	return nil
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format, args...)
}

func parse(text, layout string) (timestamp.OffsetDatetime, error) {
	dt, err := timestamp.Parse(text, layout)
	metrics.Parses.WithLabelValues(layout, metrics.Result(err)).Inc()
	return dt, err
}

// DBRoundTrip inserts the sample row, prints what the database returned,
// then prints every row of the table
func (r *Runner) DBRoundTrip(ctx context.Context) error {
	if r.Open == nil {
		return ErrNoStore
	}

	tz, err := parse(sampleImportTZ, pattern.Compact)
	if err != nil {
		return err
	}
	ts, err := parse(sampleImportTS, pattern.Compact)
	if err != nil {
		return err
	}

	s, err := r.Open(ctx, r.Config)
	if err != nil {
		return err
	}
	defer s.Close()

	if r.InitSchema {
		if err := s.CreateTable(ctx, r.DropTable); err != nil {
			return err
		}
	}

	inserted, err := s.Insert(ctx, store.Row{
		Memo:     sampleMemo,
		ImportTS: timestamp.ToInstant(ts),
		ImportTZ: tz,
	})
	if err != nil {
		return err
	}
	metrics.Rows.WithLabelValues("insert").Inc()
	r.printf("inserted: memo = %s, import_ts = %s, import_tz = %s\n",
		inserted.Memo,
		timestamp.SlashSeconds.Text(inserted.ImportTS),
		timestamp.SlashSeconds.Text(inserted.ImportTZ))

	rows, err := s.List(ctx)
	if err != nil {
		return err
	}
	metrics.Rows.WithLabelValues("select").Add(float64(len(rows)))
	for _, row := range rows {
		r.printf("memo = %s, import_ts = %s, import_tz = %s\n",
			row.Memo,
			timestamp.SlashSeconds.Text(row.ImportTS),
			timestamp.SlashSeconds.Text(row.ImportTZ))
	}
	return nil
}

// ConfigDump prints the loaded configuration and where it came from
func (r *Runner) ConfigDump(ctx context.Context) error {
	if r.Config == nil {
		return fmt.Errorf("%w: no configuration loaded", config.ErrConfigValidate)
	}
	return r.Config.Dump(r.Out)
}

// Datetime prints the system clock and takes each sample through an
// Instant and back, checking that only the offset is lost
func (r *Runner) Datetime(ctx context.Context) error {
	now := timestamp.Now(r.Clock)
	r.printf("current now() from system time = %s\n", timestamp.SlashSeconds.Text(now))

	for i, smp := range samples {
		n := i + 1
		dt, err := parse(smp.text, smp.pattern)
		if err != nil {
			return err
		}
		r.printf("%d: arbitrary datetime = %s\n", n, timestamp.SlashSeconds.Text(dt))

		back := timestamp.ToOffsetDatetimeUTC(timestamp.ToInstant(dt))
		if !back.Equal(dt.UTC()) {
			return fmt.Errorf("%w: %s became %s", ErrRoundTrip, dt, back)
		}
		r.printf("%d: back to datetime from instant = %s\n", n, timestamp.SlashSeconds.Text(back))

		if smp.iso {
			r.printf("%d: iso8601 = %s\n", n, timestamp.ISO8601.Text(back))
			r.printf("%d: fractional = %s\n", n, timestamp.ISOFractional.Text(back))
		}
	}
	return nil
}
