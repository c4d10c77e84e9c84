package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/vegasq/logwrangle/internal/logging"
	"github.com/vegasq/logwrangle/session"
)

// Options configures a Runner.
type Options struct {
	Params Params

	// Location is the zone get_hour reads hours in; nil means time.Local.
	Location *time.Location

	ShowRows  int
	Truncate  bool
	KeepGoing bool

	// Titles receives each question title before its results. Nil
	// suppresses titles.
	Titles io.Writer
	Logger *zerolog.Logger
}

// Runner answers catalog questions on a session.
type Runner struct {
	session   *session.Session
	functions *FunctionRegistry
	opts      Options
	log       zerolog.Logger
}

// HourCount is one row of the hourly-plays question.
type HourCount struct {
	Hour  int
	Plays int64
}

// NewRunner creates a runner over s. Helper functions are registered on s
// the first time a question needs them.
func NewRunner(s *session.Session, opts Options) *Runner {
	if opts.ShowRows <= 0 {
		opts.ShowRows = 20
	}
	log := logging.WithComponent("query")
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Runner{
		session:   s,
		functions: Helpers(opts.Location),
		opts:      opts,
		log:       log,
	}
}

// Run answers the questions with the given ids in order, or the default
// questions when ids is empty. It stops at the first failure unless
// KeepGoing is set, in which case all failures are joined.
func (r *Runner) Run(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		ids = Defaults()
	}

	questions := make([]Question, len(ids))
	for i, id := range ids {
		q, err := Lookup(id)
		if err != nil {
			return err
		}
		questions[i] = q
	}

	var errs []error
	for _, q := range questions {
		if err := r.run(ctx, q); err != nil {
			err = fmt.Errorf("question %s: %w", q.ID, err)
			if !r.opts.KeepGoing {
				return err
			}
			r.log.Error().Err(err).Str("question", q.ID).Msg("Question failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) run(ctx context.Context, q Question) error {
	if err := r.ensureFunctions(ctx, q.Functions); err != nil {
		return err
	}

	steps, err := q.Render(r.opts.Params)
	if err != nil {
		return err
	}

	if r.opts.Titles != nil {
		if _, err := fmt.Fprintf(r.opts.Titles, "\n%s\n", q.Title); err != nil {
			return err
		}
	}

	start := time.Now()
	for _, step := range steps {
		df, err := r.session.SQL(ctx, step.SQL, step.Args...)
		if err != nil {
			return err
		}
		if step.View != "" {
			if err := df.CreateOrReplaceTempView(ctx, step.View); err != nil {
				return err
			}
			continue
		}
		if err := df.Show(ctx, r.opts.ShowRows, r.opts.Truncate); err != nil {
			return err
		}
	}
	r.log.Debug().Str("question", q.ID).Dur("elapsed", time.Since(start)).Msg("Question answered")
	return nil
}

// ensureFunctions registers the named helpers the session does not have yet.
func (r *Runner) ensureFunctions(ctx context.Context, names []string) error {
	for _, name := range names {
		if r.session.HasFunction(name) {
			continue
		}
		f, ok := r.functions.Get(name)
		if !ok {
			return fmt.Errorf("no helper function named %s", name)
		}
		if err := r.session.RegisterFunction(ctx, Definition(f)); err != nil {
			return err
		}
	}
	return nil
}

// HourlyPlays collects the hourly-plays question into memory. The group of
// plays whose ts is NULL is left out.
func (r *Runner) HourlyPlays(ctx context.Context) ([]HourCount, error) {
	q, err := Lookup("hourly-plays")
	if err != nil {
		return nil, err
	}
	if err := r.ensureFunctions(ctx, q.Functions); err != nil {
		return nil, err
	}
	steps, err := q.Render(r.opts.Params)
	if err != nil {
		return nil, err
	}

	df, err := r.session.SQL(ctx, steps[0].SQL, steps[0].Args...)
	if err != nil {
		return nil, err
	}
	rows, err := df.Collect(ctx)
	if err != nil {
		return nil, err
	}

	counts := make([]HourCount, 0, len(rows))
	for _, row := range rows {
		hour, _ := row.Get("hour")
		plays, _ := row.Get("plays_per_hour")
		if hour == nil {
			// plays without a timestamp have no hour
			r.log.Warn().Interface("plays", plays).Msg("Skipping plays with no timestamp")
			continue
		}
		h, err := valueToNumber(hour)
		if err != nil {
			return nil, fmt.Errorf("hour: %w", err)
		}
		p, err := valueToNumber(plays)
		if err != nil {
			return nil, fmt.Errorf("plays_per_hour: %w", err)
		}
		counts = append(counts, HourCount{Hour: int(h), Plays: int64(p)})
	}
	return counts, nil
}
