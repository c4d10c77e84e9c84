package query

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrUnknownQuestion is returned for ids missing from the catalog.
var ErrUnknownQuestion = errors.New("unknown question")

// DefaultView is the name the event log is registered under.
const DefaultView = "user_log_table"

// DefaultUserID is the user examined by the user-activity question.
const DefaultUserID = "1046"

// Params fills the placeholders of question queries.
type Params struct {
	// View is the event log view, referenced as {{.View}}.
	View string
	// UserID is bound to the user-activity query.
	UserID string
}

// Step is one query of a question. A step with View set materializes its
// result as a temp view instead of showing it.
type Step struct {
	SQL  string
	View string
	Bind func(p Params) []interface{}
}

// Question is a named business question answered by one or more steps.
type Question struct {
	ID        string
	Title     string
	Default   bool
	Functions []string
	Steps     []Step
}

// RenderedStep is a Step with its placeholders filled.
type RenderedStep struct {
	SQL  string
	View string
	Args []interface{}
}

// Render fills the step templates with p.
func (q Question) Render(p Params) ([]RenderedStep, error) {
	if p.View == "" {
		p.View = DefaultView
	}
	if p.UserID == "" {
		p.UserID = DefaultUserID
	}

	steps := make([]RenderedStep, len(q.Steps))
	for i, step := range q.Steps {
		tmpl, err := template.New(q.ID).Option("missingkey=error").Parse(step.SQL)
		if err != nil {
			return nil, fmt.Errorf("question %s step %d: %w", q.ID, i+1, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, p); err != nil {
			return nil, fmt.Errorf("question %s step %d: %w", q.ID, i+1, err)
		}
		steps[i] = RenderedStep{SQL: strings.TrimSpace(buf.String()), View: step.View}
		if step.Bind != nil {
			steps[i].Args = step.Bind(p)
		}
	}
	return steps, nil
}

var catalog = []Question{
	{
		ID:        "hourly-plays",
		Title:     "Songs played per hour of day",
		Default:   true,
		Functions: []string{"get_hour"},
		Steps: []Step{{SQL: `
SELECT get_hour(ts) AS hour, COUNT(*) AS plays_per_hour
FROM {{.View}}
WHERE page = 'NextSong'
GROUP BY hour
ORDER BY hour ASC NULLS FIRST`}},
	},
	{
		ID:      "guest-pages",
		Title:   `Pages visited by user id "" (logged out)`,
		Default: true,
		Steps: []Step{{SQL: `
SELECT DISTINCT page
FROM {{.View}}
WHERE userId = ''
ORDER BY page ASC`}},
	},
	{
		ID:      "female-users",
		Title:   "How many female users are in the data set?",
		Default: true,
		Steps: []Step{{SQL: `
SELECT COUNT(DISTINCT userId) AS female_user_count
FROM {{.View}}
WHERE gender = 'F'`}},
	},
	{
		ID:      "top-artist",
		Title:   "How many songs were played from the most played artist?",
		Default: true,
		Steps: []Step{{SQL: `
SELECT artist, COUNT(artist) AS play_count
FROM {{.View}}
GROUP BY artist
ORDER BY play_count DESC
LIMIT 1`}},
	},
	{
		ID:        "songs-between-home",
		Title:     "How many songs do users listen to on average between visiting the home page?",
		Default:   true,
		Functions: []string{"home_flag"},
		Steps: []Step{
			{
				View: "filtered_pages",
				SQL: `
SELECT *, SUM(home_flag(page)) OVER (
	PARTITION BY userId ORDER BY ts ASC
	ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW
) AS home_cumsum
FROM {{.View}}
WHERE page IN ('Home', 'NextSong') AND userId <> ''
ORDER BY userId, ts ASC`,
			},
			{SQL: `
SELECT ROUND(AVG(next_song_count)) AS avg_next_song_count
FROM (
	SELECT userId, home_cumsum, COUNT(*) AS next_song_count
	FROM filtered_pages
	WHERE page = 'NextSong'
	GROUP BY userId, home_cumsum
) AS counts
LIMIT 1`},
		},
	},
	{
		ID:    "sample-rows",
		Title: "First two events",
		Steps: []Step{{SQL: `
SELECT *
FROM {{.View}}
LIMIT 2`}},
	},
	{
		ID:    "row-count",
		Title: "Number of events",
		Steps: []Step{{SQL: `
SELECT COUNT(*) AS row_count
FROM {{.View}}`}},
	},
	{
		ID:    "user-activity",
		Title: "Activity of one user",
		Steps: []Step{{
			SQL: `
SELECT userId, firstname, page, song
FROM {{.View}}
WHERE userId = ?`,
			Bind: func(p Params) []interface{} { return []interface{}{p.UserID} },
		}},
	},
	{
		ID:    "distinct-pages",
		Title: "All pages",
		Steps: []Step{{SQL: `
SELECT DISTINCT page
FROM {{.View}}
ORDER BY page ASC`}},
	},
	{
		ID:    "guest-unvisited-pages",
		Title: `Which pages did user id "" (logged out) NOT visit?`,
		Steps: []Step{{SQL: `
SELECT DISTINCT page
FROM {{.View}}
WHERE page NOT IN (
	SELECT DISTINCT page
	FROM {{.View}}
	WHERE userId = ''
)
ORDER BY page ASC`}},
	},
}

// Questions returns the whole catalog in run order.
func Questions() []Question {
	out := make([]Question, len(catalog))
	copy(out, catalog)
	return out
}

// Defaults returns the ids run when none are requested.
func Defaults() []string {
	var ids []string
	for _, q := range catalog {
		if q.Default {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Lookup returns the question with the given id.
func Lookup(id string) (Question, error) {
	for _, q := range catalog {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
}
