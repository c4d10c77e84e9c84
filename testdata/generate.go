// Command generate writes a synthetic event log for trying logwrangle on
// larger inputs:
//
//	go run ./testdata/generate.go -events 100000 -out data/sparkify_log_large
//
// It writes <out>.json (JSON Lines) and <out>.parquet with the same rows.
package main

import (
	"bufio"
	"flag"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/logwrangle/internal/logging"
)

// Event is one page request in the log.
type Event struct {
	Artist        *string  `parquet:"artist" json:"artist"`
	Auth          string   `parquet:"auth" json:"auth"`
	FirstName     *string  `parquet:"firstName" json:"firstName"`
	Gender        *string  `parquet:"gender" json:"gender"`
	ItemInSession int64    `parquet:"itemInSession" json:"itemInSession"`
	LastName      *string  `parquet:"lastName" json:"lastName"`
	Length        *float64 `parquet:"length" json:"length"`
	Level         string   `parquet:"level" json:"level"`
	Location      *string  `parquet:"location" json:"location"`
	Method        string   `parquet:"method" json:"method"`
	Page          string   `parquet:"page" json:"page"`
	Registration  *int64   `parquet:"registration" json:"registration"`
	SessionID     int64    `parquet:"sessionId" json:"sessionId"`
	Song          *string  `parquet:"song" json:"song"`
	Status        int64    `parquet:"status" json:"status"`
	TS            int64    `parquet:"ts" json:"ts"`
	UserAgent     *string  `parquet:"userAgent" json:"userAgent"`
	UserID        string   `parquet:"userId" json:"userId"`
}

type user struct {
	id, first, last, gender, level, location, agent string

	registration int64
	session      int64
	item         int64
}

var (
	firstNames = []string{"Kenneth", "Kael", "Sienna", "Lily", "Ethan", "Maya", "Noah", "Ava"}
	lastNames  = []string{"Matthews", "Baker", "Colon", "Hughes", "Ramirez", "Ford"}
	locations  = []string{
		"Charlotte-Concord-Gastonia, NC-SC",
		"Kingsport-Bristol-Bristol, TN-VA",
		"Tampa-St. Petersburg-Clearwater, FL",
		"Los Angeles-Long Beach-Anaheim, CA",
	}
	agents = []string{
		"Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/37.0.2062.103 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_4) AppleWebKit/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 7_1_2 like Mac OS X)",
	}
	artists = []string{"Coldplay", "Kings Of Leon", "Florence + The Machine", "Dwight Yoakam", "Showaddywaddy", "Lily Allen"}
	songs   = []string{"Yellow", "Use Somebody", "Dog Days Are Over", "You're The One", "Under The Moon Of Love", "Cheryl Tweedy"}

	// page weights for logged-in users; NextSong dominates as in real logs
	pages = []struct {
		name   string
		weight int
	}{
		{"NextSong", 80}, {"Home", 8}, {"Thumbs Up", 4}, {"Add to Playlist", 2},
		{"Settings", 2}, {"Help", 2}, {"About", 1}, {"Logout", 1},
	}
	guestPages = []string{"Home", "About", "Login", "Help", "Register"}
)

func main() {
	var (
		events = flag.Int("events", 10000, "number of events")
		users  = flag.Int("users", 200, "number of distinct users")
		seed   = flag.Uint64("seed", 1, "random seed")
		out    = flag.String("out", "sparkify_log_generated", "output path without extension")
	)
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed))
	log := logging.WithComponent("generate")

	pool := make([]*user, *users)
	for i := range pool {
		pool[i] = &user{
			id:           strconv.Itoa(1000 + i),
			first:        firstNames[rng.IntN(len(firstNames))],
			last:         lastNames[rng.IntN(len(lastNames))],
			gender:       []string{"F", "M"}[rng.IntN(2)],
			level:        []string{"free", "paid"}[rng.IntN(2)],
			location:     locations[rng.IntN(len(locations))],
			agent:        agents[rng.IntN(len(agents))],
			registration: 1509000000000 + rng.Int64N(5000000000),
			session:      int64(1 + rng.IntN(10000)),
		}
	}

	ts := int64(1513641600000)
	rows := make([]Event, 0, *events)
	for range *events {
		ts += rng.Int64N(60000)
		if rng.IntN(50) == 0 {
			rows = append(rows, guestEvent(rng, ts))
			continue
		}
		rows = append(rows, userEvent(rng, pool[rng.IntN(len(pool))], ts))
	}

	if err := writeJSON(*out+".json", rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to write JSON")
	}
	if err := writeParquet(*out+".parquet", rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to write Parquet")
	}
	log.Info().Int("events", len(rows)).Str("out", *out).Msg("Generated event log")
}

func userEvent(rng *rand.Rand, u *user, ts int64) Event {
	u.item++
	e := Event{
		Auth:          "Logged In",
		FirstName:     &u.first,
		Gender:        &u.gender,
		ItemInSession: u.item,
		LastName:      &u.last,
		Level:         u.level,
		Location:      &u.location,
		Method:        "GET",
		Page:          pickPage(rng),
		Registration:  &u.registration,
		SessionID:     u.session,
		Status:        200,
		TS:            ts,
		UserAgent:     &u.agent,
		UserID:        u.id,
	}
	if e.Page == "NextSong" {
		i := rng.IntN(len(artists))
		length := 120 + rng.Float64()*240
		e.Artist, e.Song, e.Length = &artists[i], &songs[i], &length
		e.Method = "PUT"
	}
	if e.Page == "Logout" {
		e.Method, e.Status = "PUT", 307
		u.session++
		u.item = 0
	}
	return e
}

func guestEvent(rng *rand.Rand, ts int64) Event {
	page := guestPages[rng.IntN(len(guestPages))]
	return Event{
		Auth:      "Logged Out",
		Level:     "free",
		Method:    "GET",
		Page:      page,
		SessionID: int64(1 + rng.IntN(10000)),
		Status:    200,
		TS:        ts,
	}
}

func pickPage(rng *rand.Rand) string {
	total := 0
	for _, p := range pages {
		total += p.weight
	}
	n := rng.IntN(total)
	for _, p := range pages {
		if n < p.weight {
			return p.name
		}
		n -= p.weight
	}
	return pages[0].name
}

func writeJSON(path string, rows []Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range rows {
		if err := enc.Encode(&rows[i]); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func writeParquet(path string, rows []Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := parquet.NewGenericWriter[Event](f)
	if _, err := writer.Write(rows); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return f.Close()
}
