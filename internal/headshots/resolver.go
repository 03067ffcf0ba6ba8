package headshots

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jeldja/ProScout/internal/loader"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	DefaultNBACDN        = "https://cdn.nba.com/headshots/nba/latest/1040x760"
	DefaultESPNTeamsURL  = "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball/teams"
	DefaultESPNRosterURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball/teams/%s/roster"
	placeholderBase      = "https://ui-avatars.com/api/"
	userAgent            = "ProScout/1.0"
)

var errNoMatch = errors.New("no headshot match")

type Config struct {
	NBACDN        string
	ESPNTeamsURL  string
	ESPNRosterURL string // format string taking the ESPN team id
	Timeout       time.Duration
	RatePerSecond float64
	// NBAPersonIDs maps normalized player names to NBA person ids.
	NBAPersonIDs map[string]string
}

func DefaultConfig() Config {
	return Config{
		NBACDN:        DefaultNBACDN,
		ESPNTeamsURL:  DefaultESPNTeamsURL,
		ESPNRosterURL: DefaultESPNRosterURL,
		Timeout:       8 * time.Second,
		RatePerSecond: 2,
		NBAPersonIDs:  DefaultNBAPersonIDs(),
	}
}

// Resolver maps players to headshot URLs. Every failure resolves to a
// generated avatar; errors never reach the caller.
type Resolver struct {
	config     Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	logger     *logrus.Logger

	teamMu  sync.Mutex
	teamIDs map[string]string

	cacheMu sync.RWMutex
	cache   map[string]string
}

func NewResolver(config Config, logger *logrus.Logger) *Resolver {
	if config.Timeout <= 0 {
		config.Timeout = 8 * time.Second
	}
	limit := rate.Inf
	if config.RatePerSecond > 0 {
		limit = rate.Limit(config.RatePerSecond)
	}

	settings := gobreaker.Settings{
		Name:        "espn-headshots",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &Resolver{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
		cache:      make(map[string]string),
	}
}

//go:embed nba_person_ids.csv
var defaultPersonIDs []byte

// DefaultNBAPersonIDs returns the bundled person ids of established NBA
// players. A file passed to LoadNBAPersonIDs extends or overrides it.
func DefaultNBAPersonIDs() map[string]string {
	ids, err := parseNBAPersonIDs(bytes.NewReader(defaultPersonIDs), "nba_person_ids.csv")
	if err != nil {
		return map[string]string{}
	}
	return ids
}

// LoadNBAPersonIDs reads a name to person-id CSV with a player_name (or
// Player) column and a person_id (or id) column.
func LoadNBAPersonIDs(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return parseNBAPersonIDs(f, path)
}

func parseNBAPersonIDs(src io.Reader, name string) (map[string]string, error) {
	table, err := loader.ReadTableFrom(src, name)
	if err != nil {
		return nil, err
	}

	nameCol := firstColumn(table, "player_name", "Player", "name")
	idCol := firstColumn(table, "person_id", "PERSON_ID", "id")
	if nameCol == "" || idCol == "" {
		return nil, fmt.Errorf("headshot id file %s needs name and id columns", name)
	}

	ids := make(map[string]string, len(table.Rows))
	for _, row := range table.Rows {
		key, id := models.NormalizeName(row[nameCol]), row.String(idCol)
		if key == "" || id == "" {
			continue
		}
		if _, exists := ids[key]; !exists {
			ids[key] = id
		}
	}
	return ids, nil
}

func firstColumn(t *models.Table, candidates ...string) string {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c
		}
	}
	return ""
}

// Placeholder builds the generated-avatar URL for name.
func Placeholder(name string) string {
	clean := strings.TrimSpace(name)
	if clean == "" {
		clean = "?"
	}
	return placeholderBase + "?name=" + url.QueryEscape(clean) + "&background=1a1a2e&color=ff6b35&bold=true&size=260"
}

func (r *Resolver) ResolveNBA(_ context.Context, name string) string {
	id, ok := r.config.NBAPersonIDs[models.NormalizeName(name)]
	if !ok {
		return Placeholder(name)
	}
	return fmt.Sprintf("%s/%s.png", strings.TrimRight(r.config.NBACDN, "/"), id)
}

// ResolveNCAA finds the player on their school's ESPN roster.
func (r *Resolver) ResolveNCAA(ctx context.Context, name, school string) string {
	key := models.NormalizeName(name) + "|" + normalizeSchool(school)
	r.cacheMu.RLock()
	cached, ok := r.cache[key]
	r.cacheMu.RUnlock()
	if ok {
		return cached
	}

	href, err := r.lookupNCAA(ctx, name, school)
	if err != nil {
		if !errors.Is(err, errNoMatch) {
			r.logger.WithFields(logrus.Fields{
				"player": name,
				"school": school,
			}).Debugf("Headshot lookup failed: %v", err)
		}
		return Placeholder(name)
	}

	r.cacheMu.Lock()
	r.cache[key] = href
	r.cacheMu.Unlock()
	return href
}

func (r *Resolver) lookupNCAA(ctx context.Context, name, school string) (string, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(school) == "" {
		return "", errNoMatch
	}

	teamID, err := r.teamID(ctx, school)
	if err != nil {
		return "", err
	}

	var roster espnRosterResponse
	if err := r.fetchJSON(ctx, fmt.Sprintf(r.config.ESPNRosterURL, teamID), &roster); err != nil {
		return "", err
	}
	return matchAthlete(roster.Athletes, name)
}

func (r *Resolver) teamID(ctx context.Context, school string) (string, error) {
	target := normalizeSchool(school)
	if target == "" {
		return "", errNoMatch
	}

	r.teamMu.Lock()
	defer r.teamMu.Unlock()

	if r.teamIDs == nil {
		var teams espnTeamsResponse
		if err := r.fetchJSON(ctx, r.config.ESPNTeamsURL, &teams); err != nil {
			return "", fmt.Errorf("failed to fetch ESPN teams: %w", err)
		}
		r.teamIDs = indexTeams(teams)
	}

	return findTeam(r.teamIDs, target)
}

// fetchJSON waits for the limiter, then performs the GET inside the breaker.
func (r *Resolver) fetchJSON(ctx context.Context, target string, dest interface{}) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := r.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
		}

		var raw json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(body.(json.RawMessage), dest)
}

func (r *Resolver) BreakerState() gobreaker.State {
	return r.breaker.State()
}
