package loader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jeldja/ProScout/internal/models"
	"gonum.org/v1/gonum/floats"
)

const (
	nbaPlayerKeyColumn = "Player-additional"
	nbaPlayerColumn    = "Player"
	nbaSeasonColumn    = "Season"
	nbaTeamColumn      = "Team"
	ncaaNameColumn     = "player_name"
	nbaMinutesColumn   = "MP"
	nbaGamesColumn     = "G"

	maxGameMinutes = 48
)

var perGameColumns = []string{
	"MP", "FG", "FGA", "3P", "3PA", "2P", "2PA", "FT", "FTA",
	"ORB", "DRB", "TRB", "AST", "STL", "BLK", "TOV", "PF", "PTS",
}

var multiTeamPattern = regexp.MustCompile(`^\d+TM$`)

// LoadCurrentNCAA reads the headerless current-season export.
func LoadCurrentNCAA(dataPath, headerPath string) (*models.Table, error) {
	table, err := ReadHeaderlessTable(dataPath, headerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load current NCAA data: %w", err)
	}
	return table, nil
}

// LoadHistoricalNCAA keeps historical NCAA rows whose player appears in the
// drafted list, matched on normalized name.
func LoadHistoricalNCAA(ncaaPath, draftedPath string) (*models.Table, error) {
	ncaa, err := ReadTable(ncaaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load historical NCAA data: %w", err)
	}
	drafted, err := ReadTable(draftedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load drafted players: %w", err)
	}

	nameCol := ""
	for _, c := range drafted.Columns {
		switch strings.ToLower(c) {
		case "player", "player_name", "name":
			nameCol = c
		}
		if nameCol != "" {
			break
		}
	}
	if nameCol == "" {
		return nil, fmt.Errorf("drafted players file %s has no player name column", draftedPath)
	}

	draftedNames := make(map[string]struct{}, len(drafted.Rows))
	for _, row := range drafted.Rows {
		if key := models.NormalizeName(row[nameCol]); key != "" {
			draftedNames[key] = struct{}{}
		}
	}

	joined := &models.Table{Columns: ncaa.Columns}
	for _, row := range ncaa.Rows {
		if _, ok := draftedNames[models.NormalizeName(row[ncaaNameColumn])]; ok {
			joined.Rows = append(joined.Rows, row)
		}
	}
	return joined, nil
}

// LoadNBA merges the stats, advanced and shooting tables into one row per
// player-season. Traded players keep their combined row. Season minutes
// and games come from the advanced table, and a per-game stats export is
// scaled to season totals so every counting column is on one footing.
func LoadNBA(statsPath, advancedPath, shootingPath string) (*models.Table, error) {
	var tables []*models.Table
	for _, path := range []string{statsPath, advancedPath, shootingPath} {
		t, err := ReadTable(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load NBA data: %w", err)
		}
		tables = append(tables, dedupePlayerSeasons(t))
	}
	stats, advanced, shooting := tables[0], tables[1], tables[2]

	if isPerGame(stats) {
		if !stats.HasColumn(nbaGamesColumn) {
			return nil, fmt.Errorf("per-game NBA stats in %s have no %s column", statsPath, nbaGamesColumn)
		}
		toSeasonTotals(stats)
	}
	for _, col := range []string{nbaMinutesColumn, nbaGamesColumn} {
		if advanced.HasColumn(col) {
			stats = dropColumn(stats, col)
		}
	}

	merged := innerJoin(stats, advanced, shooting)
	for _, row := range merged.Rows {
		if name, ok := row[nbaPlayerColumn]; ok {
			row[nbaPlayerColumn] = strings.TrimSpace(strings.ReplaceAll(name, "*", ""))
		}
	}
	return merged, nil
}

// isPerGame reports whether a stats table lists minutes per game. No
// season total stays within a single game's regulation minutes.
func isPerGame(t *models.Table) bool {
	if !t.HasColumn(nbaMinutesColumn) {
		return false
	}
	var minutes []float64
	for _, row := range t.Rows {
		if v, ok := row.Float(nbaMinutesColumn); ok {
			minutes = append(minutes, v)
		}
	}
	return len(minutes) > 0 && floats.Max(minutes) <= maxGameMinutes
}

// toSeasonTotals multiplies per-game columns by games played. A row
// without games loses its counting stats and drops out as incomplete.
func toSeasonTotals(t *models.Table) {
	for _, row := range t.Rows {
		games, ok := row.Float(nbaGamesColumn)
		for _, col := range perGameColumns {
			if _, present := row[col]; !present {
				continue
			}
			v, valid := row.Float(col)
			if !ok || !valid {
				row[col] = ""
				continue
			}
			row[col] = strconv.FormatFloat(v*games, 'f', -1, 64)
		}
	}
}

func dropColumn(t *models.Table, col string) *models.Table {
	out := &models.Table{Rows: make([]models.Record, len(t.Rows))}
	for _, c := range t.Columns {
		if c != col {
			out.Columns = append(out.Columns, c)
		}
	}
	for i, row := range t.Rows {
		r := make(models.Record, len(row))
		for k, v := range row {
			if k != col {
				r[k] = v
			}
		}
		out.Rows[i] = r
	}
	return out
}

func playerSeasonKey(row models.Record) string {
	id := row.String(nbaPlayerKeyColumn)
	if id == "" {
		id = models.NormalizeName(row[nbaPlayerColumn])
	}
	return id + "|" + row.String(nbaSeasonColumn)
}

// teamRank orders duplicate rows: season total first, then multi-team
// summaries, then single-team stints.
func teamRank(team string) int {
	switch {
	case team == "TOT":
		return 0
	case multiTeamPattern.MatchString(team):
		return 1
	}
	return 2
}

func dedupePlayerSeasons(t *models.Table) *models.Table {
	chosen := make(map[string]int)
	var order []string
	for i, row := range t.Rows {
		key := playerSeasonKey(row)
		prev, seen := chosen[key]
		if !seen {
			chosen[key] = i
			order = append(order, key)
			continue
		}
		if teamRank(row.String(nbaTeamColumn)) < teamRank(t.Rows[prev].String(nbaTeamColumn)) {
			chosen[key] = i
		}
	}

	out := &models.Table{Columns: t.Columns, Rows: make([]models.Record, 0, len(order))}
	for _, key := range order {
		out.Rows = append(out.Rows, t.Rows[chosen[key]])
	}
	return out
}

// innerJoin keeps base rows present in every other table. On duplicate
// column names the earlier table's value wins.
func innerJoin(base *models.Table, others ...*models.Table) *models.Table {
	columns := append([]string(nil), base.Columns...)
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}

	indexes := make([]map[string]models.Record, len(others))
	for i, t := range others {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
		indexes[i] = make(map[string]models.Record, len(t.Rows))
		for _, row := range t.Rows {
			indexes[i][playerSeasonKey(row)] = row
		}
	}

	out := &models.Table{Columns: columns}
rows:
	for _, row := range base.Rows {
		key := playerSeasonKey(row)
		merged := make(models.Record, len(columns))
		for k, v := range row {
			merged[k] = v
		}
		for _, idx := range indexes {
			other, ok := idx[key]
			if !ok {
				continue rows
			}
			for k, v := range other {
				if _, exists := merged[k]; !exists {
					merged[k] = v
				}
			}
		}
		out.Rows = append(out.Rows, merged)
	}
	return out
}
