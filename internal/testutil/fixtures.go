// Package testutil builds small synthetic stat tables for tests.
package testutil

import (
	"fmt"

	"github.com/jeldja/ProScout/internal/features"
	"github.com/jeldja/ProScout/internal/models"
)

// NCAARecord returns a qualified Barttorvik row for name with overrides applied.
func NCAARecord(name string, overrides map[string]string) models.Record {
	r := models.Record{
		"player_name":     name,
		"team":            "Duke",
		"conf":            "ACC",
		"yr":              "Fr",
		"GP":              "30",
		"mp":              "30",
		"Min_per":         "70",
		"rimmade":         "40",
		"rimmade+rimmiss": "60",
		"midmade":         "20",
		"midmade+midmiss": "50",
		"TPM":             "35",
		"TPA":             "100",
		"usg":             "24.5",
		"TS_per":          "58.1",
		"eFG":             "54.2",
		"ftr":             "35.0",
		"AST_per":         "22.0",
		"TO_per":          "14.0",
		"ORB_per":         "3.5",
		"DRB_per":         "12.0",
		"stl_per":         "2.1",
		"blk_per":         "2.4",
		"pts":             "16.5",
		"ast":             "3.2",
		"treb":            "5.1",
	}
	for k, v := range overrides {
		r[k] = v
	}
	return r
}

// NBARecord returns a merged NBA row (stats, advanced, shooting) for name.
func NBARecord(name string, overrides map[string]string) models.Record {
	r := models.Record{
		"Player":    name,
		"Team":      "BOS",
		"Pos":       "SF",
		"Season":    "2025-26",
		"G":         "70",
		"MP":        "2400",
		"PTS":       "1800",
		"AST":       "400",
		"TRB":       "500",
		"USG%":      "28.0",
		"TS%":       "0.590",
		"eFG%":      "0.550",
		"FTr":       "0.300",
		"AST%":      "25.0",
		"TOV%":      "12.0",
		"ORB%":      "3.0",
		"DRB%":      "15.0",
		"STL%":      "2.0",
		"BLK%":      "2.5",
		"FGA_0_3":   "300",
		"FG%_0_3":   "0.680",
		"FGA_3_10":  "100",
		"FG%_3_10":  "0.420",
		"FGA_10_16": "100",
		"FG%_10_16": "0.450",
		"FGA_16_3P": "50",
		"FG%_16_3P": "0.400",
		"3PA":       "450",
		"3P%":       "0.370",
	}
	for k, v := range overrides {
		r[k] = v
	}
	return r
}

// Table wraps rows with every column the schema reads.
func Table(schema models.Schema, rows ...models.Record) *models.Table {
	cols, _ := features.RequiredColumns(schema)
	if schema == models.SchemaNCAA {
		cols = append(cols, "conf", "yr", "Min_per")
	} else {
		cols = append(cols, "Pos", "Season", "G")
	}
	return &models.Table{Columns: cols, Rows: rows}
}

// Bigs and shooters are the two NBA archetypes of the synthetic league.
const (
	BigCount     = 6
	ShooterCount = 6
)

func BigName(i int) string     { return fmt.Sprintf("Big %d", i+1) }
func ShooterName(i int) string { return fmt.Sprintf("Shooter %d", i+1) }

// NBALeague returns rim-heavy bigs and perimeter shooters with small
// per-player variation so clustering and ranking are unambiguous.
func NBALeague() *models.Table {
	var rows []models.Record
	for i := 0; i < BigCount; i++ {
		rows = append(rows, NBARecord(BigName(i), map[string]string{
			"Team":    "MIN",
			"Pos":     "C",
			"FGA_0_3": fmt.Sprint(600 + 10*i),
			"3PA":     fmt.Sprint(10 + i),
			"AST%":    "8.0",
			"ORB%":    "12.0",
			"DRB%":    "28.0",
			"BLK%":    "6.0",
			"AST":     "120",
			"TRB":     "900",
		}))
	}
	for i := 0; i < ShooterCount; i++ {
		rows = append(rows, NBARecord(ShooterName(i), map[string]string{
			"Team":    "GSW",
			"Pos":     "PG",
			"FGA_0_3": fmt.Sprint(80 + 5*i),
			"3PA":     fmt.Sprint(800 + 10*i),
			"AST%":    "30.0",
			"ORB%":    "1.5",
			"DRB%":    "10.0",
			"BLK%":    "0.5",
		}))
	}
	return Table(models.SchemaNBA, rows...)
}

// CollegeClass returns a rim-running big, a shooter and one row that the
// sanity filters drop for too few games.
func CollegeClass() *models.Table {
	return Table(models.SchemaNCAA,
		NCAARecord("Cooper Flagg", map[string]string{
			"rimmade":         "150",
			"rimmade+rimmiss": "220",
			"TPM":             "2",
			"TPA":             "8",
			"AST_per":         "8.0",
			"ORB_per":         "11.0",
			"DRB_per":         "25.0",
			"blk_per":         "7.0",
			"pts":             "22.5",
			"ast":             "1.5",
			"treb":            "11.25",
		}),
		NCAARecord("Kon Knueppel", map[string]string{
			"rimmade":         "10",
			"rimmade+rimmiss": "15",
			"TPM":             "110",
			"TPA":             "280",
			"AST_per":         "28.0",
			"ORB_per":         "1.0",
			"DRB_per":         "9.0",
			"blk_per":         "0.3",
			"pts":             "22.5",
			"ast":             "5.0",
			"treb":            "6.25",
		}),
		NCAARecord("Bench Guy", map[string]string{"GP": "5"}),
	)
}
