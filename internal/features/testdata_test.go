package features

import (
	"github.com/jeldja/ProScout/internal/models"
)

func ncaaRecord(name string, overrides map[string]string) models.Record {
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

func nbaRecord(name string, overrides map[string]string) models.Record {
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

func tableOf(schema models.Schema, rows ...models.Record) *models.Table {
	cols, _ := RequiredColumns(schema)
	if schema == models.SchemaNCAA {
		cols = append(cols, "conf", "yr", "Min_per")
	} else {
		cols = append(cols, "Pos", "Season", "G")
	}
	return &models.Table{Columns: cols, Rows: rows}
}
