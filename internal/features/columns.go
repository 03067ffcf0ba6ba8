package features

import (
	"errors"
	"fmt"

	"github.com/jeldja/ProScout/internal/models"
)

var ErrUnknownSchema = errors.New("unknown schema")

// Feature positions within every FeatureVector.
const (
	RimShare = iota
	MidShare
	ThreeShare
	RimFGPct
	MidFGPct
	ThreeFGPct
	UsgRate
	TSPct
	EFGPct
	FTRate
	ASTRate
	TOVRate
	ORBRate
	DRBRate
	STLRate
	BLKRate
	PtsPer36
	AstPer36
	TrbPer36

	NumFeatures
)

var featureColumns = [NumFeatures]string{
	"rim_share",
	"mid_share",
	"three_share",
	"rim_fg_pct",
	"mid_fg_pct",
	"three_fg_pct",
	"usg_rate",
	"ts_pct",
	"efg_pct",
	"ft_rate",
	"ast_rate",
	"tov_rate",
	"orb_rate",
	"drb_rate",
	"stl_rate",
	"blk_rate",
	"pts_per36",
	"ast_per36",
	"trb_per36",
}

// NCAA (Barttorvik) raw columns.
const (
	ncaaName      = "player_name"
	ncaaTeam      = "team"
	ncaaConf      = "conf"
	ncaaYear      = "yr"
	ncaaGames     = "GP"
	ncaaMinutes   = "mp"
	ncaaMinPct    = "Min_per"
	ncaaRimMade   = "rimmade"
	ncaaRimAtt    = "rimmade+rimmiss"
	ncaaMidMade   = "midmade"
	ncaaMidAtt    = "midmade+midmiss"
	ncaaThreeMade = "TPM"
	ncaaThreeAtt  = "TPA"
	ncaaUsage     = "usg"
	ncaaTS        = "TS_per"
	ncaaEFG       = "eFG"
	ncaaFTRate    = "ftr"
	ncaaASTRate   = "AST_per"
	ncaaTOVRate   = "TO_per"
	ncaaORBRate   = "ORB_per"
	ncaaDRBRate   = "DRB_per"
	ncaaSTLRate   = "stl_per"
	ncaaBLKRate   = "blk_per"
	ncaaPoints    = "pts"
	ncaaAssists   = "ast"
	ncaaRebounds  = "treb"
)

// NBA raw columns after loader.LoadNBA: counting stats are season totals,
// MP and G come from the advanced table.
const (
	nbaName     = "Player"
	nbaTeam     = "Team"
	nbaPos      = "Pos"
	nbaSeason   = "Season"
	nbaGames    = "G"
	nbaMinutes  = "MP"
	nbaPoints   = "PTS"
	nbaAssists  = "AST"
	nbaRebounds = "TRB"
	nbaUsage    = "USG%"
	nbaTS       = "TS%"
	nbaEFG      = "eFG%"
	nbaFTRate   = "FTr"
	nbaASTRate  = "AST%"
	nbaTOVRate  = "TOV%"
	nbaORBRate  = "ORB%"
	nbaDRBRate  = "DRB%"
	nbaSTLRate  = "STL%"
	nbaBLKRate  = "BLK%"
	nbaRimAtt   = "FGA_0_3"
	nbaRimPct   = "FG%_0_3"
	nbaShortAtt = "FGA_3_10"
	nbaShortPct = "FG%_3_10"
	nbaMidAtt   = "FGA_10_16"
	nbaMidPct   = "FG%_10_16"
	nbaLongAtt  = "FGA_16_3P"
	nbaLongPct  = "FG%_16_3P"
	nbaThreeAtt = "3PA"
	nbaThreePct = "3P%"
)

// Mid-range sub-zones as (attempts, FG%) pairs.
var nbaMidZones = [][2]string{
	{nbaShortAtt, nbaShortPct},
	{nbaMidAtt, nbaMidPct},
	{nbaLongAtt, nbaLongPct},
}

var requiredColumns = map[models.Schema][]string{
	models.SchemaNCAA: {
		ncaaName, ncaaTeam, ncaaGames, ncaaMinutes,
		ncaaRimMade, ncaaRimAtt, ncaaMidMade, ncaaMidAtt, ncaaThreeMade, ncaaThreeAtt,
		ncaaUsage, ncaaTS, ncaaEFG, ncaaFTRate, ncaaASTRate, ncaaTOVRate,
		ncaaORBRate, ncaaDRBRate, ncaaSTLRate, ncaaBLKRate,
		ncaaPoints, ncaaAssists, ncaaRebounds,
	},
	models.SchemaNBA: {
		nbaName, nbaTeam, nbaMinutes,
		nbaRimAtt, nbaRimPct, nbaShortAtt, nbaShortPct, nbaMidAtt, nbaMidPct,
		nbaLongAtt, nbaLongPct, nbaThreeAtt, nbaThreePct,
		nbaUsage, nbaTS, nbaEFG, nbaFTRate, nbaASTRate, nbaTOVRate,
		nbaORBRate, nbaDRBRate, nbaSTLRate, nbaBLKRate,
		nbaPoints, nbaAssists, nbaRebounds,
	},
}

// percentColumns are the raw columns subject to 0-100 scale detection.
var percentColumns = map[models.Schema][]string{
	models.SchemaNCAA: {
		ncaaUsage, ncaaTS, ncaaEFG, ncaaFTRate, ncaaASTRate, ncaaTOVRate,
		ncaaORBRate, ncaaDRBRate, ncaaSTLRate, ncaaBLKRate,
	},
	models.SchemaNBA: {
		nbaUsage, nbaTS, nbaEFG, nbaFTRate, nbaASTRate, nbaTOVRate,
		nbaORBRate, nbaDRBRate, nbaSTLRate, nbaBLKRate,
		nbaRimPct, nbaShortPct, nbaMidPct, nbaLongPct, nbaThreePct,
	},
}

// ListFeatureColumns returns the ordered feature names for schema.
func ListFeatureColumns(schema models.Schema) ([]string, error) {
	if _, ok := requiredColumns[schema]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, schema)
	}
	out := make([]string, NumFeatures)
	copy(out, featureColumns[:])
	return out, nil
}

// RequiredColumns returns the raw columns the normalizer reads for schema.
func RequiredColumns(schema models.Schema) ([]string, error) {
	cols, ok := requiredColumns[schema]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, schema)
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out, nil
}

// IndexOf returns the vector position of a feature name, or -1.
func IndexOf(feature string) int {
	for i, name := range featureColumns {
		if name == feature {
			return i
		}
	}
	return -1
}
