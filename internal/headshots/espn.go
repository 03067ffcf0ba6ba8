package headshots

import (
	"regexp"
	"strings"

	"github.com/jeldja/ProScout/internal/models"
)

type espnTeam struct {
	ID               string `json:"id"`
	Location         string `json:"location"`
	Name             string `json:"name"`
	Abbreviation     string `json:"abbreviation"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
}

type espnTeamsResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team espnTeam `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

type espnAthlete struct {
	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
	Headshot    struct {
		Href string `json:"href"`
	} `json:"headshot"`
}

type espnRosterResponse struct {
	Athletes []espnAthlete `json:"athletes"`
}

var (
	trailingState    = regexp.MustCompile(`\bst\.?\s*$`)
	trailingFlorida  = regexp.MustCompile(`\bfla\.?\s*$`)
	trailingCarolina = regexp.MustCompile(`\bcar\.?\s*$`)
)

// Mascots dropped from ESPN display names before matching a school.
var mascotSuffixes = []string{
	" cyclones", " buckeyes", " hawkeyes", " hoosiers", " boilermakers",
	" wolverines", " spartans", " wildcats", " badgers", " gophers",
	" fighting illini", " illini", " cornhuskers", " terrapins",
	" blue devils", " tar heels", " cavaliers", " seminoles", " hurricanes",
	" cardinals", " bearcats", " jayhawks", " sooners", " longhorns",
	" aggies", " tigers", " bulldogs", " crimson tide", " rebels",
	" cougars", " mountaineers", " hokies", " yellow jackets",
}

// normalizeSchool expands common abbreviations ("Utah St.", "N.C. State")
// and strips a trailing mascot.
func normalizeSchool(school string) string {
	s := models.NormalizeName(school)
	if s == "" {
		return ""
	}
	s = trailingState.ReplaceAllString(s, " state")
	s = trailingFlorida.ReplaceAllString(s, " florida")
	s = trailingCarolina.ReplaceAllString(s, " carolina")
	s = strings.ReplaceAll(s, "n.c.", "nc ")
	s = strings.Join(strings.Fields(s), " ")

	for _, suffix := range mascotSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}
	return s
}

func indexTeams(resp espnTeamsResponse) map[string]string {
	ids := make(map[string]string)
	for _, sport := range resp.Sports {
		for _, league := range sport.Leagues {
			for _, entry := range league.Teams {
				t := entry.Team
				if t.ID == "" {
					continue
				}
				for _, key := range []string{
					normalizeSchool(t.Location),
					normalizeSchool(t.ShortDisplayName),
					normalizeSchool(t.DisplayName),
					models.NormalizeName(t.Abbreviation),
					models.NormalizeName(t.Name),
					models.NormalizeName(t.Location),
				} {
					if key != "" {
						ids[key] = t.ID
					}
				}
			}
		}
	}
	return ids
}

// findTeam tries an exact key, the key without spaces, then the
// lexicographically first key containing or contained in target.
func findTeam(ids map[string]string, target string) (string, error) {
	if id, ok := ids[target]; ok {
		return id, nil
	}
	if id, ok := ids[strings.ReplaceAll(target, " ", "")]; ok {
		return id, nil
	}

	best := ""
	for key := range ids {
		if strings.Contains(key, target) || strings.Contains(target, key) {
			if best == "" || key < best {
				best = key
			}
		}
	}
	if best == "" {
		return "", errNoMatch
	}
	return ids[best], nil
}

// matchAthlete matches on full or display name, then on the same set of
// name tokens in any order.
func matchAthlete(athletes []espnAthlete, name string) (string, error) {
	query := models.NormalizeName(name)
	queryTokens := tokenSet(query)

	for _, a := range athletes {
		if a.Headshot.Href == "" {
			continue
		}
		full := models.NormalizeName(a.FullName)
		if query == full || query == models.NormalizeName(a.DisplayName) {
			return a.Headshot.Href, nil
		}
		if sameTokens(queryTokens, tokenSet(full)) {
			return a.Headshot.Href, nil
		}
	}
	return "", errNoMatch
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		set[tok] = struct{}{}
	}
	return set
}

func sameTokens(a, b map[string]struct{}) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	for tok := range a {
		if _, ok := b[tok]; !ok {
			return false
		}
	}
	return true
}
