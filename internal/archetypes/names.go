package archetypes

import "fmt"

// NamesVersion identifies the hand-authored cluster naming below. Bump it
// whenever a label changes so persisted runs can be told apart.
const NamesVersion = "2025.1"

var names = map[int]string{
	0: "Primary Wing Scorer",
	1: "3-and-D Lengthy Wing",
	2: "Ball-Dominant Offensive Guards",
	3: "Defensive Utility Wing",
	4: "Rebounding Interior Big",
	5: "Versatile Point Forward",
	6: "2-Way Sharp-Shooter",
	7: "Pass-First Ball-Handler",
}

// NameFor returns the archetype label of a cluster id.
func NameFor(clusterID int) string {
	if name, ok := names[clusterID]; ok {
		return name
	}
	return fmt.Sprintf("Cluster %d", clusterID)
}
