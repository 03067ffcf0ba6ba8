// Command archetypes fits the NBA archetype model and prints the players
// closest to each centroid.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/jeldja/ProScout/internal/archetypes"
	"github.com/jeldja/ProScout/internal/features"
	"github.com/jeldja/ProScout/internal/loader"
	"github.com/jeldja/ProScout/internal/models"
	"github.com/jeldja/ProScout/pkg/config"
	"github.com/jeldja/ProScout/pkg/logger"
)

func main() {
	k := flag.Int("k", 8, "number of archetypes")
	top := flag.Int("top", 20, "players listed per archetype")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	table, err := loader.LoadNBA(
		cfg.DataPath(cfg.NBAStatsPath),
		cfg.DataPath(cfg.NBAAdvancedPath),
		cfg.DataPath(cfg.NBAShootingPath),
	)
	if err != nil {
		log.Fatalf("Failed to load NBA data: %v", err)
	}

	pool, report, err := features.BuildPool(table, models.SchemaNBA, features.PoolFilters{})
	if err != nil {
		log.Fatalf("Failed to build pool: %v", err)
	}
	logger.WithPoolContext(string(models.SchemaNBA), pool.Len()).WithFields(report.LogFields()).Info("Reference pool built")

	train := archetypes.DefaultTrainConfig()
	train.K = *k
	train.MinMinutes = cfg.ArchetypeMinMinutes
	train.Restarts = cfg.ArchetypeRestarts
	train.Seed = cfg.ArchetypeSeed

	model, labeled, err := archetypes.Train(pool, train)
	if err != nil {
		log.Fatalf("Failed to fit archetypes: %v", err)
	}

	fmt.Printf("Fitted %d archetypes on %d players (inertia %.4f)\n", model.K(), model.TrainedOn, model.Inertia)

	sizes := labeled.Sizes()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for id := 0; id < model.K(); id++ {
		fmt.Fprintf(w, "\n[%d] %s (%d players)\n", id, archetypes.NameFor(id), sizes[id])
		fmt.Fprintln(w, "Player\tTeam\tPos\tPTS\tAST\tTRB\tUSG%\tDist\t")
		for _, m := range labeled.TopExamples(id, *top) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.0f\t%.0f\t%.1f\t%.3f\t\n",
				m.Name, m.Team, m.Position, m.Points, m.Assists, m.Rebounds, m.Usage, m.Distance)
		}
	}
	w.Flush()
}
