// Command skirmish plays a mission to the end with every team under its AI
// strategy and prints the outcome.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pefman/hex-tactics/internal/config"
	"github.com/pefman/hex-tactics/internal/engine"
	"github.com/pefman/hex-tactics/internal/game"
	"github.com/pefman/hex-tactics/internal/mission"
	"github.com/pefman/hex-tactics/internal/models"
	"github.com/pefman/hex-tactics/internal/stats"
	"github.com/pefman/hex-tactics/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	missionPath := flag.String("mission", "missions/ford.yaml", "Mission file to play")
	seed := flag.Int64("seed", cfg.Seed(), "Dice seed; the same seed replays the same battle")
	maxRounds := flag.Int("rounds", 50, "Give up after this many rounds")
	logDir := flag.String("log-dir", cfg.BattleLogDir, "Directory to write the battle log to")
	asJSON := flag.Bool("json", false, "Print the final battle snapshot as JSON")
	flag.Parse()

	logger.Init()
	snap, err := run(*missionPath, *seed, *maxRounds, *logDir)
	if err != nil {
		logger.Log.WithError(err).Fatal("skirmish failed")
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(snap)
		return
	}
	printSummary(snap)
}

func run(missionPath string, seed int64, maxRounds int, logDir string) (game.BattleSnapshot, error) {
	m, err := mission.LoadMissionFile(missionPath)
	if err != nil {
		return game.BattleSnapshot{}, err
	}
	strategies := map[models.SquaddieAffiliation]game.TeamStrategy{}
	for affiliation, name := range m.TeamStrategies {
		s, err := game.StrategyByName(name)
		if err != nil {
			return game.BattleSnapshot{}, fmt.Errorf("team %s: %w", affiliation, err)
		}
		strategies[affiliation] = s
	}

	battleID := m.ID + "-" + uuid.NewString()[:8]
	var battleLog *game.BattleLog
	if logDir != "" {
		battleLog = game.NewBattleLog(logDir)
	}
	svc := game.NewService(battleID, m, engine.NewRandomNumberGenerator(seed), battleLog, stats.NewStore())
	log := logger.Component("skirmish").WithFields(logrus.Fields{"battle": battleID, "seed": seed})
	log.WithField("mission", m.Name).Info("skirmish started")

	for svc.Round() <= maxRounds {
		if winner, over := svc.Winner(); over {
			log.WithFields(logrus.Fields{"winner": winner, "rounds": svc.Round() - 1}).Info("skirmish over")
			break
		}
		round := svc.Round()
		svc.PlayRound(strategies)
		log.WithFields(logrus.Fields{
			"round":  round,
			"damage": svc.Statistics().DamageDealtByPlayerTeam,
			"taken":  svc.Statistics().DamageTakenByPlayerTeam,
		}).Debug("round played")
	}
	return svc.Snapshot(), nil
}

func printSummary(snap game.BattleSnapshot) {
	winner := string(snap.Winner)
	if winner == "" {
		winner = "nobody (round limit reached)"
	}
	fmt.Printf("%s after %d rounds: %s wins\n", snap.MissionID, snap.Round-1, winner)
	for _, sq := range snap.Squaddies {
		where := "fallen"
		if sq.Location != nil {
			where = sq.Location.String()
		}
		fmt.Printf("  %-12s %-7s %2d/%-2d HP  %s\n", sq.BattleSquaddieID, sq.Affiliation, sq.CurrentHitPoints, sq.MaxHitPoints, where)
	}
	s := snap.Statistics
	fmt.Printf("player team: dealt %d (%d hits, %d critical), took %d (%d hits), healed %d\n",
		s.DamageDealtByPlayerTeam, s.HitsDealtByPlayerTeam, s.CriticalHitsDealtByPlayerTeam,
		s.DamageTakenByPlayerTeam, s.HitsTakenByPlayerTeam, s.HealingReceivedByPlayerTeam)
}
