// Package main provides the arena battle simulator CLI. It wires together
// configuration, rule tables, a roster file, and the battle engine, then
// prints the event log and the post-battle report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/game/rules"
	"github.com/cory-johannsen/arena/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	battlePath := flag.String("battle", "content/battles/demo.yaml", "path to battle setup YAML file")
	skillsDir := flag.String("skills", "", "override for the skill YAML directory")
	buffsDir := flag.String("buffs", "", "override for the buff YAML directory")
	seed := flag.Uint64("seed", 0, "override the battle seed (0 = use the setup file)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *skillsDir != "" {
		cfg.Content.SkillsDir = *skillsDir
	}
	if *buffsDir != "" {
		cfg.Content.BuffsDir = *buffsDir
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting arena simulator",
		zap.String("battle", *battlePath),
		zap.Int("max_rounds", cfg.Battle.MaxRounds),
	)

	// Load rule tables
	rulesStart := time.Now()
	skills, err := rules.LoadSkills(cfg.Content.SkillsDir)
	if err != nil {
		logger.Fatal("loading skills", zap.Error(err))
	}
	buffs, err := rules.LoadBuffs(cfg.Content.BuffsDir)
	if err != nil {
		logger.Fatal("loading buffs", zap.Error(err))
	}
	logger.Info("rules loaded",
		zap.Int("skills", len(skills.All())),
		zap.Int("buffs", len(buffs.All())),
		zap.Duration("elapsed", time.Since(rulesStart)),
	)

	// Load the battle setup
	setup, err := roster.LoadSetup(*battlePath, skills, buffs)
	if err != nil {
		logger.Fatal("loading battle setup", zap.Error(err))
	}
	if *seed != 0 {
		setup.Seed = *seed
	} else if setup.Seed == 0 && cfg.Battle.Seed != 0 {
		setup.Seed = cfg.Battle.Seed
	}

	// Build and run the engine
	engine := battle.New(skills, buffs, dice.NewCryptoSource(),
		battle.WithLogger(logger),
		battle.WithMaxRounds(cfg.Battle.MaxRounds),
		battle.WithVariance(cfg.Battle.VarianceMin, cfg.Battle.VarianceMax),
		battle.WithEventSink(printEvent),
	)
	if err := engine.Init(setup); err != nil {
		logger.Fatal("initializing battle", zap.Error(err))
	}
	engine.RunToEnd(0)

	printReport(engine)
	logger.Info("simulation complete",
		zap.String("winner", string(engine.Winner())),
		zap.Int("rounds", engine.Round()),
		zap.Int("events", len(engine.Events())),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func printEvent(ev battle.Event) {
	switch ev.Type {
	case battle.EventBattleStart:
		fmt.Printf("=== battle start: %d vs %d ===\n", len(ev.TeamA), len(ev.TeamB))
	case battle.EventRoundStart:
		fmt.Printf("--- round %d ---\n", ev.Round)
	case battle.EventActorTurn:
		fmt.Printf("  %s acts\n", ev.ActorID)
	case battle.EventDamage:
		fmt.Printf("  %s hits %s for %d (%d/%d)\n", ev.SourceID, ev.TargetID, ev.Amount, ev.HP, ev.MaxHP)
	case battle.EventHeal:
		fmt.Printf("  %s heals %s for %d (%d/%d)\n", ev.SourceID, ev.TargetID, ev.Amount, ev.HP, ev.MaxHP)
	case battle.EventBuffAdd:
		fmt.Printf("  %s gains %s x%d\n", ev.TargetID, ev.BuffID, ev.Stacks)
	case battle.EventBuffRemove:
		fmt.Printf("  %s loses %s\n", ev.TargetID, ev.BuffID)
	case battle.EventDead:
		fmt.Printf("  %s falls\n", ev.TargetID)
	case battle.EventBattleEnd:
		fmt.Printf("=== winner: %s ===\n", ev.Winner)
	}
}

func printReport(engine *battle.Engine) {
	w := os.Stdout
	fmt.Fprintln(w)
	fmt.Fprintln(w, "unit            side  dealt  taken  healed  shields  kills  casts")
	for _, u := range engine.Report() {
		fmt.Fprintf(w, "%-15s %-5s %6d %6d %7d %8d %6d %6d\n",
			u.Name, u.Side, u.DamageDealt, u.DamageTaken, u.HealingDone,
			u.ShieldsApplied, u.Kills, u.SkillCasts)
	}
}
