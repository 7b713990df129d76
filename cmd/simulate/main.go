// Package main runs a combat encounter from content files and prints the
// result summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/config"
	"github.com/cory-johannsen/delve/internal/game/ai"
	"github.com/cory-johannsen/delve/internal/game/boss"
	"github.com/cory-johannsen/delve/internal/game/catalog"
	"github.com/cory-johannsen/delve/internal/game/character"
	"github.com/cory-johannsen/delve/internal/game/combat"
	"github.com/cory-johannsen/delve/internal/game/encounter"
	"github.com/cory-johannsen/delve/internal/game/npc"
	"github.com/cory-johannsen/delve/internal/game/ruleset"
	"github.com/cory-johannsen/delve/internal/observability"
	"github.com/cory-johannsen/delve/internal/scripting"
	"github.com/cory-johannsen/delve/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	rosterPath := flag.String("roster", "content/roster.yaml", "path to the team roster")
	classesDir := flag.String("classes", "content/classes", "path to class YAML files directory")
	encounterPath := flag.String("encounter", "content/encounters/hollow_crypt.yaml", "path to the encounter definition")
	seed := flag.Uint64("seed", 0, "random seed; 0 uses simulation.seed from the config")
	runs := flag.Int("runs", 1, "number of independent runs; above 1 prints win rates only")
	parallel := flag.Int("parallel", 4, "concurrent runs in batch mode")
	verbose := flag.Bool("v", false, "print the combat log as it happens")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "simulate")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := loadCatalog(cfg.Content)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}
	classes, err := ruleset.LoadClassRegistry(*classesDir)
	if err != nil {
		logger.Fatal("loading classes", zap.Error(err))
	}
	roster, err := character.LoadRoster(*rosterPath)
	if err != nil {
		logger.Fatal("loading roster", zap.Error(err))
	}
	enemies, err := npc.LoadManager(cfg.Content.EnemiesDir)
	if err != nil {
		logger.Fatal("loading enemy templates", zap.Error(err))
	}
	enc, err := npc.LoadEncounter(*encounterPath)
	if err != nil {
		logger.Fatal("loading encounter", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("skills", len(reg.SkillIDs())),
		zap.Int("classes", len(classes.IDs())),
		zap.Int("templates", len(enemies.IDs())),
		zap.String("encounter", enc.ID),
		zap.Duration("elapsed", time.Since(start)),
	)

	var (
		usageScripts ai.ScriptCaller
		bossScripts  boss.ScriptCaller
	)
	if dir := cfg.Scripting.ScriptDir; dir != "" {
		scripts := scripting.NewManager(logger)
		defer scripts.Close()
		for scope, sub := range map[string]string{boss.ScriptScope: "boss", ai.ScriptScope: "usage"} {
			if err := scripts.LoadScope(scope, filepath.Join(dir, sub), cfg.Scripting.InstructionLimit); err != nil {
				logger.Fatal("loading scripts", zap.String("scope", scope), zap.Error(err))
			}
		}
		usageScripts, bossScripts = scripts, scripts
	}

	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	rules := rulesFrom(cfg.Simulation, enc)
	var probe observability.Probe = observability.LogProbe{Logger: logger}
	recorder := observability.NewTickRecorder(0)
	if *runs == 1 {
		probe = recorder
	}
	eng := encounter.NewEngine(encounter.Deps{
		Usage:  ai.NewEngine(usageScripts, logger),
		Bosses: boss.NewSystem(reg, bossScripts, logger),
		Logger: logger,
		Probe:  probe,
	})
	builder := character.NewBuilder(classes, reg, logger)
	setup := func(run int) (encounter.Setup, error) {
		if *runs > 1 {
			logger.Debug("preparing run", observability.RunFields(enc.ID, run, batchSeed(cfg.Simulation.Seed, run))...)
		}
		team, err := builder.BuildTeam(roster)
		if err != nil {
			return encounter.Setup{}, err
		}
		packs, err := enemies.SpawnPacks(enc, rules)
		if err != nil {
			return encounter.Setup{}, err
		}
		return encounter.Setup{
			Team:             team,
			Packs:            packs,
			Rules:            rules,
			Seed:             cfg.Simulation.Seed,
			LogCapacity:      cfg.Simulation.LogCapacity,
			FloatingCapacity: cfg.Simulation.FloatingCapacity,
		}, nil
	}

	if *runs > 1 {
		res, err := eng.RunBatch(ctx, encounter.BatchOptions{
			Runs:        *runs,
			Parallelism: *parallel,
			BaseSeed:    cfg.Simulation.Seed,
			MaxTicks:    cfg.Simulation.MaxTicks,
		}, setup)
		if err != nil {
			logger.Fatal("batch failed", zap.Error(err))
		}
		printBatch(os.Stdout, enc, res)
		return
	}

	s, err := setup(0)
	if err != nil {
		logger.Fatal("building encounter", zap.Error(err))
	}
	st, err := eng.Start(s)
	if err != nil {
		logger.Fatal("starting encounter", zap.Error(err))
	}
	var sink encounter.Sink
	if *verbose {
		sink = func(out encounter.Output) {
			for _, e := range out.Entries {
				fmt.Fprintf(os.Stdout, "[%6.1fs] %s\n", e.Seconds, e.Message)
			}
		}
	}
	sum, err := eng.Run(ctx, st, cfg.Simulation.MaxTicks, sink)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("running encounter", zap.Error(err))
	}
	logger.Info("encounter finished", append(observability.RunFields(enc.ID, 0, sum.Seed),
		zap.String("outcome", string(sum.Outcome)),
		zap.Int("ticks", sum.Ticks),
	)...)
	printSummary(os.Stdout, enc, st, sum, recorder.Totals())

	if cfg.Reports.Enabled {
		if err := archive(ctx, cfg.Database, enc.ID, sum); err != nil {
			logger.Error("archiving report", zap.Error(err))
			os.Exit(1)
		}
	}
}

// batchSeed mirrors the seed RunBatch assigns to run; 0 means drawn fresh.
func batchSeed(base uint64, run int) uint64 {
	if base == 0 {
		return 0
	}
	return base + uint64(run)
}

func loadCatalog(c config.ContentConfig) (*catalog.Registry, error) {
	if c.CatalogDir != "" {
		return catalog.LoadDir(c.CatalogDir)
	}
	return catalog.Default()
}

// rulesFrom converts the simulation config into combat rules. An encounter's
// own damage reduction wins over the configured one when it is larger.
func rulesFrom(s config.SimulationConfig, enc *npc.Encounter) combat.Rules {
	r := combat.Rules{
		TicksPerSecond:        s.TicksPerSecond,
		CooldownScale:         s.CooldownScale,
		BlockReduction:        s.BlockReduction,
		CriticalHealthPercent: s.CriticalHealthPercent,
		PlayerDamageReduction: max(s.PlayerDamageReduction, enc.Modifiers.PlayerDamageReduction),
	}
	r.TravelTicks = r.Seconds(s.TravelSeconds)
	return r
}

func archive(ctx context.Context, db config.DatabaseConfig, encounterID string, sum encounter.Summary) error {
	pool, err := postgres.NewPool(ctx, db)
	if err != nil {
		return err
	}
	defer pool.Close()
	rep, err := pool.Reports().Save(ctx, postgres.NewReport(encounterID, sum))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nreport archived as %s\n", rep.ID)
	return nil
}

func printSummary(w io.Writer, enc *npc.Encounter, st *combat.State, sum encounter.Summary, ticks observability.TickStats) {
	fmt.Fprintf(w, "%s: %s after %.1fs (%d ticks, seed %d)\n", enc.Name, sum.Outcome, sum.Seconds, sum.Ticks, sum.Seed)
	fmt.Fprintf(w, "packs cleared: %d/%d  actions: %d started, %d resolved, %d cancelled\n\n",
		sum.PacksCleared, len(enc.Packs), ticks.Started, ticks.Resolved, ticks.Cancelled)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER\tHP\tDAMAGE\tHEALING\tTAKEN\tTOP SOURCE")
	for _, a := range sum.Team {
		top := "-"
		if len(a.DamageBySource) > 0 {
			top = fmt.Sprintf("%s (%d)", a.DamageBySource[0].Source, a.DamageBySource[0].Amount)
		}
		if len(a.HealingBySource) > 0 && (len(a.DamageBySource) == 0 || a.HealingBySource[0].Amount > a.DamageBySource[0].Amount) {
			top = fmt.Sprintf("%s (%d)", a.HealingBySource[0].Source, a.HealingBySource[0].Amount)
		}
		fmt.Fprintf(tw, "%s\t%d/%d\t%d\t%d\t%d\t%s\n", a.Name, a.HP, a.MaxHP, a.DamageDone, a.HealingDone, a.DamageTaken, top)
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENEMY\tHP\tSTATE\tDAMAGE")
	for _, c := range encounter.Spawned(st) {
		fmt.Fprintf(tw, "%s\t%d/%d\t%s\t%d\n", c.Name, c.HP, c.MaxHP, npc.HealthDescription(c), c.DamageDone.Total())
	}
	_ = tw.Flush()
	if sum.LogDropped > 0 {
		fmt.Fprintf(w, "\n%d log entries dropped by the log capacity\n", sum.LogDropped)
	}
}

func printBatch(w io.Writer, enc *npc.Encounter, res encounter.BatchResult) {
	fmt.Fprintf(w, "%s: %d runs, win rate %.1f%%\n", enc.Name, len(res.Summaries), 100*res.WinRate())
	for _, o := range []encounter.Outcome{encounter.OutcomeVictory, encounter.OutcomeDefeat, encounter.OutcomeTimeout, encounter.OutcomeAborted} {
		if n := res.Outcomes[o]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", o, n)
		}
	}
}
