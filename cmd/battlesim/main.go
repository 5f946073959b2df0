// Package main provides the battle simulator binary: it loads the content
// registries, spawns an encounter, and auto-plays it to a terminal phase,
// printing the battle log as it unfolds.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/embervault/crawler/internal/config"
	"github.com/embervault/crawler/internal/game/ai"
	"github.com/embervault/crawler/internal/game/battle"
	"github.com/embervault/crawler/internal/game/entity"
	"github.com/embervault/crawler/internal/game/item"
	"github.com/embervault/crawler/internal/game/rng"
	"github.com/embervault/crawler/internal/game/roster"
	"github.com/embervault/crawler/internal/game/skill"
	"github.com/embervault/crawler/internal/observability"
	"github.com/embervault/crawler/internal/scripting"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	partyIDs := flag.String("party", "aria,borin", "comma-separated party member template IDs")
	enemyIDs := flag.String("enemies", "gloom-rat,gloom-rat", "comma-separated enemy template IDs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := rng.NewRoller(rng.NewCryptoSource(), logger)

	skills, err := skill.LoadDirectory(cfg.Content.SkillsDir)
	if err != nil {
		logger.Fatal("loading skills", zap.Error(err))
	}
	items, err := item.LoadDirectory(cfg.Content.ItemsDir)
	if err != nil {
		logger.Fatal("loading items", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("skills", len(skills.All())),
		zap.Int("items", len(items.All())),
	)

	ros := roster.NewRoster()
	if err := ros.LoadPartyDirectory(cfg.Content.PartyDir); err != nil {
		logger.Fatal("loading party templates", zap.Error(err))
	}
	if err := ros.LoadEnemyDirectory(cfg.Content.EnemiesDir); err != nil {
		logger.Fatal("loading enemy templates", zap.Error(err))
	}

	scripts := scripting.NewManager(logger)
	defer scripts.Close()
	if cfg.Content.ScriptsDir != "" {
		if err := scripts.LoadDirectory(cfg.Content.ScriptsDir, scripting.DefaultInstructionLimit); err != nil {
			logger.Fatal("loading boss scripts", zap.Error(err))
		}
	}

	policy := ai.NewPolicy(cfg.Engine, skills, logger, ai.WithScripts(scripts))
	engine := battle.NewEngine(cfg.Engine, skills, items, src, logger,
		battle.WithDecider(policy),
		battle.WithLootFunc(func(templateID string) (int, []battle.LootDrop) {
			gold, drops := ros.RollLoot(templateID, src)
			out := make([]battle.LootDrop, 0, len(drops))
			for _, d := range drops {
				out = append(out, battle.LootDrop{ItemID: d.ItemID, Quantity: d.Quantity})
			}
			return gold, out
		}),
	)

	party, err := spawnParty(ros, splitIDs(*partyIDs))
	if err != nil {
		logger.Fatal("spawning party", zap.Error(err))
	}
	foeIDs := splitIDs(*enemyIDs)
	enemies, err := ros.SpawnEnemies(foeIDs)
	if err != nil {
		logger.Fatal("spawning enemies", zap.Error(err))
	}
	canFlee := !ros.HasBoss(foeIDs)

	state := engine.StartEncounter(party, enemies, canFlee)
	printEntries(state.Log)

	// Auto-play: the decision policy drives both sides. Party members carry
	// no AI pattern, so they fall through to the aggressive arm.
	for !state.Phase.Terminal() {
		actor := state.CurrentEntity()
		act := policy.Decide(state, actor)
		res, err := engine.SubmitAction(state, act)
		if err != nil {
			// A boss special can outrun its MP; degrade to a plain attack
			// and then to a guard.
			res, err = submitFallback(engine, state, actor)
			if err != nil {
				logger.Fatal("no acceptable action", zap.String("entity", actor.ID), zap.Error(err))
			}
		}
		printEntries(res.Entries)
		if state.Phase == battle.PhaseEnemyTurn {
			time.Sleep(cfg.Engine.EnemyTurnDelay)
		}
	}

	if out := state.Result; out != nil && out.Victory {
		for _, d := range out.Drops {
			fmt.Printf("  loot: %dx %s\n", d.Quantity, d.ItemID)
		}
	}
	logger.Info("simulation finished",
		zap.String("phase", string(state.Phase)),
		zap.Int("rounds", state.Round),
	)
}

// submitFallback tries a basic attack on the first living opponent, then a
// defend; used when the policy's choice is rejected by the engine.
func submitFallback(engine *battle.Engine, state *battle.State, actor *entity.CombatEntity) (*battle.Result, error) {
	if opps := state.OpponentsOf(actor); len(opps) > 0 {
		if res, err := engine.SubmitAction(state, battle.Attack(actor.ID, opps[0].ID)); err == nil {
			return res, nil
		}
	}
	return engine.SubmitAction(state, battle.Defend(actor.ID))
}

func splitIDs(csv string) []string {
	var out []string
	for _, id := range strings.Split(csv, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func spawnParty(ros *roster.Roster, ids []string) ([]*entity.CombatEntity, error) {
	var out []*entity.CombatEntity
	for _, id := range ids {
		member, ok := ros.PartyMember(id)
		if !ok {
			return nil, fmt.Errorf("unknown party member template %q", id)
		}
		out = append(out, member.Spawn())
	}
	return out, nil
}

func printEntries(entries []battle.LogEntry) {
	for _, e := range entries {
		fmt.Printf("[%d] %s\n", e.Round, e.Message)
	}
}
