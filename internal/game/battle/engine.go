// Package battle implements the turn-based combat engine: the encounter
// state machine, the speed-ordered turn scheduler, and the action resolver
// with its damage, healing, and status laws. The engine is synchronous and
// single-writer: callers submit one action at a time and read the updated
// state between submissions.
package battle

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/embervault/crawler/internal/config"
	"github.com/embervault/crawler/internal/game/entity"
	"github.com/embervault/crawler/internal/game/item"
	"github.com/embervault/crawler/internal/game/rng"
	"github.com/embervault/crawler/internal/game/skill"
)

// Decider chooses an action for an enemy entity whose turn has arrived.
// Implementations must return an action the engine will accept, or fall back
// to a basic attack.
type Decider interface {
	Decide(s *State, actor *entity.CombatEntity) Action
}

// LootFunc rolls end-of-battle loot for one defeated enemy template.
type LootFunc func(templateID string) (gold int, drops []LootDrop)

// Engine drives encounters. It is stateless across encounters: all per-battle
// data lives in the State values it hands out.
type Engine struct {
	cfg      config.EngineConfig
	skills   *skill.Registry
	items    *item.Registry
	src      rng.Source
	logger   *zap.Logger
	decider  Decider
	lootFunc LootFunc
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithDecider installs the enemy decision policy.
func WithDecider(d Decider) Option {
	return func(e *Engine) { e.decider = d }
}

// WithLootFunc installs the victory loot roller.
func WithLootFunc(f LootFunc) Option {
	return func(e *Engine) { e.lootFunc = f }
}

// NewEngine builds an Engine.
//
// Precondition: skills, items, and src must be non-nil. A nil logger is
// replaced with a no-op logger.
func NewEngine(cfg config.EngineConfig, skills *skill.Registry, items *item.Registry, src rng.Source, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		cfg:    cfg,
		skills: skills,
		items:  items,
		src:    src,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result reports what one submitted action did: the log entries it produced
// and post-resolution snapshots of the actor and every touched target.
type Result struct {
	Action  Action
	Entries []LogEntry
	Actor   entity.CombatEntity
	Targets []entity.CombatEntity
	// Outcome is non-nil when the action ended the encounter.
	Outcome *Outcome
}

// StartEncounter builds a new battle from the given sides, schedules the
// first round, and advances to the first turn.
//
// Precondition: both sides must contain at least one living entity.
// Postcondition: the returned state is in player_turn or enemy_turn.
func (e *Engine) StartEncounter(party, enemies []*entity.CombatEntity, canFlee bool) *State {
	s := &State{
		ID:      uuid.NewString(),
		Phase:   PhaseStart,
		Round:   1,
		CanFlee: canFlee,
		Current: -1,
	}
	s.Entities = append(s.Entities, party...)
	s.Entities = append(s.Entities, enemies...)
	s.scheduleRound()
	s.appendLog(LogInfo, encounterBanner(enemies))
	e.logger.Info("encounter started",
		zap.String("encounter", s.ID),
		zap.Int("party", len(party)),
		zap.Int("enemies", len(enemies)),
		zap.Bool("canFlee", canFlee),
	)
	e.advance(s)
	return s
}

func encounterBanner(enemies []*entity.CombatEntity) string {
	if len(enemies) == 1 {
		return fmt.Sprintf("%s appears!", enemies[0].Name)
	}
	return fmt.Sprintf("%s and %d others appear!", enemies[0].Name, len(enemies)-1)
}

// SubmitAction validates and resolves one action for the current entity, then
// ticks the actor's status effects and advances the schedule. On rejection it
// returns a typed *InvalidActionError and leaves the state untouched.
func (e *Engine) SubmitAction(s *State, act Action) (*Result, error) {
	if s.Phase.Terminal() {
		return nil, reject(ReasonTerminalPhase, "battle already ended in %s", s.Phase)
	}
	if !s.acceptsActions() {
		return nil, reject(ReasonBadAction, "phase %s does not accept actions", s.Phase)
	}
	actor := s.FindEntity(act.ActorID)
	if actor == nil {
		return nil, reject(ReasonUnknownActor, "no entity %q in this battle", act.ActorID)
	}
	if !actor.Alive() {
		return nil, reject(ReasonDeadActor, "%s is down", actor.Name)
	}
	if actor != s.CurrentEntity() {
		return nil, reject(ReasonWrongTurn, "it is not %s's turn", actor.Name)
	}

	// Full validation happens before any mutation so a rejected action
	// leaves the state byte-identical.
	var (
		sk     *skill.Skill
		it     *item.Item
		target *entity.CombatEntity
		err    *InvalidActionError
	)
	switch act.Type {
	case ActionAttack:
		target, err = validateSingleTarget(s, actor, act.TargetIDs, false)
	case ActionSkill:
		sk, target, err = e.validateSkill(s, actor, act)
	case ActionItem:
		it, target, err = e.validateItem(s, actor, act)
	case ActionDefend:
		// Always legal.
	case ActionFlee:
		if !s.CanFlee {
			err = reject(ReasonFleeForbidden, "there is no escape")
		} else if !actor.IsPlayer {
			err = reject(ReasonFleeForbidden, "enemies do not flee")
		}
	default:
		err = reject(ReasonBadAction, "unrecognized action type %d", act.Type)
	}
	if err != nil {
		e.logger.Debug("action rejected",
			zap.String("encounter", s.ID),
			zap.String("action", act.String()),
			zap.String("reason", string(err.Reason)),
		)
		return nil, err
	}

	logMark := len(s.Log)
	s.Phase = PhaseExecutingAction

	var (
		touched []*entity.CombatEntity
		fled    bool
	)
	switch act.Type {
	case ActionAttack:
		e.resolveAttack(s, actor, target)
		touched = []*entity.CombatEntity{target}
	case ActionSkill:
		actor.SpendMP(sk.MPCost)
		touched = e.resolveSkill(s, actor, sk, act.TargetIDs)
	case ActionItem:
		e.resolveItem(s, actor, target, it)
		touched = []*entity.CombatEntity{target}
	case ActionDefend:
		e.resolveDefend(s, actor)
	case ActionFlee:
		fled = e.resolveFlee(s, actor)
	}

	if actor.Alive() {
		e.tickEffects(s, actor)
	}
	// Terminal conditions are checked in order: defeat, victory, fleeing. A
	// fleeing actor that drops to its own poison still loses the battle.
	switch {
	case e.checkTerminal(s):
	case fled:
		s.Phase = PhaseFleeing
		s.Result = &Outcome{Fled: true}
		s.appendLog(LogInfo, "The party escapes.")
	default:
		e.advance(s)
	}
	return e.buildResult(s, act, actor, touched, logMark), nil
}

func (e *Engine) buildResult(s *State, act Action, actor *entity.CombatEntity, touched []*entity.CombatEntity, logMark int) *Result {
	r := &Result{
		Action:  act,
		Entries: append([]LogEntry(nil), s.Log[logMark:]...),
		Actor:   *actor,
		Outcome: s.Result,
	}
	for _, t := range touched {
		r.Targets = append(r.Targets, *t)
	}
	return r
}

// validateSingleTarget checks that exactly one explicit target was named and
// that it is a living member of the expected side.
func validateSingleTarget(s *State, actor *entity.CombatEntity, ids []string, ally bool) (*entity.CombatEntity, *InvalidActionError) {
	if len(ids) != 1 {
		return nil, reject(ReasonBadTarget, "expected exactly one target, got %d", len(ids))
	}
	t := s.FindEntity(ids[0])
	if t == nil {
		return nil, reject(ReasonBadTarget, "no entity %q in this battle", ids[0])
	}
	if ally != (t.IsPlayer == actor.IsPlayer) {
		return nil, reject(ReasonBadTarget, "%s is on the wrong side for this action", t.Name)
	}
	if !t.Alive() {
		return nil, reject(ReasonDeadTarget, "%s is already down", t.Name)
	}
	return t, nil
}

func (e *Engine) validateSkill(s *State, actor *entity.CombatEntity, act Action) (*skill.Skill, *entity.CombatEntity, *InvalidActionError) {
	sk, ok := e.skills.Get(act.SkillID)
	if !ok {
		return nil, nil, reject(ReasonUnknownSkill, "no skill %q", act.SkillID)
	}
	if !actor.HasSkill(sk.ID) {
		return nil, nil, reject(ReasonUnusableSkill, "%s does not know %s", actor.Name, sk.Name)
	}
	if sk.Type == skill.TypePassive {
		return nil, nil, reject(ReasonUnusableSkill, "%s cannot be invoked directly", sk.Name)
	}
	if actor.Stats.MP < sk.MPCost {
		return nil, nil, reject(ReasonInsufficientMP, "%s needs %d MP for %s", actor.Name, sk.MPCost, sk.Name)
	}
	var target *entity.CombatEntity
	var err *InvalidActionError
	switch sk.Target {
	case skill.TargetSingleEnemy:
		target, err = validateSingleTarget(s, actor, act.TargetIDs, false)
	case skill.TargetSingleAlly:
		target, err = validateSingleTarget(s, actor, act.TargetIDs, true)
	}
	if err != nil {
		return nil, nil, err
	}
	return sk, target, nil
}

func (e *Engine) validateItem(s *State, actor *entity.CombatEntity, act Action) (*item.Item, *entity.CombatEntity, *InvalidActionError) {
	it, ok := e.items.Get(act.ItemID)
	if !ok {
		return nil, nil, reject(ReasonUnknownItem, "no item %q", act.ItemID)
	}
	target, err := validateSingleTarget(s, actor, act.TargetIDs, !it.Offensive())
	if err != nil {
		return nil, nil, err
	}
	return it, target, nil
}

// checkTerminal moves the battle into defeat or victory when one side has no
// living members. Defeat wins ties: if the last entities on both sides fall
// to the same resolution, the party loses.
func (e *Engine) checkTerminal(s *State) bool {
	if len(s.LivingPlayers()) == 0 {
		s.Phase = PhaseDefeat
		s.Result = &Outcome{}
		s.appendLog(LogInfo, "The party has fallen...")
		e.logger.Info("encounter ended",
			zap.String("encounter", s.ID),
			zap.String("phase", string(s.Phase)),
		)
		return true
	}
	if len(s.LivingEnemies()) == 0 {
		s.Phase = PhaseVictory
		s.Result = e.buildVictoryOutcome(s)
		s.appendLog(LogInfo, "Victory!")
		s.appendLog(LogInfo, fmt.Sprintf("The party earns %d XP and %d gold.", s.Result.XP, s.Result.Gold))
		e.logger.Info("encounter ended",
			zap.String("encounter", s.ID),
			zap.String("phase", string(s.Phase)),
			zap.Int("xp", s.Result.XP),
			zap.Int("gold", s.Result.Gold),
		)
		return true
	}
	return false
}

// AIAction produces the current enemy's action. With no decision policy
// installed the fallback is a basic attack against the first living player.
//
// Precondition: the phase must be enemy_turn.
func (e *Engine) AIAction(s *State) (Action, error) {
	if s.Phase != PhaseEnemyTurn {
		return Action{}, fmt.Errorf("phase %s is not an enemy turn", s.Phase)
	}
	actor := s.CurrentEntity()
	if e.decider != nil {
		return e.decider.Decide(s, actor), nil
	}
	players := s.LivingPlayers()
	if len(players) == 0 {
		return Defend(actor.ID), nil
	}
	return Attack(actor.ID, players[0].ID), nil
}
