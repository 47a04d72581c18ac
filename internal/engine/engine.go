// Package engine ties the pure components together: it prices and
// appends submissions, maintains weekly goals, finalizes weeks, and
// applies financial goal updates. All persistence goes through the
// injected store seams, so every operation is testable against fakes.
//
// Callers are expected to serialize submissions per actor; the engine
// itself keeps no hidden counters, so a consistent ledger snapshot in
// always yields the same pricing out.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/homepoints/internal/goal"
	"github.com/mhollis/homepoints/internal/ledger"
	"github.com/mhollis/homepoints/internal/live"
	"github.com/mhollis/homepoints/internal/model"
	"github.com/mhollis/homepoints/internal/reward"
	"github.com/mhollis/homepoints/internal/streak"
	"github.com/mhollis/homepoints/internal/summary"
	"github.com/mhollis/homepoints/internal/week"
)

type EventStore interface {
	Append(model.ActivityEvent) (*model.ActivityEvent, error)
	Query(actorKeys []string, from, to time.Time) ([]model.ActivityEvent, error)
}

type WeeklyGoalStore interface {
	SaveAll([]model.WeeklyGoal) error
	ForWeek(actorKey string, weekStart time.Time) ([]model.WeeklyGoal, error)
	MarkCompleted(uuid.UUID) error
}

type FinancialGoalStore interface {
	ForHousehold(householdID int64) ([]model.FinancialGoal, error)
	UpdateAmount(id uuid.UUID, currentAmount float64, status model.FinancialGoalStatus, updatedAt time.Time) error
}

type SettingsSource interface {
	GetStreakSettings() (map[string]string, error)
}

// Catalog is the read side of the activity definition cache.
type Catalog interface {
	Definitions() ([]model.ActivityDefinition, error)
}

// Publisher receives engine events for the live dashboard feed.
type Publisher interface {
	Publish(live.Event)
}

type Engine struct {
	events     EventStore
	weekly     WeeklyGoalStore
	financial  FinancialGoalStore
	settings   SettingsSource
	catalog    Catalog
	bonusRules []goal.BonusRule
	feed       Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func New(events EventStore, weekly WeeklyGoalStore, financial FinancialGoalStore, settings SettingsSource, catalog Catalog, bonusRules []goal.BonusRule, feed Publisher, logger *slog.Logger) *Engine {
	return &Engine{
		events:     events,
		weekly:     weekly,
		financial:  financial,
		settings:   settings,
		catalog:    catalog,
		bonusRules: bonusRules,
		feed:       feed,
		logger:     logger,
		now:        time.Now,
	}
}

// SubmitResult is what one submission produced: the priced, appended
// events, warnings for unresolvable names, and the actor's streaks
// after the append.
type SubmitResult struct {
	Events   []model.ActivityEvent  `json:"events"`
	Warnings []ledger.Warning       `json:"warnings,omitempty"`
	Streaks  map[string]streak.State `json:"streaks"`
	Total    int                    `json:"total"`
}

// Submit normalizes, prices, and appends one submission. Each positive
// event is priced against the streak it would have once logged today,
// so the day that reaches a tier threshold is the first day boosted.
func (e *Engine) Submit(sub model.Submission) (*SubmitResult, error) {
	if sub.ActorKey == "" {
		return nil, fmt.Errorf("submission missing actor key")
	}
	if sub.Timestamp.IsZero() {
		sub.Timestamp = e.now()
	}

	defs, err := e.catalog.Definitions()
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	events, warnings := ledger.Normalize(sub, defs)
	result := &SubmitResult{Warnings: warnings, Streaks: map[string]streak.State{}}
	if len(events) == 0 {
		return result, nil
	}

	history, err := e.historyFor(sub.ActorKey, sub.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	cfg := e.rewardConfig()

	for _, ev := range events {
		if ev.BasePoints > 0 {
			st := streak.For(append(history, ev), sub.ActorKey, ev.ActivityName, sub.Timestamp)
			res := reward.Calculate(ev.BasePoints, st, cfg)
			ev.AwardedPoints = res.FinalPoints
		} else {
			ev.AwardedPoints = ev.BasePoints
		}

		stored, err := e.events.Append(ev)
		if err != nil {
			return nil, fmt.Errorf("append %q: %w", ev.ActivityName, err)
		}
		history = append(history, *stored)
		result.Events = append(result.Events, *stored)
		result.Total += stored.AwardedPoints

		evType := live.EventActivityLogged
		if stored.Unknown {
			evType = live.EventUnknownActivity
		}
		e.publish(live.Event{
			Type:     evType,
			ActorKey: stored.ActorKey,
			Activity: stored.ActivityName,
			Points:   stored.AwardedPoints,
		})
	}

	for _, ev := range result.Events {
		if ev.BasePoints > 0 {
			result.Streaks[ev.ActivityName] = streak.For(history, sub.ActorKey, ev.ActivityName, sub.Timestamp)
		}
	}
	return result, nil
}

// Streaks returns the actor's current streak per positive activity.
func (e *Engine) Streaks(actorKey string) (map[string]streak.State, error) {
	defs, err := e.catalog.Definitions()
	if err != nil {
		return nil, fmt.Errorf("streaks: %w", err)
	}
	eligible := make(map[string]bool)
	for _, d := range defs {
		if d.BasePoints > 0 {
			eligible[d.Name] = true
		}
	}

	now := e.now()
	history, err := e.historyFor(actorKey, now)
	if err != nil {
		return nil, fmt.Errorf("streaks: %w", err)
	}
	return streak.ForAll(history, actorKey, eligible, now), nil
}

// WeekSummary aggregates the actor's events for the week containing at.
func (e *Engine) WeekSummary(actorKey string, at time.Time) (summary.Summary, error) {
	ws, we := week.Start(at), week.End(at)
	events, err := e.events.Query([]string{actorKey}, ws, we)
	if err != nil {
		return summary.Summary{}, fmt.Errorf("week summary: %w", err)
	}
	return summary.Summarize(events, ws, we), nil
}

// Leaderboard returns lifetime point balances across all actors.
func (e *Engine) Leaderboard() ([]summary.Balance, error) {
	events, err := e.events.Query(nil, time.Unix(0, 0), e.now().AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return summary.Balances(events), nil
}

// EnsureWeeklyGoals returns the actor's goals for the week containing
// at, generating them from the prior week's activity on first call.
func (e *Engine) EnsureWeeklyGoals(actorKey string, at time.Time) ([]model.WeeklyGoal, error) {
	ws := week.Start(at)
	existing, err := e.weekly.ForWeek(actorKey, ws)
	if err != nil {
		return nil, fmt.Errorf("weekly goals: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	prevStart := week.Prev(at)
	prevEvents, err := e.events.Query([]string{actorKey}, prevStart, ws)
	if err != nil {
		return nil, fmt.Errorf("weekly goals: %w", err)
	}
	prior := summary.Summarize(prevEvents, prevStart, ws)

	streaks, err := e.Streaks(actorKey)
	if err != nil {
		return nil, err
	}
	defs, err := e.catalog.Definitions()
	if err != nil {
		return nil, fmt.Errorf("weekly goals: %w", err)
	}

	generated := goal.Generate(goal.GenerateInput{
		ActorKey:  actorKey,
		WeekStart: ws,
		Prior:     prior,
		Streaks:   streaks,
		Catalog:   defs,
	}, e.now())

	if err := e.weekly.SaveAll(generated); err != nil {
		return nil, fmt.Errorf("save weekly goals: %w", err)
	}
	e.publish(live.Event{Type: live.EventGoalsGenerated, ActorKey: actorKey})

	// Re-read so concurrent first calls converge on the stored set.
	return e.weekly.ForWeek(actorKey, ws)
}

// GoalProgress is a goal plus its live progress, the mid-week view.
type GoalProgress struct {
	Goal     model.WeeklyGoal `json:"goal"`
	Progress goal.Progress    `json:"progress"`
}

// EvaluateWeeklyGoals reports live progress for the actor's current
// week, generating the goals first if the week is new.
func (e *Engine) EvaluateWeeklyGoals(actorKey string, at time.Time) ([]GoalProgress, error) {
	goals, err := e.EnsureWeeklyGoals(actorKey, at)
	if err != nil {
		return nil, err
	}
	snap, err := e.snapshotFor(actorKey, at)
	if err != nil {
		return nil, err
	}

	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalProgress{Goal: g, Progress: goal.Evaluate(g, snap)})
	}
	return out, nil
}

// WeekReview is the result of finalizing one actor-week: the summary,
// each goal's outcome, and the threshold bonuses that fired.
type WeekReview struct {
	WeekStart  time.Time        `json:"week_start"`
	WeekEnd    time.Time        `json:"week_end"`
	Summary    summary.Summary  `json:"summary"`
	Goals      []goal.Outcome   `json:"goals"`
	GoalBonus  int              `json:"goal_bonus"`
	Bonuses    []goal.BonusAward `json:"bonuses,omitempty"`
	BonusTotal int              `json:"bonus_total"`
	WeekTotal  int              `json:"week_total"`
}

// FinalizeWeek closes out the week containing at for the actor. It is
// idempotent — goal completion only ever flips forward — but must not
// run concurrently with itself for the same actor.
func (e *Engine) FinalizeWeek(actorKey string, at time.Time) (*WeekReview, error) {
	ws, we := week.Start(at), week.End(at)
	goals, err := e.weekly.ForWeek(actorKey, ws)
	if err != nil {
		return nil, fmt.Errorf("finalize week: %w", err)
	}

	snap, err := e.snapshotAsOf(actorKey, ws, we, we.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	outcomes, goalBonus := goal.Finalize(goals, snap)
	for i, out := range outcomes {
		if out.Goal.Completed && !goals[i].Completed {
			if err := e.weekly.MarkCompleted(out.Goal.ID); err != nil {
				return nil, fmt.Errorf("finalize week: %w", err)
			}
			e.publish(live.Event{
				Type:     live.EventGoalCompleted,
				ActorKey: actorKey,
				GoalID:   out.Goal.ID.String(),
				Points:   out.Goal.BonusPoints,
			})
		}
	}

	awards, bonusTotal := goal.EvaluateBonuses(e.bonusRules, snap.Week)
	review := &WeekReview{
		WeekStart:  ws,
		WeekEnd:    we,
		Summary:    snap.Week,
		Goals:      outcomes,
		GoalBonus:  goalBonus,
		Bonuses:    awards,
		BonusTotal: bonusTotal,
		WeekTotal:  snap.Week.Total + goalBonus + bonusTotal,
	}
	e.publish(live.Event{Type: live.EventWeekFinalized, ActorKey: actorKey, Points: review.WeekTotal})
	return review, nil
}

// FinancialGoals evaluates a household's goal set, including vacation
// fund cascade state.
func (e *Engine) FinancialGoals(householdID int64) ([]goal.FinancialProgress, error) {
	goals, err := e.financial.ForHousehold(householdID)
	if err != nil {
		return nil, fmt.Errorf("financial goals: %w", err)
	}
	return goal.EvaluateHousehold(goals), nil
}

// UpdateGoalAmounts applies a batch of amount updates for a household.
// Each update succeeds or fails on its own; persistence failures are
// folded into the per-item results so the batch reports partial
// success instead of aborting.
func (e *Engine) UpdateGoalAmounts(householdID int64, updates []goal.AmountUpdate) ([]goal.UpdateResult, error) {
	goals, err := e.financial.ForHousehold(householdID)
	if err != nil {
		return nil, fmt.Errorf("update goal amounts: %w", err)
	}

	updated, results, activated := goal.ApplyAmountUpdates(goals, updates, e.now())

	byID := make(map[uuid.UUID]model.FinancialGoal, len(updated))
	for _, g := range updated {
		byID[g.ID] = g
	}
	for i, res := range results {
		if !res.Applied {
			continue
		}
		g := byID[res.GoalID]
		if err := e.financial.UpdateAmount(g.ID, g.CurrentAmount, g.Status, g.UpdatedAt); err != nil {
			e.logger.Error("persist goal amount", "goal_id", g.ID, "error", err)
			results[i].Applied = false
			results[i].Error = "failed to save update"
		}
	}

	for _, fundID := range activated {
		e.publish(live.Event{
			Type:   live.EventCascadeActivated,
			GoalID: fundID.String(),
			Detail: "linked savings goal completed",
		})
	}
	return results, nil
}

// historyFor loads the actor's ledger over the streak lookback window
// ending with the day of at.
func (e *Engine) historyFor(actorKey string, at time.Time) ([]model.ActivityEvent, error) {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	return e.events.Query([]string{actorKey}, day.AddDate(0, 0, -streak.LookbackDays), day.AddDate(0, 0, 1))
}

func (e *Engine) snapshotFor(actorKey string, at time.Time) (goal.Snapshot, error) {
	return e.snapshotAsOf(actorKey, week.Start(at), week.End(at), at)
}

// snapshotAsOf builds the evaluation snapshot: the week's summary plus
// the actor's streaks as of asOf.
func (e *Engine) snapshotAsOf(actorKey string, ws, we, asOf time.Time) (goal.Snapshot, error) {
	weekEvents, err := e.events.Query([]string{actorKey}, ws, we)
	if err != nil {
		return goal.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}

	defs, err := e.catalog.Definitions()
	if err != nil {
		return goal.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	eligible := make(map[string]bool)
	for _, d := range defs {
		if d.BasePoints > 0 {
			eligible[d.Name] = true
		}
	}

	history, err := e.historyFor(actorKey, asOf)
	if err != nil {
		return goal.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}

	return goal.Snapshot{
		Week:    summary.Summarize(weekEvents, ws, we),
		Streaks: streak.ForAll(history, actorKey, eligible, asOf),
	}, nil
}

// rewardConfig reads the streak tiers from settings, falling back to
// the compiled defaults when the store is unavailable or empty.
func (e *Engine) rewardConfig() reward.Config {
	settings, err := e.settings.GetStreakSettings()
	if err != nil {
		e.logger.Warn("streak settings unavailable, using defaults", "error", err)
		return reward.Default
	}
	return reward.FromSettings(settings)
}

func (e *Engine) publish(ev live.Event) {
	if e.feed != nil {
		e.feed.Publish(ev)
	}
}
