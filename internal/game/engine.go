// Package game sequences one player interaction end to end: resolve the
// clock, validate the action, assemble the prompt, call the LLM, and
// apply the whitelisted stat deltas. Both the Discord handlers and the
// local console drive this engine.
package game

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kessoku-hq/bocchi-life/internal/cache"
	"github.com/kessoku-hq/bocchi-life/internal/services"
	"github.com/kessoku-hq/bocchi-life/internal/store"
	"github.com/kessoku-hq/bocchi-life/pkg/chat"
	"github.com/kessoku-hq/bocchi-life/pkg/player"
	"github.com/kessoku-hq/bocchi-life/pkg/prompts"
	"github.com/kessoku-hq/bocchi-life/pkg/rules"
	"github.com/kessoku-hq/bocchi-life/pkg/schedule"
	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

const (
	// StartingEnergy seeds a freshly registered player.
	StartingEnergy = player.MaxEnergy

	llmTimeout = 30 * time.Second
)

var (
	// ErrNotRegistered marks commands from players without a row.
	ErrNotRegistered = errors.New("player not registered, use /register first")

	// ErrAlreadyRegistered marks a duplicate /register.
	ErrAlreadyRegistered = errors.New("player already registered")

	// ErrNoEnergy gates actions when energy is exhausted.
	ErrNoEnergy = errors.New("not enough energy for this action")

	// ErrChoiceExpired marks a button click whose choice set is gone.
	ErrChoiceExpired = errors.New("these choices have expired")
)

// Outcome is the result of one interaction.
type Outcome struct {
	// Refused is set when the validator rejected the action. Reason is
	// user-facing; no LLM call was made.
	Refused bool
	Reason  string

	// Narration is the applied LLM result (or the fixed fallback).
	Narration    *chat.NarrationResult
	UsedFallback bool

	// Player is the refreshed row after deltas were applied.
	Player *player.Player

	// Snapshot is the world time the interaction was resolved under.
	Snapshot worldclock.Snapshot
}

// Engine wires the store, LLM, choice cache and clock together.
type Engine struct {
	store     store.PlayerStore
	llm       services.LLMService
	choices   cache.ChoiceCache
	clock     worldclock.Clock
	validator *rules.Validator
	logger    *slog.Logger
}

func NewEngine(st store.PlayerStore, llm services.LLMService, choices cache.ChoiceCache, clock worldclock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		store:     st,
		llm:       llm,
		choices:   choices,
		clock:     clock,
		validator: rules.New(logger),
		logger:    logger,
	}
}

// Register creates a new player row with full energy.
func (e *Engine) Register(ctx context.Context, discordID string, origin player.OriginStory) (*player.Player, error) {
	if !player.IsValidOrigin(string(origin)) {
		return nil, fmt.Errorf("invalid origin story: %s", origin)
	}
	err := e.store.Create(ctx, discordID, origin, StartingEnergy)
	if errors.Is(err, store.ErrPlayerExists) {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, err
	}

	snap := e.clock.Now()
	if err := e.store.SetField(ctx, discordID, "last_played_date", snap.DateString); err != nil {
		return nil, err
	}
	if err := e.store.SetField(ctx, discordID, "current_weather", weatherFor(snap.DateString)); err != nil {
		return nil, err
	}
	return e.store.Get(ctx, discordID)
}

// Profile loads the player, applying the lazy daily reset first.
func (e *Engine) Profile(ctx context.Context, discordID string) (*player.Player, error) {
	return e.loadPlayer(ctx, discordID)
}

// loadPlayer fetches the row and applies the daily reset when a 05:00
// boundary has passed since the last play: full energy, fresh weather.
func (e *Engine) loadPlayer(ctx context.Context, discordID string) (*player.Player, error) {
	p, err := e.store.Get(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotRegistered
	}

	snap := e.clock.Now()
	if worldclock.IsNewDay(p.LastPlayedDate, snap) {
		if err := e.store.RecoverEnergy(ctx, discordID, player.MaxEnergy); err != nil {
			return nil, err
		}
		if err := e.store.SetField(ctx, discordID, "current_weather", weatherFor(snap.DateString)); err != nil {
			return nil, err
		}
		if err := e.store.SetField(ctx, discordID, "last_played_date", snap.DateString); err != nil {
			return nil, err
		}
		if e.logger != nil {
			e.logger.Info("daily reset applied", "player_id", discordID, "date", snap.DateString)
		}
		return e.store.Get(ctx, discordID)
	}
	return p, nil
}

// StructuredAction runs one of the fixed action kinds.
func (e *Engine) StructuredAction(ctx context.Context, discordID string, kind rules.Action, target string) (*Outcome, error) {
	p, err := e.loadPlayer(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if p.Energy <= 0 {
		return nil, ErrNoEnergy
	}

	snap := e.clock.Now()
	res := e.validator.IsPossible(kind, target, snap)
	if !res.Possible {
		return &Outcome{Refused: true, Reason: res.Reason, Player: p, Snapshot: snap}, nil
	}

	msgs, err := prompts.New(prompts.FeatureStructuredAction).
		WithPlayer(p).
		WithClock(snap).
		WithWeather(p.CurrentWeather).
		WithValidation(res).
		WithUserAction(string(kind) + " " + target).
		Build()
	if err != nil {
		return nil, err
	}

	return e.narrateAndApply(ctx, p, snap, res.Context, msgs)
}

// FreeAction runs a free-form /act description.
func (e *Engine) FreeAction(ctx context.Context, discordID string, description string) (*Outcome, error) {
	p, err := e.loadPlayer(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if p.Energy <= 0 {
		return nil, ErrNoEnergy
	}

	snap := e.clock.Now()
	msgs, err := prompts.New(prompts.FeatureFreeAction).
		WithPlayer(p).
		WithClock(snap).
		WithWeather(p.CurrentWeather).
		WithUserAction(description).
		Build()
	if err != nil {
		return nil, err
	}

	return e.narrateAndApply(ctx, p, snap, rules.Context{}, msgs)
}

// GoTo moves the player to a location and narrates the arrival. A closed
// location is a refusal, not an error.
func (e *Engine) GoTo(ctx context.Context, discordID string, locationKey string) (*Outcome, error) {
	p, err := e.loadPlayer(ctx, discordID)
	if err != nil {
		return nil, err
	}

	snap := e.clock.Now()
	res := e.validator.IsPossible(rules.ActionJalanJalan, locationKey, snap)
	if !res.Possible {
		return &Outcome{Refused: true, Reason: res.Reason, Player: p, Snapshot: snap}, nil
	}

	feature := prompts.FeatureArrival
	// Someone already here may strike up the conversation instead.
	if len(res.Context.Present) > 0 && spontaneousTalk(snap, discordID) {
		feature = prompts.FeatureSpontaneousTalk
	}

	msgs, err := prompts.New(feature).
		WithPlayer(p).
		WithClock(snap).
		WithWeather(p.CurrentWeather).
		WithValidation(res).
		Build()
	if err != nil {
		return nil, err
	}

	return e.narrateAndApply(ctx, p, snap, res.Context, msgs)
}

// DynamicChoice resumes a cached choice set by button index.
func (e *Engine) DynamicChoice(ctx context.Context, discordID string, index int) (*Outcome, error) {
	p, err := e.loadPlayer(ctx, discordID)
	if err != nil {
		return nil, err
	}

	set, err := e.choices.Get(ctx, discordID)
	if err != nil {
		return nil, err
	}
	if set == nil || index < 0 || index >= len(set.Choices) {
		return nil, ErrChoiceExpired
	}
	choice := set.Choices[index]

	if p.Energy < choice.EnergyCost {
		return nil, ErrNoEnergy
	}

	// A clicked set is single-use.
	if err := e.choices.Delete(ctx, discordID); err != nil && e.logger != nil {
		e.logger.Warn("failed to clear choice set", "player_id", discordID, "error", err)
	}

	snap := e.clock.Now()
	msgs, err := prompts.New(prompts.FeatureStructuredAction).
		WithPlayer(p).
		WithClock(snap).
		WithWeather(p.CurrentWeather).
		WithValidation(rules.Result{Possible: true, Context: set.Context}).
		WithUserAction(choice.Label).
		Build()
	if err != nil {
		return nil, err
	}

	return e.narrateAndApply(ctx, p, snap, set.Context, msgs)
}

// narrateAndApply is the shared LLM round trip: call, fail closed to the
// fixed fallback, apply whitelisted deltas, store new acquaintances and
// pending choices, and reload the row.
func (e *Engine) narrateAndApply(ctx context.Context, p *player.Player, snap worldclock.Snapshot, rctx rules.Context, msgs []chat.ChatMessage) (*Outcome, error) {
	llmCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	usedFallback := false
	result, err := e.llm.Narrate(llmCtx, msgs)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("LLM narration failed, using fallback",
				"player_id", p.DiscordID, "error", err)
		}
		result = chat.Fallback()
		usedFallback = true
	}

	// Defense in depth: the parser already whitelists, but the mock (and
	// any future provider) flows through here too.
	clean, dropped := result.StatChanges.Sanitize()
	if len(dropped) > 0 && e.logger != nil {
		e.logger.Warn("dropped non-whitelisted stat keys",
			"player_id", p.DiscordID, "keys", dropped)
	}
	result.StatChanges = clean

	if !clean.IsEmpty() {
		if err := e.store.ApplyDelta(ctx, p.DiscordID, clean); err != nil {
			return nil, err
		}
	}

	for _, name := range result.NewCharacters {
		if !schedule.IsCharacter(name) {
			continue
		}
		added, err := e.store.AddKnownCharacter(ctx, p.DiscordID, name)
		if err != nil {
			return nil, err
		}
		if added && e.logger != nil {
			e.logger.Info("player met a character", "player_id", p.DiscordID, "character", name)
		}
	}

	if err := e.store.SetField(ctx, p.DiscordID, "last_played_date", snap.DateString); err != nil {
		return nil, err
	}

	if len(result.Choices) > 0 && e.choices != nil {
		set := cache.ChoiceSet{
			ID:        uuid.New(),
			Choices:   result.Choices,
			Context:   rctx,
			CreatedAt: snap.Time,
		}
		if err := e.choices.Put(ctx, p.DiscordID, set); err != nil && e.logger != nil {
			e.logger.Warn("failed to cache choice set", "player_id", p.DiscordID, "error", err)
		}
	}

	refreshed, err := e.store.Get(ctx, p.DiscordID)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Narration:    result,
		UsedFallback: usedFallback,
		Player:       refreshed,
		Snapshot:     snap,
	}, nil
}

// Clock exposes the engine's clock to presentation layers.
func (e *Engine) Clock() worldclock.Clock {
	return e.clock
}

// DailyReset restores a player's energy to full; the cron sweep calls
// this at 05:00 JST for recently active players, and loadPlayer applies
// it lazily otherwise.
func (e *Engine) DailyReset(ctx context.Context, discordID string) error {
	return e.store.RecoverEnergy(ctx, discordID, player.MaxEnergy)
}

var weatherKinds = []string{
	"cerah", "cerah berangin", "berawan", "gerimis", "hujan deras", "panas lembap",
}

// weatherFor picks the day's weather deterministically from the date, so
// every player in the same in-world day shares it.
func weatherFor(dateString string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(dateString))
	return weatherKinds[h.Sum32()%uint32(len(weatherKinds))]
}

// spontaneousTalk decides whether an arrival turns into being greeted
// first. Deterministic in (hour, player) so retries don't reroll it.
func spontaneousTalk(snap worldclock.Snapshot, discordID string) bool {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d:%s", snap.DateString, snap.Hour, discordID)))
	return h.Sum32()%4 == 0
}
