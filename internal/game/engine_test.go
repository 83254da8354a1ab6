package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/kessoku-hq/bocchi-life/internal/cache"
	"github.com/kessoku-hq/bocchi-life/internal/services"
	"github.com/kessoku-hq/bocchi-life/internal/store"
	"github.com/kessoku-hq/bocchi-life/pkg/chat"
	"github.com/kessoku-hq/bocchi-life/pkg/player"
	"github.com/kessoku-hq/bocchi-life/pkg/rules"
	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

func newTestEngine(snap worldclock.Snapshot) (*Engine, *store.MockStore, *services.MockLLM) {
	st := store.NewMockStore()
	llm := services.NewMockLLM()
	choices := cache.NewMemoryCache(cache.DefaultTTL)
	eng := NewEngine(st, llm, choices, worldclock.FixedClock{Snap: snap}, slog.Default())
	return eng, st, llm
}

func TestRegisterNewPlayer(t *testing.T) {
	eng, _, _ := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	p, err := eng.Register(ctx, "user1", player.OriginMuridPindahan)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if p.Energy != player.MaxEnergy {
		t.Errorf("new player energy = %d, want %d", p.Energy, player.MaxEnergy)
	}
	if p.OriginStory != player.OriginMuridPindahan {
		t.Errorf("origin = %q, want murid_pindahan", p.OriginStory)
	}
	if p.LastPlayedDate == "" {
		t.Error("last_played_date not stamped at registration")
	}
	if p.CurrentWeather == "" {
		t.Error("weather not rolled at registration")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	eng, _, _ := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	if _, err := eng.Register(ctx, "user1", player.OriginTetangga); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	_, err := eng.Register(ctx, "user1", player.OriginTetangga)
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("duplicate Register error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestRegisterInvalidOrigin(t *testing.T) {
	eng, _, _ := newTestEngine(worldclock.At(19, 1))
	if _, err := eng.Register(context.Background(), "user1", "pahlawan"); err == nil {
		t.Error("expected error for invalid origin story")
	}
}

func TestStructuredActionAppliesDeltas(t *testing.T) {
	// Monday 19:00, everyone is at STARRY and available.
	eng, _, llm := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	llm.NarrateFunc = func(ctx context.Context, msgs []chat.ChatMessage) (*chat.NarrationResult, error) {
		return &chat.NarrationResult{
			Narration:   "Bocchi menunduk malu, tapi dia menjawab pertanyaanmu.",
			StatChanges: player.StatDelta{"energy": -10, "bocchi_trust": 2},
		}, nil
	}

	if _, err := eng.Register(ctx, "user1", player.OriginMuridPindahan); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out, err := eng.StructuredAction(ctx, "user1", rules.ActionBicara, "bocchi")
	if err != nil {
		t.Fatalf("StructuredAction failed: %v", err)
	}
	if out.Refused {
		t.Fatalf("action refused: %s", out.Reason)
	}
	if out.UsedFallback {
		t.Error("healthy narration should not use the fallback")
	}
	if out.Player.Energy != 90 {
		t.Errorf("energy after action = %d, want 90", out.Player.Energy)
	}
	if got := out.Player.Relationships["bocchi"].Trust; got != 2 {
		t.Errorf("bocchi trust = %d, want 2", got)
	}
}

func TestLLMFailureFallsBack(t *testing.T) {
	eng, _, llm := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	llm.NarrateFunc = func(ctx context.Context, msgs []chat.ChatMessage) (*chat.NarrationResult, error) {
		return nil, fmt.Errorf("parse: %w", services.ErrMalformedNarration)
	}

	if _, err := eng.Register(ctx, "user1", player.OriginTetangga); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out, err := eng.StructuredAction(ctx, "user1", rules.ActionBicara, "bocchi")
	if err != nil {
		t.Fatalf("fallback path must not surface an error, got %v", err)
	}
	if !out.UsedFallback {
		t.Error("expected UsedFallback on LLM failure")
	}
	if out.Narration.Narration != chat.FallbackNarration {
		t.Errorf("narration = %q, want the fixed fallback", out.Narration.Narration)
	}
	if out.Player.Energy != 99 {
		t.Errorf("energy after fallback = %d, want 99", out.Player.Energy)
	}
}

func TestRefusedActionSkipsLLM(t *testing.T) {
	eng, _, llm := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	if _, err := eng.Register(ctx, "user1", player.OriginStafStarry); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out, err := eng.StructuredAction(ctx, "user1", rules.ActionBicara, "yamada")
	if err != nil {
		t.Fatalf("StructuredAction failed: %v", err)
	}
	if !out.Refused {
		t.Fatal("talking to an unknown name must be refused")
	}
	if !strings.Contains(out.Reason, "bocchi") {
		t.Errorf("refusal reason should list valid characters, got %q", out.Reason)
	}
	if len(llm.NarrateCalls) != 0 {
		t.Errorf("refused action must not call the LLM, got %d calls", len(llm.NarrateCalls))
	}
}

func TestEnergyGate(t *testing.T) {
	eng, st, _ := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	if _, err := eng.Register(ctx, "user1", player.OriginMuridPindahan); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := st.ApplyDelta(ctx, "user1", player.StatDelta{"energy": -player.MaxEnergy}); err != nil {
		t.Fatalf("draining energy failed: %v", err)
	}

	_, err := eng.FreeAction(ctx, "user1", "mencoba menulis lagu")
	if !errors.Is(err, ErrNoEnergy) {
		t.Errorf("error = %v, want ErrNoEnergy", err)
	}
}

func TestUnregisteredPlayer(t *testing.T) {
	eng, _, _ := newTestEngine(worldclock.At(19, 1))
	_, err := eng.Profile(context.Background(), "ghost")
	if !errors.Is(err, ErrNotRegistered) {
		t.Errorf("error = %v, want ErrNotRegistered", err)
	}
}

func TestLazyDailyReset(t *testing.T) {
	eng, st, _ := newTestEngine(worldclock.At(8, 2))
	ctx := context.Background()

	if _, err := eng.Register(ctx, "user1", player.OriginMuridPindahan); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := st.ApplyDelta(ctx, "user1", player.StatDelta{"energy": -60}); err != nil {
		t.Fatalf("draining energy failed: %v", err)
	}
	if err := st.SetField(ctx, "user1", "last_played_date", "2025-01-01"); err != nil {
		t.Fatalf("backdating failed: %v", err)
	}

	p, err := eng.Profile(ctx, "user1")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if p.Energy != player.MaxEnergy {
		t.Errorf("energy after daily reset = %d, want %d", p.Energy, player.MaxEnergy)
	}
	if p.LastPlayedDate == "2025-01-01" {
		t.Error("last_played_date should advance after the reset")
	}
}

func TestNoResetSameDay(t *testing.T) {
	eng, st, _ := newTestEngine(worldclock.At(14, 3))
	ctx := context.Background()

	if _, err := eng.Register(ctx, "user1", player.OriginMuridPindahan); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := st.ApplyDelta(ctx, "user1", player.StatDelta{"energy": -30}); err != nil {
		t.Fatalf("draining energy failed: %v", err)
	}

	p, err := eng.Profile(ctx, "user1")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if p.Energy != 70 {
		t.Errorf("same-day profile energy = %d, want 70", p.Energy)
	}
}

func TestNewCharactersAreGated(t *testing.T) {
	eng, _, llm := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	llm.NarrateFunc = func(ctx context.Context, msgs []chat.ChatMessage) (*chat.NarrationResult, error) {
		return &chat.NarrationResult{
			Narration:     "Gadis berambut merah itu memperkenalkan diri: Kita Ikuyo!",
			StatChanges:   player.StatDelta{"energy": -5},
			NewCharacters: []string{"kita", "seika"},
		}, nil
	}

	if _, err := eng.Register(ctx, "user1", player.OriginTetangga); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out, err := eng.FreeAction(ctx, "user1", "menyapa gadis berambut merah")
	if err != nil {
		t.Fatalf("FreeAction failed: %v", err)
	}
	if !out.Player.Knows("kita") {
		t.Error("player should now know kita")
	}
	if out.Player.Knows("seika") {
		t.Error("unknown roster names must be ignored")
	}
}

func TestNonWhitelistedKeysDropped(t *testing.T) {
	eng, _, llm := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	llm.NarrateFunc = func(ctx context.Context, msgs []chat.ChatMessage) (*chat.NarrationResult, error) {
		return &chat.NarrationResult{
			Narration:   "Kamu menemukan uang seribu yen di jalan.",
			StatChanges: player.StatDelta{"energy": -2, "gold": 1000},
		}, nil
	}

	if _, err := eng.Register(ctx, "user1", player.OriginMuridPindahan); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out, err := eng.FreeAction(ctx, "user1", "jalan-jalan santai")
	if err != nil {
		t.Fatalf("FreeAction failed: %v", err)
	}
	if out.Player.Energy != 98 {
		t.Errorf("energy = %d, want 98", out.Player.Energy)
	}
	if _, ok := out.Narration.StatChanges["gold"]; ok {
		t.Error("gold must be dropped by the whitelist")
	}
}

func TestDynamicChoiceRoundTrip(t *testing.T) {
	eng, _, llm := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	llm.NarrateFunc = func(ctx context.Context, msgs []chat.ChatMessage) (*chat.NarrationResult, error) {
		return &chat.NarrationResult{
			Narration:   "Nijika melambai dari belakang drum set.",
			StatChanges: player.StatDelta{"energy": -5},
			Choices: []chat.ActionChoice{
				{Label: "Bantu angkat amplifier", Description: "membantu persiapan live", EnergyCost: 10},
				{Label: "Tonton dari bar", Description: "duduk dan menonton", EnergyCost: 5},
			},
		}, nil
	}

	if _, err := eng.Register(ctx, "user1", player.OriginStafStarry); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := eng.StructuredAction(ctx, "user1", rules.ActionBicara, "nijika"); err != nil {
		t.Fatalf("StructuredAction failed: %v", err)
	}

	llm.NarrateFunc = nil // default canned narration for the follow-up
	out, err := eng.DynamicChoice(ctx, "user1", 0)
	if err != nil {
		t.Fatalf("DynamicChoice failed: %v", err)
	}
	if out.Narration == nil {
		t.Fatal("expected a narration for the chosen action")
	}

	// The clicked set is single-use.
	if _, err := eng.DynamicChoice(ctx, "user1", 1); !errors.Is(err, ErrChoiceExpired) {
		t.Errorf("second click error = %v, want ErrChoiceExpired", err)
	}
}

func TestDynamicChoiceOutOfRange(t *testing.T) {
	eng, _, _ := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	if _, err := eng.Register(ctx, "user1", player.OriginMuridPindahan); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := eng.DynamicChoice(ctx, "user1", 0); !errors.Is(err, ErrChoiceExpired) {
		t.Errorf("error = %v, want ErrChoiceExpired for empty cache", err)
	}
}

func TestGoToClosedLocationRefused(t *testing.T) {
	// 10:00, STARRY opens at 17:00.
	eng, _, llm := newTestEngine(worldclock.At(10, 1))
	ctx := context.Background()

	if _, err := eng.Register(ctx, "user1", player.OriginMuridPindahan); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out, err := eng.GoTo(ctx, "user1", "starry")
	if err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}
	if !out.Refused {
		t.Fatal("arriving at a closed venue must be refused")
	}
	if !strings.Contains(out.Reason, "17") {
		t.Errorf("refusal should mention the opening hour, got %q", out.Reason)
	}
	if len(llm.NarrateCalls) != 0 {
		t.Error("refused arrival must not call the LLM")
	}
}

func TestGoToOpenLocationNarrates(t *testing.T) {
	eng, _, _ := newTestEngine(worldclock.At(19, 1))
	ctx := context.Background()

	if _, err := eng.Register(ctx, "user1", player.OriginTetangga); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	out, err := eng.GoTo(ctx, "user1", "starry")
	if err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}
	if out.Refused {
		t.Fatalf("open venue refused: %s", out.Reason)
	}
	if out.Narration == nil || out.Narration.Narration == "" {
		t.Error("expected an arrival narration")
	}
}

func TestWeatherDeterministicPerDay(t *testing.T) {
	a := weatherFor("2025-06-02")
	b := weatherFor("2025-06-02")
	if a != b {
		t.Errorf("weather must be stable within a day: %q vs %q", a, b)
	}
	found := false
	for _, w := range weatherKinds {
		if w == a {
			found = true
		}
	}
	if !found {
		t.Errorf("weather %q not in the known set", a)
	}
}

func TestWeatherValidAcrossDates(t *testing.T) {
	kinds := make(map[string]bool, len(weatherKinds))
	for _, w := range weatherKinds {
		kinds[w] = true
	}
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		date := day.AddDate(0, 0, i).Format("2006-01-02")
		if w := weatherFor(date); !kinds[w] {
			t.Fatalf("weatherFor(%s) = %q, not in the known set", date, w)
		}
	}
}
