// Package rules decides whether an action is possible right now, and
// collects the advisory context the prompt builders fold into narration.
package rules

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kessoku-hq/bocchi-life/pkg/schedule"
	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

// Action is a structured action kind.
type Action string

const (
	ActionBicara        Action = "bicara"         // talk to a character
	ActionLatihanGitar  Action = "latihan_gitar"  // guitar practice
	ActionBekerjaStarry Action = "bekerja_starry" // work a STARRY shift
	ActionMenulisLagu   Action = "menulis_lagu"   // songwriting
	ActionJalanJalan    Action = "jalan_jalan"    // walk a district
)

// Actions returns the recognized structured action kinds.
func Actions() []Action {
	return []Action{ActionBicara, ActionLatihanGitar, ActionBekerjaStarry,
		ActionMenulisLagu, ActionJalanJalan}
}

// Tier grades how favorable the moment is. Flavor for the prompt only.
type Tier string

const (
	TierOptimal Tier = "optimal"
	TierBaik    Tier = "baik"
	TierKurang  Tier = "kurang_optimal"
	TierBuruk   Tier = "buruk"
)

// Context is the advisory bag handed to the prompt builders. Nothing in
// it gates whether the LLM is invoked; it is narration flavor.
type Context struct {
	Action        Action
	Target        string
	Location      string
	Activity      string
	Mood          string
	Tier          Tier
	Present       []string
	Atmosphere    string
	TimeRemaining int
	Period        worldclock.Period
	Difficulty    schedule.Difficulty
}

// Result is the validator's verdict plus its context bag.
type Result struct {
	Possible bool
	Reason   string
	Context  Context
}

// Validator applies per-action rules on top of the schedule resolver.
type Validator struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Validator {
	return &Validator{logger: logger}
}

// IsPossible evaluates an action kind against the current snapshot.
// It always returns a Result: internal failures are converted to a
// generic system-error verdict, never propagated as a panic or error.
func (v *Validator) IsPossible(kind Action, target string, snap worldclock.Snapshot) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			if v.logger != nil {
				v.logger.Error("validator panic recovered",
					"action", string(kind), "target", target, "panic", r)
			}
			result = Result{
				Possible: false,
				Reason:   "terjadi kesalahan sistem, coba lagi sebentar lagi",
			}
		}
	}()

	switch kind {
	case ActionBicara:
		return v.checkBicara(target, snap)
	case ActionLatihanGitar:
		return v.checkLatihanGitar(snap)
	case ActionBekerjaStarry:
		return v.checkBekerjaStarry(snap)
	case ActionMenulisLagu:
		return v.checkMenulisLagu(snap)
	case ActionJalanJalan:
		return v.checkJalanJalan(target, snap)
	default:
		return Result{
			Possible: false,
			Reason:   fmt.Sprintf("aksi %q tidak dikenali", string(kind)),
		}
	}
}

func (v *Validator) checkBicara(target string, snap worldclock.Snapshot) Result {
	if !schedule.IsCharacter(target) {
		return Result{
			Possible: false,
			Reason: fmt.Sprintf("tidak ada karakter bernama %q. Pilihan: %s",
				target, strings.Join(schedule.Characters(), ", ")),
		}
	}

	res, err := schedule.CurrentActivity(target, snap)
	if err != nil {
		// Timetable gap: soft failure, treat the character as off-screen.
		return Result{
			Possible: false,
			Reason:   fmt.Sprintf("%s sedang tidak terlihat di mana pun saat ini", target),
		}
	}

	ctx := Context{
		Action:        ActionBicara,
		Target:        target,
		Location:      res.Location,
		Activity:      res.Activity,
		Mood:          res.Mood,
		TimeRemaining: res.TimeRemaining,
		Period:        snap.Period,
	}
	if g := res.Availability.Graded; g != nil {
		ctx.Difficulty = g.Difficulty
	}

	// The unavailable tag is the only hard gate; everything below grades
	// the reason text without flipping the outcome.
	switch res.Availability.Tag {
	case schedule.Unavailable:
		return Result{
			Possible: false,
			Reason:   fmt.Sprintf("%s sedang %s dan tidak bisa diganggu", target, res.Activity),
			Context:  ctx,
		}
	case schedule.Available:
		ctx.Tier = TierOptimal
		reason := fmt.Sprintf("%s sedang %s dan terbuka untuk mengobrol", target, res.Activity)
		if g := res.Availability.Graded; g != nil && g.Difficulty == schedule.Easy {
			reason += ". " + g.Reason
		}
		return Result{Possible: true, Reason: reason, Context: ctx}
	default: // limited
		ctx.Tier = TierKurang
		reason := fmt.Sprintf("%s sedang %s, mungkin bukan saat terbaik", target, res.Activity)
		if g := res.Availability.Graded; g != nil {
			ctx.Tier = tierForDifficulty(g.Difficulty)
			reason = fmt.Sprintf("%s sedang %s. %s. %s",
				target, res.Activity, g.Reason, approachHint(g.Difficulty))
		}
		return Result{Possible: true, Reason: reason, Context: ctx}
	}
}

func tierForDifficulty(d schedule.Difficulty) Tier {
	switch d {
	case schedule.Easy:
		return TierBaik
	case schedule.Medium:
		return TierKurang
	default:
		return TierBuruk
	}
}

func approachHint(d schedule.Difficulty) string {
	switch d {
	case schedule.VeryHard:
		return "Mendekatinya sekarang butuh keberanian ekstra"
	case schedule.Hard:
		return "Dekati dengan hati-hati"
	case schedule.Medium:
		return "Masih bisa diajak bicara kalau sopan"
	default:
		return "Dia kelihatan santai"
	}
}

func (v *Validator) checkLatihanGitar(snap worldclock.Snapshot) Result {
	ctx := Context{Action: ActionLatihanGitar, Location: "rumah_bocchi", Period: snap.Period}

	// Dead-of-night practice wakes the whole block.
	if snap.Hour >= 2 && snap.Hour < 5 {
		return Result{
			Possible: false,
			Reason:   "jam segini latihan gitar hanya akan membangunkan tetangga",
			Context:  ctx,
		}
	}

	switch {
	case snap.Period == worldclock.PeriodSore:
		ctx.Tier = TierOptimal
	case snap.Period == worldclock.PeriodPagi:
		ctx.Tier = TierBaik
	case snap.Hour >= 21 && snap.Hour < 24:
		ctx.Tier = TierKurang // keep it down after dark
	default:
		ctx.Tier = TierBaik
	}

	return Result{
		Possible: true,
		Reason:   "waktunya latihan gitar",
		Context:  ctx,
	}
}

func (v *Validator) checkBekerjaStarry(snap worldclock.Snapshot) Result {
	st, err := schedule.LocationStatus("starry", snap)
	if err != nil {
		return Result{
			Possible: false,
			Reason:   "terjadi kesalahan sistem, coba lagi sebentar lagi",
		}
	}

	ctx := Context{
		Action:     ActionBekerjaStarry,
		Location:   "starry",
		Atmosphere: st.Atmosphere,
		Present:    schedule.CharactersAt("starry", snap),
		Period:     snap.Period,
	}

	if !st.Open {
		return Result{
			Possible: false,
			Reason:   fmt.Sprintf("STARRY sedang tutup. %s", st.Message),
			Context:  ctx,
		}
	}

	ctx.Tier = TierOptimal
	ctx.TimeRemaining = st.HoursUntilChange
	return Result{
		Possible: true,
		Reason:   fmt.Sprintf("shift dimulai. %s", st.Message),
		Context:  ctx,
	}
}

func (v *Validator) checkMenulisLagu(snap worldclock.Snapshot) Result {
	ctx := Context{Action: ActionMenulisLagu, Period: snap.Period}

	switch snap.Period {
	case worldclock.PeriodMalam:
		ctx.Tier = TierOptimal // lyrics flow after dark
	case worldclock.PeriodPagi:
		ctx.Tier = TierBaik
	default:
		ctx.Tier = TierKurang
	}

	return Result{
		Possible: true,
		Reason:   "buku catatan lirik terbuka",
		Context:  ctx,
	}
}

func (v *Validator) checkJalanJalan(target string, snap worldclock.Snapshot) Result {
	if target == "" {
		target = "shimokitazawa"
	}

	st, err := schedule.LocationStatus(target, snap)
	if err != nil {
		return Result{
			Possible: false,
			Reason: fmt.Sprintf("tidak ada tempat bernama %q. Pilihan: %s",
				target, strings.Join(schedule.LocationKeys(), ", ")),
		}
	}

	ctx := Context{
		Action:        ActionJalanJalan,
		Target:        target,
		Location:      target,
		Atmosphere:    st.Atmosphere,
		Present:       schedule.CharactersAt(target, snap),
		Period:        snap.Period,
		TimeRemaining: st.HoursUntilChange,
	}

	if !st.Open {
		return Result{
			Possible: false,
			Reason:   st.Message,
			Context:  ctx,
		}
	}

	if snap.Period == worldclock.PeriodMalam && snap.Hour < 5 {
		ctx.Tier = TierKurang
	} else {
		ctx.Tier = TierBaik
	}

	return Result{
		Possible: true,
		Reason:   fmt.Sprintf("berjalan-jalan di %s", st.Location.DisplayName),
		Context:  ctx,
	}
}
