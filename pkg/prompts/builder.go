package prompts

import (
	"fmt"
	"strings"

	"github.com/kessoku-hq/bocchi-life/pkg/chat"
	"github.com/kessoku-hq/bocchi-life/pkg/player"
	"github.com/kessoku-hq/bocchi-life/pkg/rules"
	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

// Feature selects the closing instructions for a prompt.
type Feature int

const (
	FeatureStructuredAction Feature = iota
	FeatureFreeAction
	FeatureSpontaneousTalk
	FeatureArrival
)

// Builder assembles the message array for one LLM round trip using a
// fluent interface. Build is pure; it never touches the network.
type Builder struct {
	p          *player.Player
	snap       *worldclock.Snapshot
	validation *rules.Result
	weather    string
	userAction string
	feature    Feature
}

// New creates a builder for the given feature.
func New(feature Feature) *Builder {
	return &Builder{feature: feature}
}

// WithPlayer sets the player whose stats and known characters flavor the
// prompt.
func (b *Builder) WithPlayer(p *player.Player) *Builder {
	b.p = p
	return b
}

// WithClock sets the world-time snapshot.
func (b *Builder) WithClock(snap worldclock.Snapshot) *Builder {
	b.snap = &snap
	return b
}

// WithValidation folds in the validator's context bag.
func (b *Builder) WithValidation(res rules.Result) *Builder {
	b.validation = &res
	return b
}

// WithWeather sets the day's weather text.
func (b *Builder) WithWeather(weather string) *Builder {
	b.weather = weather
	return b
}

// WithUserAction sets the player's action description.
func (b *Builder) WithUserAction(desc string) *Builder {
	b.userAction = desc
	return b
}

// Build constructs the final message array.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.p == nil {
		return nil, fmt.Errorf("player is required")
	}
	if b.snap == nil {
		return nil, fmt.Errorf("clock snapshot is required")
	}

	var sb strings.Builder
	sb.WriteString(BaseSystemPrompt)

	sb.WriteString("\n\n### Waktu dunia\n")
	sb.WriteString(fmt.Sprintf("%s, %s pukul %02d:%02d (periode: %s)",
		b.snap.DayName, b.snap.DateString, b.snap.Hour, b.snap.Minute, b.snap.Period))
	if b.weather != "" {
		sb.WriteString(", cuaca: " + b.weather)
	}
	if b.snap.Fallback {
		sb.WriteString(" (perkiraan)")
	}

	b.addPlayerState(&sb)
	b.addValidationContext(&sb)
	b.addCast(&sb)

	sb.WriteString("\n\n### Format jawaban\n")
	sb.WriteString(SchemaPrompt())

	sb.WriteString("\n\n")
	switch b.feature {
	case FeatureFreeAction:
		sb.WriteString(closingFreeform)
	case FeatureSpontaneousTalk:
		sb.WriteString(closingSpontaneous)
	case FeatureArrival:
		sb.WriteString(closingArrival)
	default:
		sb.WriteString(closingStructured)
	}

	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: sb.String()},
	}

	action := b.userAction
	if action == "" {
		action = defaultUserAction(b.feature)
	}
	messages = append(messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: action,
	})

	return messages, nil
}

func defaultUserAction(f Feature) string {
	switch f {
	case FeatureArrival:
		return "Aku tiba di tempat ini."
	case FeatureSpontaneousTalk:
		return "Aku berdiri di sini tanpa melakukan apa-apa."
	default:
		return "Aku menjalani momen ini."
	}
}

func (b *Builder) addPlayerState(sb *strings.Builder) {
	sb.WriteString("\n\n### Pemain\n")
	sb.WriteString(fmt.Sprintf("Latar belakang: %s. Energi: %d/%d.",
		b.p.OriginStory, b.p.Energy, player.MaxEnergy))
	if len(b.p.KnownCharacters) > 0 {
		sb.WriteString(" Sudah kenal: " + strings.Join(b.p.KnownCharacters, ", ") + ".")
	} else {
		sb.WriteString(" Belum kenal siapa pun dari band.")
	}
	for _, name := range []string{"bocchi", "nijika", "ryo", "kita"} {
		rel, ok := b.p.Relationships[name]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n- %s: trust %d, comfort %d, affection %d",
			name, rel.Trust, rel.Comfort, rel.Affection))
	}
}

func (b *Builder) addValidationContext(sb *strings.Builder) {
	if b.validation == nil {
		return
	}
	ctx := b.validation.Context
	sb.WriteString("\n\n### Konteks situasi\n")
	if b.validation.Reason != "" {
		sb.WriteString(b.validation.Reason + ".")
	}
	if ctx.Location != "" {
		sb.WriteString(" Lokasi: " + ctx.Location + ".")
	}
	if ctx.Activity != "" {
		sb.WriteString(fmt.Sprintf(" %s sedang %s (suasana hati: %s).",
			CharacterRef(b.p, ctx.Target), ctx.Activity, ctx.Mood))
	}
	if ctx.Atmosphere != "" {
		sb.WriteString(" Suasana: " + ctx.Atmosphere + ".")
	}
	if ctx.Tier != "" {
		sb.WriteString(fmt.Sprintf(" Momen ini tergolong %s untuk aksi tersebut.", ctx.Tier))
	}
	if len(ctx.Present) > 0 {
		refs := make([]string, 0, len(ctx.Present))
		for _, name := range ctx.Present {
			refs = append(refs, CharacterRef(b.p, name))
		}
		sb.WriteString(" Yang terlihat di sini: " + strings.Join(refs, ", ") + ".")
	}
	if ctx.Difficulty != "" {
		sb.WriteString(fmt.Sprintf(" Tingkat kesulitan pendekatan: %s (hanya pewarna narasi).", ctx.Difficulty))
	}
}

func (b *Builder) addCast(sb *strings.Builder) {
	sb.WriteString("\n\n### Karakter\n")
	for _, name := range []string{"bocchi", "nijika", "ryo", "kita"} {
		sb.WriteString("- " + Personality(name) + "\n")
		if b.p != nil && !b.p.Knows(name) {
			sb.WriteString(fmt.Sprintf("  (pemain belum mengenalnya; sebut sebagai %q, jangan pakai nama)\n",
				descriptions[name]))
		}
	}
}
