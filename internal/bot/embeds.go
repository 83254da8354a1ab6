package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kessoku-hq/bocchi-life/internal/game"
	"github.com/kessoku-hq/bocchi-life/pkg/player"
	"github.com/kessoku-hq/bocchi-life/pkg/schedule"
	"github.com/kessoku-hq/bocchi-life/pkg/textfilter"
	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

// Embed colors follow a small taxonomy: pink for narration, orange for
// refusals and user mistakes, red for system trouble.
const (
	colorNarration = 0xF28BB4
	colorRefusal   = 0xE67E22
	colorError     = 0xE74C3C
	colorProfile   = 0x3498DB
)

func narrationEmbed(out *game.Outcome) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Description: out.Narration.Narration,
		Color:       colorNarration,
		Footer: &discordgo.MessageEmbedFooter{
			Text: worldFooter(out.Snapshot, out.Player),
		},
	}
	if out.UsedFallback {
		embed.Color = colorRefusal
	}
	if out.Narration.Mood != "" {
		embed.Title = out.Narration.Mood
	}
	if !out.Narration.StatChanges.IsEmpty() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Perubahan",
			Value:  formatDelta(out.Narration.StatChanges),
			Inline: false,
		})
	}
	return embed
}

func refusalEmbed(reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Tidak bisa",
		Description: reason,
		Color:       colorRefusal,
	}
}

func errorEmbed(msg string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Ada masalah",
		Description: msg,
		Color:       colorError,
	}
}

func profileEmbed(p *player.Player, snap worldclock.Snapshot) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Energi",
			Value:  fmt.Sprintf("%d/%d", p.Energy, player.MaxEnergy),
			Inline: true,
		},
		{
			Name:   "Latar belakang",
			Value:  originLabels[p.OriginStory],
			Inline: true,
		},
		{
			Name:   "Cuaca",
			Value:  p.CurrentWeather,
			Inline: true,
		},
	}

	if len(p.KnownCharacters) > 0 {
		var b strings.Builder
		for _, name := range schedule.Characters() {
			if !p.Knows(name) {
				continue
			}
			rel := p.Relationships[name]
			fmt.Fprintf(&b, "**%s**: trust %d, comfort %d, affection %d\n",
				textfilter.TitleName(name), rel.Trust, rel.Comfort, rel.Affection)
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Kenalan",
			Value: b.String(),
		})
	} else {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Kenalan",
			Value: "Belum ada. Cobalah keluar rumah.",
		})
	}

	return &discordgo.MessageEmbed{
		Title:  "Profil",
		Color:  colorProfile,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: worldFooter(snap, p),
		},
	}
}

const prologueText = "Shimokitazawa, distrik kecil di barat Tokyo. " +
	"Di antara toko piringan hitam dan kedai kopi sempit, ada sebuah " +
	"live house bernama STARRY. Kehidupan barumu dimulai di sini.\n\n" +
	"Siapa dirimu?"

func prologueEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Prolog",
		Description: prologueText,
		Color:       colorNarration,
	}
}

func prologueComponents() []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, 3)
	for _, o := range player.OriginStories() {
		buttons = append(buttons, discordgo.Button{
			Label:    originLabels[o],
			Style:    discordgo.PrimaryButton,
			CustomID: prologueID(o),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

// choiceComponents renders the dynamic action buttons for a narration.
// Discord caps an action row at five buttons.
func choiceComponents(out *game.Outcome, playerID string) []discordgo.MessageComponent {
	if out.Narration == nil || len(out.Narration.Choices) == 0 {
		return nil
	}
	choices := out.Narration.Choices
	if len(choices) > 5 {
		choices = choices[:5]
	}
	buttons := make([]discordgo.MessageComponent, 0, len(choices))
	for i, c := range choices {
		label := c.Label
		if c.EnergyCost > 0 {
			label = fmt.Sprintf("%s (-%d)", c.Label, c.EnergyCost)
		}
		buttons = append(buttons, discordgo.Button{
			Label:    label,
			Style:    discordgo.SecondaryButton,
			CustomID: dynamicActionID(i, playerID),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

func worldFooter(snap worldclock.Snapshot, p *player.Player) string {
	txt := fmt.Sprintf("%s %02d:%02d JST", snap.DayName, snap.Hour, snap.Minute)
	if p != nil {
		txt += fmt.Sprintf(" · Energi %d/%d", p.Energy, player.MaxEnergy)
	}
	return txt
}

func formatDelta(delta player.StatDelta) string {
	parts := make([]string, 0, len(delta))
	for _, field := range player.StatFields() {
		v, ok := delta[field]
		if !ok || v == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %+d", field, v))
	}
	if len(parts) == 0 {
		return "tidak ada"
	}
	return strings.Join(parts, ", ")
}
