package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kessoku-hq/bocchi-life/pkg/player"
	"github.com/kessoku-hq/bocchi-life/pkg/rules"
	"github.com/kessoku-hq/bocchi-life/pkg/schedule"
)

// commandDefinitions is the full slash-command surface, pushed with a
// bulk overwrite so removed commands disappear on deploy.
func commandDefinitions() []*discordgo.ApplicationCommand {
	originChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 3)
	for _, o := range player.OriginStories() {
		originChoices = append(originChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  originLabels[o],
			Value: string(o),
		})
	}

	actionChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 5)
	for _, a := range rules.Actions() {
		actionChoices = append(actionChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(a),
			Value: string(a),
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "register",
			Description: "Mulai kehidupan barumu di Shimokitazawa",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "asal",
					Description: "Latar belakang karaktermu",
					Required:    true,
					Choices:     originChoices,
				},
			},
		},
		{
			Name:        "start_life",
			Description: "Baca prolog dan pilih latar belakangmu",
		},
		{
			Name:        "profile",
			Description: "Lihat energi dan hubunganmu",
		},
		{
			Name:        "aksi",
			Description: "Lakukan salah satu aksi",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "jenis",
					Description: "Jenis aksi",
					Required:    true,
					Choices:     actionChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "target",
					Description: "Nama karakter atau tempat, bila perlu",
				},
			},
		},
		{
			Name:        "act",
			Description: "Lakukan sesuatu dengan kata-katamu sendiri",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "deskripsi",
					Description: "Apa yang ingin kamu lakukan?",
					Required:    true,
				},
			},
		},
		{
			Name:        "go",
			Description: "Pergi ke suatu tempat",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "lokasi",
					Description:  "Tujuan",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	}
}

var originLabels = map[player.OriginStory]string{
	player.OriginMuridPindahan: "Murid pindahan",
	player.OriginTetangga:      "Tetangga keluarga Gotoh",
	player.OriginStafStarry:    "Staf baru STARRY",
}

// locationChoices builds the /go autocomplete list, filtered by prefix.
func locationChoices(prefix string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 8)
	for _, key := range schedule.LocationKeys() {
		loc, err := schedule.GetLocation(key)
		if err != nil {
			continue
		}
		if prefix != "" && !matchesPrefix(loc, prefix) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  loc.DisplayName,
			Value: loc.Key,
		})
	}
	return choices
}

func matchesPrefix(loc *schedule.Location, prefix string) bool {
	return hasFold(loc.Key, prefix) || hasFold(loc.DisplayName, prefix)
}

func hasFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (b *Bot) registerCommands() error {
	if b.cfg.ClientID == "" {
		b.logger.Warn("CLIENT_ID not set, skipping command registration")
		return nil
	}
	cmds := commandDefinitions()
	if _, err := b.session.ApplicationCommandBulkOverwrite(b.cfg.ClientID, b.cfg.GuildID, cmds); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	b.logger.Info("slash commands registered", "count", len(cmds), "guild_id", b.cfg.GuildID)
	return nil
}
