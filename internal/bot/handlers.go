package bot

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/kessoku-hq/bocchi-life/internal/game"
	"github.com/kessoku-hq/bocchi-life/pkg/player"
	"github.com/kessoku-hq/bocchi-life/pkg/rules"
)

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, s, i)
	}
}

func (b *Bot) handleCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	userID := interactionUserID(i)
	r := newResponder(s, i, b.logger)

	b.logger.Info("command received", "command", data.Name, "user_id", userID)

	switch data.Name {
	case "register":
		b.handleRegister(ctx, r, userID, player.OriginStory(optionString(data.Options, "asal")))

	case "start_life":
		r.respond(&discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{prologueEmbed()},
			Components: prologueComponents(),
		})

	case "profile":
		p, err := b.engine.Profile(ctx, userID)
		if err != nil {
			r.respondError(err)
			return
		}
		r.respond(&discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{profileEmbed(p, b.engine.Clock().Now())},
			Flags:  discordgo.MessageFlagsEphemeral,
		})

	case "aksi":
		r.deferReply()
		out, err := b.engine.StructuredAction(ctx, userID,
			rules.Action(optionString(data.Options, "jenis")),
			optionString(data.Options, "target"))
		b.finishOutcome(r, userID, out, err)

	case "act":
		r.deferReply()
		out, err := b.engine.FreeAction(ctx, userID, optionString(data.Options, "deskripsi"))
		b.finishOutcome(r, userID, out, err)

	case "go":
		r.deferReply()
		out, err := b.engine.GoTo(ctx, userID, optionString(data.Options, "lokasi"))
		b.finishOutcome(r, userID, out, err)

	default:
		r.respondError(errors.New("unknown command"))
	}
}

func (b *Bot) handleRegister(ctx context.Context, r *responder, userID string, origin player.OriginStory) {
	p, err := b.engine.Register(ctx, userID, origin)
	if err != nil {
		r.respondError(err)
		return
	}
	r.respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: "Selamat datang di Shimokitazawa",
				Description: "Kehidupan barumu dimulai sebagai **" +
					originLabels[p.OriginStory] + "**. Gunakan /go untuk menjelajah.",
				Color: colorNarration,
			},
		},
	})
}

func (b *Bot) handleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	userID := interactionUserID(i)
	r := newResponder(s, i, b.logger)

	if origin, ok := parsePrologueID(customID); ok {
		b.handleRegister(ctx, r, userID, origin)
		return
	}

	if index, ownerID, ok := parseDynamicActionID(customID); ok {
		// Buttons are visible to the whole channel; only the player the
		// choices were generated for may click them.
		if ownerID != userID {
			r.respond(&discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{refusalEmbed("Pilihan ini bukan untukmu.")},
				Flags:  discordgo.MessageFlagsEphemeral,
			})
			return
		}
		r.deferReply()
		out, err := b.engine.DynamicChoice(ctx, userID, index)
		b.finishOutcome(r, userID, out, err)
		return
	}

	b.logger.Warn("unrecognized component", "custom_id", customID)
}

func (b *Bot) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != "go" {
		return
	}
	prefix := ""
	for _, opt := range data.Options {
		if opt.Name == "lokasi" && opt.Focused {
			prefix = opt.StringValue()
		}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: locationChoices(prefix),
		},
	})
	if err != nil {
		b.logger.Error("autocomplete response failed", "error", err)
	}
}

// finishOutcome maps an engine result to the deferred followup.
func (b *Bot) finishOutcome(r *responder, userID string, out *game.Outcome, err error) {
	if err != nil {
		r.respondError(err)
		return
	}
	if out.Refused {
		r.respond(&discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{refusalEmbed(out.Reason)},
		})
		return
	}
	r.respond(&discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{narrationEmbed(out)},
		Components: choiceComponents(out, userID),
	})
}

// userMessage translates engine errors to in-world Indonesian. Unknown
// errors stay generic; details go to the log, not the channel.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, game.ErrNotRegistered):
		return "Kamu belum terdaftar. Gunakan /register atau /start_life dahulu.", true
	case errors.Is(err, game.ErrAlreadyRegistered):
		return "Kamu sudah punya kehidupan di sini. Gunakan /profile untuk melihatnya.", true
	case errors.Is(err, game.ErrNoEnergy):
		return "Energimu habis. Istirahatlah, energi pulih setiap pukul 05:00.", true
	case errors.Is(err, game.ErrChoiceExpired):
		return "Pilihan itu sudah kedaluwarsa. Coba lakukan aksi baru.", true
	default:
		return "Terjadi kesalahan. Coba lagi sebentar lagi.", false
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func optionString(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range opts {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
