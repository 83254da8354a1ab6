package bot

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// responder wraps one interaction and guards against the two classic
// mistakes: answering twice, and editing a response that was never
// deferred.
type responder struct {
	s        *discordgo.Session
	i        *discordgo.InteractionCreate
	logger   *slog.Logger
	deferred bool
	replied  bool
}

func newResponder(s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger) *responder {
	return &responder{s: s, i: i, logger: logger}
}

// deferReply acknowledges the interaction so the LLM round trip can
// exceed Discord's three-second window.
func (r *responder) deferReply() {
	if r.deferred || r.replied {
		return
	}
	err := r.s.InteractionRespond(r.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		r.logger.Error("failed to defer interaction", "error", err)
		return
	}
	r.deferred = true
}

// respond sends the final payload, as a followup when deferred.
func (r *responder) respond(data *discordgo.InteractionResponseData) {
	if r.replied {
		r.logger.Warn("dropped duplicate interaction response")
		return
	}
	r.replied = true

	if r.deferred {
		_, err := r.s.FollowupMessageCreate(r.i.Interaction, true, &discordgo.WebhookParams{
			Embeds:     data.Embeds,
			Components: data.Components,
			Flags:      data.Flags,
		})
		if err != nil {
			r.logger.Error("failed to send followup", "error", err)
		}
		return
	}

	err := r.s.InteractionRespond(r.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		r.logger.Error("failed to respond to interaction", "error", err)
	}
}

func (r *responder) respondError(err error) {
	msg, known := userMessage(err)
	embed := refusalEmbed(msg)
	if !known {
		r.logger.Error("handler failed", "error", err)
		embed = errorEmbed(msg)
	}
	r.respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}
