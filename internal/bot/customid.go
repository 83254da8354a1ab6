package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kessoku-hq/bocchi-life/pkg/player"
)

// Button custom IDs carry their routing data inline, since Discord
// components have no other state channel.
//
//	dynamic_action_{index}_{playerID}
//	prologue_{originStory}

const (
	dynamicActionPrefix = "dynamic_action_"
	prologuePrefix      = "prologue_"
)

func dynamicActionID(index int, playerID string) string {
	return fmt.Sprintf("%s%d_%s", dynamicActionPrefix, index, playerID)
}

// parseDynamicActionID splits a dynamic_action custom ID; ok is false
// for anything that doesn't match the shape.
func parseDynamicActionID(customID string) (index int, playerID string, ok bool) {
	rest, found := strings.CutPrefix(customID, dynamicActionPrefix)
	if !found {
		return 0, "", false
	}
	idx, rest, found := strings.Cut(rest, "_")
	if !found || rest == "" {
		return 0, "", false
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return 0, "", false
	}
	return n, rest, true
}

func prologueID(origin player.OriginStory) string {
	return prologuePrefix + string(origin)
}

func parsePrologueID(customID string) (player.OriginStory, bool) {
	rest, found := strings.CutPrefix(customID, prologuePrefix)
	if !found || !player.IsValidOrigin(rest) {
		return "", false
	}
	return player.OriginStory(rest), true
}
