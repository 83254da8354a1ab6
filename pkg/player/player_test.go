package player

import (
	"testing"
)

func TestIsValidOrigin(t *testing.T) {
	for _, origin := range OriginStories() {
		if !IsValidOrigin(string(origin)) {
			t.Errorf("expected %s to be a valid origin", origin)
		}
	}
	if IsValidOrigin("idol_trainee") {
		t.Error("unexpected origin accepted")
	}
	if IsValidOrigin("") {
		t.Error("empty origin accepted")
	}
}

func TestKnows(t *testing.T) {
	p := &Player{KnownCharacters: []string{"nijika", "kita"}}
	if !p.Knows("nijika") {
		t.Error("expected player to know nijika")
	}
	if p.Knows("bocchi") {
		t.Error("player should not know bocchi yet")
	}
}

func TestStatDelta_Sanitize(t *testing.T) {
	delta := StatDelta{
		"energy":       -10,
		"bocchi_trust": 2,
		"gold":         9000, // not a stat in this game
		"kita_charm":   1,    // not a real column
	}

	clean, dropped := delta.Sanitize()

	if len(clean) != 2 {
		t.Errorf("expected 2 whitelisted keys, got %d: %v", len(clean), clean)
	}
	if clean["energy"] != -10 || clean["bocchi_trust"] != 2 {
		t.Errorf("whitelisted values mangled: %v", clean)
	}
	if len(dropped) != 2 {
		t.Errorf("expected 2 dropped keys, got %v", dropped)
	}
	if dropped[0] != "gold" || dropped[1] != "kita_charm" {
		t.Errorf("dropped keys not sorted: %v", dropped)
	}
}

func TestStatDelta_SanitizeEmpty(t *testing.T) {
	clean, dropped := StatDelta{}.Sanitize()
	if !clean.IsEmpty() {
		t.Error("expected empty clean delta")
	}
	if len(dropped) != 0 {
		t.Errorf("expected no dropped keys, got %v", dropped)
	}
}

func TestStatFields_CoversAllCharacters(t *testing.T) {
	for _, name := range []string{"bocchi", "nijika", "ryo", "kita"} {
		for _, counter := range []string{"trust", "comfort", "affection"} {
			field := name + "_" + counter
			if !IsStatField(field) {
				t.Errorf("missing stat field %s", field)
			}
		}
	}
	if !IsStatField("energy") {
		t.Error("energy must be a stat field")
	}
	if IsStatField("discord_id") {
		t.Error("discord_id must never be writable via delta")
	}
}
