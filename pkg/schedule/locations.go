package schedule

import (
	"fmt"

	"github.com/kessoku-hq/bocchi-life/pkg/worldclock"
)

// ErrUnknownLocation is returned for location keys outside the registry.
var ErrUnknownLocation = fmt.Errorf("unknown location")

// AtmosphereWindow is a half-open hour range with flavor text.
type AtmosphereWindow struct {
	Start int
	End   int
	Text  string
}

// Location is one registry row. OpenHour/CloseHour form a half-open
// window; Open=0 Close=24 marks an always-open location.
type Location struct {
	Key         string
	DisplayName string
	Description string
	Type        string
	OpenHour    int
	CloseHour   int
	Atmosphere  []AtmosphereWindow
}

// AlwaysOpen reports whether the location never closes.
func (l Location) AlwaysOpen() bool {
	return l.OpenHour == 0 && l.CloseHour == 24
}

// Status is the resolved open/closed state of a location at an instant.
type Status struct {
	Location         *Location
	Open             bool
	AlwaysOpen       bool
	HoursUntilChange int
	Message          string
	Atmosphere       string
}

var locations = map[string]*Location{
	"starry": {
		Key:         "starry",
		DisplayName: "STARRY",
		Description: "live house di basement Shimokitazawa tempat Kessoku Band berlatih",
		Type:        "live_house",
		OpenHour:    17,
		CloseHour:   23,
		Atmosphere: []AtmosphereWindow{
			{17, 19, "staf sedang menyiapkan panggung, suara sound check bergema"},
			{19, 21, "penonton mulai berdatangan, lampu panggung menyala"},
			{21, 23, "live sedang berlangsung, lantai bergetar oleh suara bass"},
		},
	},
	"sekolah": {
		Key:         "sekolah",
		DisplayName: "Sekolah",
		Description: "SMA tempat para anggota band bersekolah",
		Type:        "sekolah",
		OpenHour:    7,
		CloseHour:   17,
		Atmosphere: []AtmosphereWindow{
			{7, 8, "siswa berdatangan lewat gerbang depan"},
			{8, 12, "jam pelajaran, koridor sepi"},
			{12, 13, "jam makan siang, kantin ramai"},
			{13, 16, "jam pelajaran sore, suasana mengantuk"},
			{16, 17, "kegiatan klub, suara alat musik dari gedung belakang"},
		},
	},
	"shimokitazawa": {
		Key:         "shimokitazawa",
		DisplayName: "Shimokitazawa",
		Description: "distrik musik dan thrift shop, jalanan sempit penuh kafe",
		Type:        "distrik",
		OpenHour:    0,
		CloseHour:   24,
		Atmosphere: []AtmosphereWindow{
			{0, 5, "jalanan sepi, hanya lampu konbini yang menyala"},
			{5, 9, "toko-toko mulai buka, aroma kopi dari kafe kecil"},
			{9, 17, "jalanan ramai oleh pemburu barang vintage"},
			{17, 21, "lampu-lampu menyala, musisi jalanan mulai tampil"},
			{21, 24, "keramaian malam, suara live house samar dari basement"},
		},
	},
	"taman": {
		Key:         "taman",
		DisplayName: "Taman",
		Description: "taman kecil di tepi sungai dekat stasiun",
		Type:        "taman",
		OpenHour:    0,
		CloseHour:   24,
		Atmosphere: []AtmosphereWindow{
			{0, 5, "gelap dan sunyi, hanya suara sungai"},
			{5, 10, "udara segar, beberapa orang jogging"},
			{10, 17, "anak-anak bermain, burung berisik di pepohonan"},
			{17, 24, "lampu taman menyala, sepasang-dua pasang orang duduk di bangku"},
		},
	},
	"rumah_bocchi": {
		Key:         "rumah_bocchi",
		DisplayName: "Rumah Bocchi",
		Description: "rumah keluarga Gotoh, dengan lemari legendaris di kamar lantai dua",
		Type:        "rumah",
		OpenHour:    0,
		CloseHour:   24,
	},
	"rumah_nijika": {
		Key:         "rumah_nijika",
		DisplayName: "Rumah Nijika",
		Description: "apartemen yang ditinggali Nijika bersama kakaknya Seika",
		Type:        "rumah",
		OpenHour:    0,
		CloseHour:   24,
	},
	"rumah_ryo": {
		Key:         "rumah_ryo",
		DisplayName: "Rumah Ryo",
		Description: "rumah keluarga Yamada, penuh pernak-pernik bass",
		Type:        "rumah",
		OpenHour:    0,
		CloseHour:   24,
	},
	"rumah_kita": {
		Key:         "rumah_kita",
		DisplayName: "Rumah Kita",
		Description: "rumah keluarga Ikuyo yang selalu cerah",
		Type:        "rumah",
		OpenHour:    0,
		CloseHour:   24,
	},
}

// GetLocation looks up a registry row by key.
func GetLocation(key string) (*Location, error) {
	loc, ok := locations[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, key)
	}
	return loc, nil
}

// LocationKeys returns all registry keys, for autocomplete and validation.
func LocationKeys() []string {
	keys := make([]string, 0, len(locations))
	for _, name := range []string{
		"starry", "sekolah", "shimokitazawa", "taman",
		"rumah_bocchi", "rumah_nijika", "rumah_ryo", "rumah_kita",
	} {
		if _, ok := locations[name]; ok {
			keys = append(keys, name)
		}
	}
	return keys
}

// LocationStatus resolves a location's open/closed state at the snapshot,
// including hours until the next open/close transition (wrapping past
// midnight) and the atmosphere text for the current hour.
func LocationStatus(key string, snap worldclock.Snapshot) (*Status, error) {
	loc, err := GetLocation(key)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Location:   loc,
		Atmosphere: loc.atmosphereAt(snap.Hour),
	}

	if loc.AlwaysOpen() {
		st.Open = true
		st.AlwaysOpen = true
		st.Message = fmt.Sprintf("%s buka 24 jam", loc.DisplayName)
		return st, nil
	}

	if snap.Hour >= loc.OpenHour && snap.Hour < loc.CloseHour {
		st.Open = true
		st.HoursUntilChange = loc.CloseHour - snap.Hour
		st.Message = fmt.Sprintf("%s buka, tutup dalam %d jam (pukul %02d:00)",
			loc.DisplayName, st.HoursUntilChange, loc.CloseHour)
		return st, nil
	}

	until := loc.OpenHour - snap.Hour
	if until <= 0 {
		until += 24
	}
	st.HoursUntilChange = until
	st.Message = fmt.Sprintf("%s tutup, buka dalam %d jam (pukul %02d:00)",
		loc.DisplayName, until, loc.OpenHour)
	return st, nil
}

func (l *Location) atmosphereAt(hour int) string {
	for _, w := range l.Atmosphere {
		if hour >= w.Start && hour < w.End {
			return w.Text
		}
	}
	return ""
}

// CharactersAt lists every cast member whose current activity resolves to
// the given location key.
func CharactersAt(key string, snap worldclock.Snapshot) []string {
	var present []string
	for _, name := range Characters() {
		res, err := CurrentActivity(name, snap)
		if err != nil {
			continue
		}
		if res.Location == key {
			present = append(present, name)
		}
	}
	return present
}
