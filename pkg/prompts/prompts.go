// Package prompts assembles the natural-language instructions sent to
// the LLM. Builders are pure string construction; nothing here talks to
// the network.
package prompts

import (
	"fmt"
	"strings"

	"github.com/kessoku-hq/bocchi-life/pkg/player"
)

// BaseSystemPrompt frames the narrator role. The game is narrated in
// Indonesian; the JSON envelope stays English so the schema is stable.
const BaseSystemPrompt = `Kamu adalah narator sebuah permainan kehidupan sehari-hari berlatar Shimokitazawa, Tokyo, mengikuti keseharian Kessoku Band (Bocchi, Nijika, Ryo, Kita). Gaya penceritaanmu hangat, sedikit jenaka, dan membumi — slice of life, bukan petualangan epik.

Aturan penceritaan:
- Narasikan dalam bahasa Indonesia, sudut pandang orang kedua ("kamu").
- 1-3 paragraf, maksimal 3 kalimat per paragraf.
- Kamu mengendalikan semua karakter; pemain hanya mengendalikan dirinya sendiri.
- Jangan biarkan pemain menciptakan karakter, tempat, atau kejadian besar baru.
- Jangan merusak dinding keempat atau mengakui bahwa kamu sebuah program.
- Saat karakter berbicara, gunakan format: Nama: "dialog".
- Hormati kepribadian karakter; Bocchi tidak tiba-tiba jadi percaya diri.`

// SchemaPrompt instructs the model to answer as strict JSON. Stat keys
// outside the whitelist are dropped by the parser, but listing them here
// keeps replies clean in the first place.
const schemaPromptTemplate = `Jawab HANYA dengan satu objek JSON, tanpa teks lain dan tanpa code fence:
{
  "narration": "string, wajib",
  "stat_changes": {"<field>": int, ...},
  "mood": "string, opsional",
  "new_characters": ["nama karakter yang baru dikenal pemain", ...],
  "choices": [{"label": "aksi lanjutan singkat", "energy_cost": int}, ...]
}
Field stat_changes yang diizinkan: %s.
Perubahan stat realistis dan kecil: -15..+5 untuk energy, -3..+3 untuk counter hubungan. Aksi yang gagal atau canggung boleh menurunkan counter. "choices" maksimal 3 dan opsional.`

// SchemaPrompt renders the JSON contract with the current whitelist.
func SchemaPrompt() string {
	return fmt.Sprintf(schemaPromptTemplate, strings.Join(player.StatFields(), ", "))
}

// personalities are the static character sheets folded into every prompt
// that involves the cast.
var personalities = map[string]string{
	"bocchi": `Gotoh Hitori "Bocchi": gitaris jenius yang sangat pemalu dan cemas sosial. Bicara terbata-bata, mudah panik, sering melarikan diri ke dalam imajinasi katastrofik. Perlahan terbuka pada orang yang sabar dan tulus. Di atas panggung dia berubah total.`,
	"nijika": `Ijichi Nijika: drummer dan penggerak Kessoku Band. Ceria, perhatian, dewasa melebihi umurnya. Kakaknya Seika mengelola STARRY. Mudah diajak bicara dan pandai menenangkan orang.`,
	"ryo":    `Yamada Ryo: bassis berkepala dingin dengan selera unik. Irit bicara, datar, selalu bokek karena membeli efek bass, tidak menolak ditraktir makan. Sebenarnya peduli pada teman-temannya dengan caranya sendiri.`,
	"kita":   `Ikuyo Kita: vokalis dan gitaris ritme. Sosial, bersinar, "Kita-aura". Penggemar berat Ryo. Bersemangat pada hal-hal baru dan tulus memuji orang lain.`,
}

// descriptions are shown instead of names for characters the player has
// not narratively met yet.
var descriptions = map[string]string{
	"bocchi": "gadis berambut pink dengan jaket olahraga yang selalu menunduk",
	"nijika": "gadis ceria berambut pirang dengan pita segitiga",
	"ryo":    "gadis jangkung berambut biru dengan tatapan kosong",
	"kita":   "gadis berambut merah yang seperti memancarkan cahaya",
}

// Personality returns the character sheet for a cast member, empty for
// unknown names.
func Personality(name string) string {
	return personalities[name]
}

// CharacterRef renders a cast member the way the player perceives them:
// by name when met, by physical description otherwise.
func CharacterRef(p *player.Player, name string) string {
	if p != nil && p.Knows(name) {
		return name
	}
	if d, ok := descriptions[name]; ok {
		return d
	}
	return name
}

// Closing prompts per feature.

const closingStructured = `Narasikan hasil aksi terjadwal pemain sesuai konteks validasi di atas. Kalau kondisinya kurang ideal, biarkan hasilnya canggung atau setengah berhasil.`

const closingFreeform = `Pemain melakukan aksi bebas. Nilai sendiri apakah aksi itu masuk akal untuk dunia ini; kalau tidak, narasikan kegagalannya dengan ringan tanpa menghukum berlebihan. Sertakan "choices" bila ada kelanjutan alami.`

const closingSpontaneous = `Salah satu karakter yang ada di lokasi menyapa atau bereaksi pada pemain lebih dulu. Pilih karakter yang paling masuk akal dari daftar yang hadir, dan tulis dialognya sesuai kepribadiannya.`

const closingArrival = `Pemain baru saja tiba di lokasi ini. Narasikan suasananya memakai teks atmosfer di atas, sebutkan siapa saja yang terlihat, dan akhiri dengan sesuatu yang mengundang pemain bertindak.`
