package schedule

// timetable is the static world schedule. Every list covers [0,24)
// contiguously with half-open, non-overlapping ranges; cmd/validate
// checks this on demand and the package tests enforce it.
var timetable = map[string]map[DayType][]Entry{
	"bocchi": {
		Weekday: {
			{0, 7, "rumah_bocchi", "tidur", "lelah", Simple(Unavailable)},
			{7, 8, "shimokitazawa", "berangkat sekolah sambil menunduk", "gugup",
				WithGrading(Limited, VeryHard, "dia berjalan cepat sambil menghindari kontak mata")},
			{8, 16, "sekolah", "sekolah (bersembunyi saat jam istirahat)", "tegang", Simple(Unavailable)},
			{16, 17, "shimokitazawa", "pulang sekolah", "lega",
				WithGrading(Limited, Hard, "dia ingin cepat sampai rumah")},
			{17, 19, "rumah_bocchi", "latihan gitar di dalam lemari", "fokus",
				WithGrading(Limited, VeryHard, "mengganggu latihannya bisa membuatnya panik")},
			{19, 22, "starry", "latihan band Kessoku", "bersemangat", Simple(Available)},
			{22, 24, "rumah_bocchi", "merekam video guitarhero", "fokus",
				WithGrading(Limited, Hard, "dia sedang asyik merekam")},
		},
		Weekend: {
			{0, 9, "rumah_bocchi", "tidur sampai siang", "lelah", Simple(Unavailable)},
			{9, 12, "rumah_bocchi", "latihan gitar maraton", "fokus",
				WithGrading(Limited, VeryHard, "enam jam latihan adalah hal biasa baginya")},
			{12, 14, "rumah_bocchi", "makan siang dan rebahan", "santai",
				WithGrading(Limited, Medium, "dia sendirian di kamar, tapi pintunya tertutup")},
			{14, 17, "taman", "duduk sendirian sambil menulis lirik", "melankolis",
				WithGrading(Limited, Hard, "dia tenggelam dalam pikirannya sendiri")},
			{17, 22, "starry", "latihan band dan bantu-bantu", "gugup", Simple(Available)},
			{22, 24, "rumah_bocchi", "memeriksa komentar di videonya", "cemas",
				WithGrading(Limited, Medium, "satu komentar negatif bisa membuatnya murung")},
		},
	},
	"nijika": {
		Weekday: {
			{0, 7, "rumah_nijika", "tidur", "tenang", Simple(Unavailable)},
			{7, 8, "shimokitazawa", "berangkat sekolah", "ceria", Simple(Available)},
			{8, 16, "sekolah", "sekolah", "ceria", Simple(Unavailable)},
			{16, 17, "shimokitazawa", "jajan sepulang sekolah", "ceria", Simple(Available)},
			{17, 22, "starry", "bekerja dan latihan di STARRY", "sibuk", Simple(Limited)},
			{22, 24, "rumah_nijika", "makan malam bersama Seika", "santai", Simple(Limited)},
		},
		Weekend: {
			{0, 8, "rumah_nijika", "tidur", "tenang", Simple(Unavailable)},
			{8, 10, "rumah_nijika", "beres-beres rumah", "ceria", Simple(Available)},
			{10, 13, "shimokitazawa", "belanja kebutuhan band", "ceria", Simple(Available)},
			{13, 17, "starry", "menyiapkan live house", "sibuk", Simple(Limited)},
			{17, 23, "starry", "mengurus live malam", "sibuk",
				WithGrading(Limited, Hard, "STARRY sedang ramai dan dia mondar-mandir ke mana-mana")},
			{23, 24, "rumah_nijika", "istirahat", "lelah", Simple(Unavailable)},
		},
	},
	"ryo": {
		Weekday: {
			{0, 7, "rumah_ryo", "tidur", "datar", Simple(Unavailable)},
			{7, 8, "shimokitazawa", "jalan santai ke sekolah", "datar", Simple(Limited)},
			{8, 16, "sekolah", "sekolah (tidur di kelas)", "mengantuk", Simple(Unavailable)},
			{16, 17, "shimokitazawa", "melihat-lihat toko alat musik", "tertarik", Simple(Available)},
			{17, 19, "shimokitazawa", "mencari makan dengan budget nol", "lapar",
				WithGrading(Available, Easy, "dia sangat mudah didekati kalau ditraktir")},
			{19, 22, "starry", "latihan band Kessoku", "fokus", Simple(Available)},
			{22, 24, "rumah_ryo", "memainkan bass sendirian", "tenang", Simple(Limited)},
		},
		Weekend: {
			{0, 9, "rumah_ryo", "tidur", "datar", Simple(Unavailable)},
			{9, 12, "rumah_ryo", "bermalas-malasan", "datar", Simple(Limited)},
			{12, 15, "shimokitazawa", "berburu barang bekas", "tertarik", Simple(Available)},
			{15, 17, "taman", "duduk di tepi sungai menghemat uang makan", "lapar",
				WithGrading(Available, Easy, "traktiran selalu diterima")},
			{17, 22, "starry", "latihan band atau menonton live", "santai", Simple(Available)},
			{22, 24, "rumah_ryo", "menyusun bagian bass lagu baru", "fokus",
				WithGrading(Limited, Medium, "dia sedang serius menyusun lagu")},
		},
	},
	"kita": {
		Weekday: {
			{0, 7, "rumah_kita", "tidur", "tenang", Simple(Unavailable)},
			{7, 8, "shimokitazawa", "berangkat sekolah bersama teman-teman", "berseri", Simple(Available)},
			{8, 16, "sekolah", "sekolah (pusat perhatian kelas)", "berseri", Simple(Unavailable)},
			{16, 17, "shimokitazawa", "nongkrong dengan teman sekelas", "ceria",
				WithGrading(Limited, Medium, "dia sedang dikelilingi teman-temannya")},
			{17, 19, "rumah_kita", "latihan vokal dan gitar", "serius", Simple(Limited)},
			{19, 22, "starry", "latihan band Kessoku", "bersemangat", Simple(Available)},
			{22, 24, "rumah_kita", "update media sosial", "santai", Simple(Limited)},
		},
		Weekend: {
			{0, 8, "rumah_kita", "tidur", "tenang", Simple(Unavailable)},
			{8, 11, "rumah_kita", "perawatan diri pagi", "santai", Simple(Limited)},
			{11, 14, "shimokitazawa", "jalan-jalan sambil foto-foto", "berseri", Simple(Available)},
			{14, 17, "taman", "piknik kecil", "ceria", Simple(Available)},
			{17, 22, "starry", "latihan band atau menonton live", "bersemangat", Simple(Available)},
			{22, 24, "rumah_kita", "menelpon teman sampai larut", "ceria",
				WithGrading(Limited, Easy, "dia senang mengobrol walau sudah malam")},
		},
	},
}
