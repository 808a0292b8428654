package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var uiStrings = map[string]map[string]string{
	"en": {
		"welcome":          "Adventure is calling! Ready to learn?",
		"enterName":        "Enter your name:",
		"imAKid":           "I'm a Kid",
		"imAParent":        "I'm a Parent",
		"hello":            "Hello",
		"points":           "adventure points!",
		"recentAdventures": "Your Recent Adventures",
		"exploreGlobe":     "Explore the Globe",
		"pickPlace":        "Pick a place on the map!",
		"createCustom":     "Create Custom Adventure",
		"whereToTravel":    "Where do you want to travel to?",
		"generate":         "Generate Adventure",
		"magicLoading":     "Magic Loading...",
		"next":             "Next",
		"back":             "Back",
		"startQuiz":        "Start Quiz",
		"finish":           "Finish Adventure",
		"pointsEarned":     "You earned",
		"returnMap":        "Return to Map",
		"language":         "Language",
		"parentDash":       "Parent Dashboard",
		"storiesCompleted": "Stories Completed",
		"explorerRank":     "Explorer Rank",
		"signOut":          "Sign Out",
		"listen":           "Listen",
	},
	"ms": {
		"welcome":          "Pengembaraan memanggil! Sedia untuk belajar?",
		"enterName":        "Masukkan nama anda:",
		"imAKid":           "Saya Kanak-kanak",
		"imAParent":        "Saya Ibu Bapa",
		"hello":            "Helo",
		"points":           "mata pengembaraan!",
		"recentAdventures": "Pengembaraan Terbaru Anda",
		"exploreGlobe":     "Teroka Dunia",
		"pickPlace":        "Pilih tempat pada peta!",
		"createCustom":     "Cipta Pengembaraan Sendiri",
		"whereToTravel":    "Ke mana anda mahu mengembara?",
		"generate":         "Cipta Pengembaraan",
		"magicLoading":     "Sihir Sedang Memuatkan...",
		"next":             "Seterusnya",
		"back":             "Kembali",
		"startQuiz":        "Mula Kuiz",
		"finish":           "Tamat Pengembaraan",
		"pointsEarned":     "Anda mendapat",
		"returnMap":        "Kembali ke Peta",
		"language":         "Bahasa",
		"parentDash":       "Papan Pemuka Ibu Bapa",
		"storiesCompleted": "Cerita Selesai",
		"explorerRank":     "Pangkat Penjelajah",
		"signOut":          "Log Keluar",
		"listen":           "Dengar",
	},
	"es": {
		"welcome":          "¡La aventura llama! ¿Listo para aprender?",
		"enterName":        "Ingresa tu nombre:",
		"imAKid":           "Soy un Niño",
		"imAParent":        "Soy Padre",
		"hello":            "Hola",
		"points":           "puntos de aventura!",
		"recentAdventures": "Tus Aventuras Recientes",
		"exploreGlobe":     "Explorar el Globo",
		"pickPlace":        "¡Elige un lugar en el mapa!",
		"createCustom":     "Crear Aventura Personalizada",
		"whereToTravel":    "¿A dónde quieres viajar?",
		"generate":         "Generar Aventura",
		"magicLoading":     "Cargando Magia...",
		"next":             "Siguiente",
		"back":             "Atrás",
		"startQuiz":        "Empezar Cuestionario",
		"finish":           "Terminar Aventura",
		"pointsEarned":     "Ganaste",
		"returnMap":        "Volver al Mapa",
		"language":         "Idioma",
		"parentDash":       "Panel de Padres",
		"storiesCompleted": "Historias Completadas",
		"explorerRank":     "Rango de Explorador",
		"signOut":          "Cerrar Sesión",
		"listen":           "Escuchar",
	},
}

var cat = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for code, msgs := range uiStrings {
		tag := language.Make(code)
		for key, msg := range msgs {
			b.SetString(tag, key, msg)
		}
	}
	return b
}

// Printer returns a message printer for code backed by the UI catalog
func Printer(code string) *message.Printer {
	return message.NewPrinter(language.Make(code), message.Catalog(cat))
}

// T translates key into code, falling back to English and then to the key
func T(code, key string) string {
	msgs, ok := uiStrings[code]
	if !ok {
		msgs, code = uiStrings[DefaultCode], DefaultCode
	}
	if _, ok := msgs[key]; !ok {
		if _, ok := uiStrings[DefaultCode][key]; !ok {
			return key
		}
		code = DefaultCode
	}
	return Printer(code).Sprintf(key)
}

// Strings returns every UI string resolved for code
func Strings(code string) map[string]string {
	out := make(map[string]string, len(uiStrings[DefaultCode]))
	for key := range uiStrings[DefaultCode] {
		out[key] = T(code, key)
	}
	return out
}

// FormatNumber formats n with the digit grouping of code
func FormatNumber(code string, n int) string {
	return Printer(code).Sprintf("%d", n)
}
