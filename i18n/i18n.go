package i18n

import (
	"strings"

	"github.com/jeandeaual/go-locale"
	log "github.com/sirupsen/logrus"
)

var lang = "en"

var translations = map[string]map[string]string{
	"amp_envelope": {
		"en": "Amp Envelope",
		"pt": "Envelope de Amplitude",
		"es": "Envolvente de Amplitud",
		"ru": "Огибающая усилителя",
	},
	"filter_envelope": {
		"en": "Filter Envelope",
		"pt": "Envelope do Filtro",
		"es": "Envolvente del Filtro",
		"ru": "Огибающая фильтра",
	},
	"oscillator_1": {
		"en": "Oscillator 1",
		"pt": "Oscilador 1",
		"es": "Oscilador 1",
		"ru": "Осциллятор 1",
	},
	"oscillator_2": {
		"en": "Oscillator 2",
		"pt": "Oscilador 2",
		"es": "Oscilador 2",
		"ru": "Осциллятор 2",
	},
	"mixer": {
		"en": "Mixer",
		"pt": "Mixer",
		"es": "Mezclador",
		"ru": "Микшер",
	},
	"filter": {
		"en": "Filter",
		"pt": "Filtro",
		"es": "Filtro",
		"ru": "Фильтр",
	},
	"amp": {
		"en": "Amp",
		"pt": "Amplificador",
		"es": "Amplificador",
		"ru": "Усилитель",
	},
	"lfo": {
		"en": "LFO",
	},
	"reverb": {
		"en": "Reverb",
		"pt": "Reverberação",
		"es": "Reverberación",
		"ru": "Реверберация",
	},
	"keyboard": {
		"en": "Keyboard",
		"pt": "Teclado",
		"es": "Teclado",
		"ru": "Клавиатура",
	},
}

// Init selects the UI language. A non-empty override wins over the system
// locale.
func Init(override string) {
	if forcedLang := strings.TrimSpace(override); forcedLang != "" {
		log.Printf("UI language forced to: '%s'", forcedLang)
		lang = normalize(forcedLang)
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil {
		log.Println("Could not get user locale, defaulting to english")
		lang = "en"
		return
	}

	if len(userLocales) > 0 {
		log.Debugf("Detected user locale: %s", userLocales[0])
		lang = normalize(userLocales[0])
	} else {
		log.Println("No user locale detected, defaulting to english")
		lang = "en"
	}
	log.Debugf("Language set to: %s", lang)
}

func normalize(locale string) string {
	for _, l := range []string{"pt", "es", "ru"} {
		if strings.HasPrefix(locale, l) {
			return l
		}
	}
	return "en"
}

// T translates key, falling back to English and then to the key itself.
func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	if translated, ok := translations[key]["en"]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	return lang
}
