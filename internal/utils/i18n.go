package utils

// Server-side strings only. The question bank carries its own French text.

const DefaultLocale = "fr"

var SupportedLocales = []string{"fr", "en"}

var translations = map[string]map[string]string{
	"fr": {
		"health.ok":            "ok",
		"question.placeholder": "Nouvelle question…",
		"error.not_found":      "session introuvable",
		"error.invalid":        "requête invalide",
	},
	"en": {
		"health.ok":            "ok",
		"question.placeholder": "New question…",
		"error.not_found":      "session not found",
		"error.invalid":        "invalid request",
	},
}

// T returns the translated string for key in locale; falls back to French.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations[DefaultLocale][key]; ok {
		return v
	}
	return key
}
