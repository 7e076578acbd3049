package internal

import (
	"golang.org/x/text/language"
)

// Lang is a supported interface language
type Lang string

const (
	LangES Lang = "es"
	LangEN Lang = "en"
)

// Spanish comes first so unmatched input falls back to it
var langMatcher = language.NewMatcher([]language.Tag{language.Spanish, language.English})

// ParseLang maps any BCP 47 tag or Accept-Language style list onto a
// supported language
func ParseLang(s string) Lang {
	tag, _ := language.MatchStrings(langMatcher, s)
	base, _ := tag.Base()
	if base.String() == string(LangEN) {
		return LangEN
	}
	return LangES
}

// Strings holds the user-visible text for one language
type Strings struct {
	Thinking        string
	ErrorPrefix     string
	NewChat         string
	DemoCitation    string
	Prompt          string
	EmptyState      string
	NoResults       string
	EndChat         string
	Useful          string
	Comments        string
	AutoTitlePrefix string
	AutoDescPrefix  string
	Offline         string
}

var catalog = map[Lang]Strings{
	LangES: {
		Thinking:        "Pensando…",
		ErrorPrefix:     "Error al obtener respuesta.",
		NewChat:         "Nueva conversación",
		DemoCitation:    "Manual de mantenimiento",
		Prompt:          "Escribe tu consulta…",
		EmptyState:      "Escanea un QR, ingresa un ID de máquina o comienza a escribir.",
		NoResults:       "Sin resultados.",
		EndChat:         "Finalizar chat",
		Useful:          "¿Fue útil esta conversación?",
		Comments:        "Comentarios adicionales",
		AutoTitlePrefix: "Revisión sobre:",
		AutoDescPrefix:  "Resumen automático del problema detectado:",
		Offline:         "Sin endpoint configurado, respondiendo en modo demo.",
	},
	LangEN: {
		Thinking:        "Thinking…",
		ErrorPrefix:     "Error getting a response.",
		NewChat:         "New conversation",
		DemoCitation:    "Maintenance Manual",
		Prompt:          "Type your question…",
		EmptyState:      "Scan a QR code, enter a machine ID, or start typing.",
		NoResults:       "No results found.",
		EndChat:         "End chat",
		Useful:          "Was this chat useful?",
		Comments:        "Additional comments",
		AutoTitlePrefix: "Review about:",
		AutoDescPrefix:  "Automatic summary of detected issue:",
		Offline:         "No endpoint configured, answering in demo mode.",
	},
}

// T returns the strings for lang
func T(lang Lang) Strings {
	if s, ok := catalog[lang]; ok {
		return s
	}
	return catalog[LangES]
}
