// Package language holds the per-language settings used across the flows:
// which speech model to ask for, how to split spoken task lists and which
// prompts to send to the language model.
package language

import (
	"regexp"
	"sort"
	"strings"
)

// Code is a short language selector as sent by the client ("en", "id").
type Code string

const (
	English    Code = "en"
	Indonesian Code = "id"

	// Default is used when the client omits the selector or sends one we do not know.
	Default = English
)

// Profile bundles everything that varies by language.
type Profile struct {
	Code Code

	// SpeechLanguage and SpeechModel are passed to the transcription service
	// as language_code and speech_model.
	SpeechLanguage string
	SpeechModel    string

	// TaskDelimiter splits a spoken task list on sequencing words.
	TaskDelimiter *regexp.Regexp

	JournalPrompt string
	TaskPrompt    string
}

// delimiterPattern builds a case-insensitive split pattern from sequencing words.
// Each word may be followed by a comma or period and must be followed by whitespace.
func delimiterPattern(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)[,.]?\s+`)
}

var profiles = map[Code]Profile{
	English: {
		Code:           English,
		SpeechLanguage: "en_us",
		SpeechModel:    "best",
		TaskDelimiter: delimiterPattern(
			"then", "after that", "next", "finally", "and then", "followed by", "later",
			"afterwards", "subsequently", "first", "second", "third", "lastly",
		),
		JournalPrompt: englishJournalPrompt,
		TaskPrompt:    englishTaskPrompt,
	},
	Indonesian: {
		Code:           Indonesian,
		SpeechLanguage: "id",
		SpeechModel:    "nano",
		TaskDelimiter: delimiterPattern(
			"kemudian", "setelah itu", "lalu", "akhirnya", "dan", "selanjutnya",
			"berikutnya", "pertama", "kedua", "ketiga", "terakhir",
		),
		JournalPrompt: indonesianJournalPrompt,
		TaskPrompt:    indonesianTaskPrompt,
	},
}

// Lookup returns the profile for code, falling back to Default.
func Lookup(code Code) Profile {
	if p, ok := profiles[Normalize(string(code))]; ok {
		return p
	}
	return profiles[Default]
}

// Normalize lower-cases and trims a raw selector. Unknown or empty
// selectors map to Default.
func Normalize(raw string) Code {
	c := Code(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := profiles[c]; ok {
		return c
	}
	return Default
}

// Supported lists the known codes in stable order.
func Supported() []Code {
	codes := make([]Code, 0, len(profiles))
	for c := range profiles {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
