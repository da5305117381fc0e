package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-ninety/internal/calendar"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message keys against the embedded locales.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      language.Tag

	// SupportedLanguages lists the locale codes found in the embedded files.
	SupportedLanguages []string
}

// NewTranslator loads every embedded locale and selects lang.
// An unknown or malformed lang falls back to English.
func NewTranslator(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		t.SupportedLanguages = append(t.SupportedLanguages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	t.SetLanguage(lang)
	return t
}

// SetLanguage switches the active locale. The closest supported language wins.
func (t *Translator) SetLanguage(lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Make(config.DefaultLanguage)
	}
	t.lang = language.English
	if supported := t.bundle.LanguageTags(); len(supported) > 0 {
		_, idx, _ := language.NewMatcher(supported).Match(tag)
		t.lang = supported[idx]
	}
	t.localizer = i18n.NewLocalizer(t.bundle, t.lang.String())
}

// Language returns the active locale tag, e.g. "fr".
func (t *Translator) Language() string {
	return t.lang.String()
}

// Msg is a helper to translate a key safely. Missing keys come back unchanged.
func (t *Translator) Msg(key string) string {
	return t.MsgData(key, nil)
}

// MsgData translates a key with template data.
func (t *Translator) MsgData(key string, data map[string]any) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// LevelName returns the localized name of a status level.
func (t *Translator) LevelName(l engine.Level) string {
	switch l {
	case engine.LevelCaution:
		return t.Msg(config.TKeyLevelCaution)
	case engine.LevelApproaching:
		return t.Msg(config.TKeyLevelApproach)
	case engine.LevelOver:
		return t.Msg(config.TKeyLevelOver)
	default:
		return t.Msg(config.TKeyLevelSafe)
	}
}

// EventSummary localizes feed event titles. It matches calendar.Generator.FormatSummary.
func (t *Translator) EventSummary(kind calendar.EventKind, label string, peak int) string {
	var key, fallback string
	switch kind {
	case calendar.KindLeave:
		key, fallback = config.TKeyEvtLeave, fmt.Sprintf(config.FallbackLeaveSummary, label)
	case calendar.KindOverLimit:
		key, fallback = config.TKeyEvtOverLimit, fmt.Sprintf(config.FallbackOverSummary, peak)
	default:
		key, fallback = config.TKeyEvtTrip, fmt.Sprintf(config.FallbackTripSummary, label)
	}

	msg := t.MsgData(key, map[string]any{"Label": label, "Peak": peak})
	if msg == key {
		return fallback
	}
	return msg
}
