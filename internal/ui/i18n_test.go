package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-ninety/internal/calendar"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
	"github.com/tartampluch/go-ninety/internal/ui"
)

func TestTranslator_LanguageSelection(t *testing.T) {
	tests := []struct {
		name string
		lang string
		want string
	}{
		{"English", "en", "en"},
		{"French", "fr", "fr"},
		{"RegionalVariant", "fr-CA", "fr"},
		{"Unsupported", "de", "en"},
		{"Malformed", "not a tag!", "en"},
		{"Empty", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := ui.NewTranslator(tt.lang)
			assert.Equal(t, tt.want, tr.Language())
		})
	}
}

func TestTranslator_Msg(t *testing.T) {
	tr := ui.NewTranslator("fr")
	assert.ElementsMatch(t, []string{"en", "fr"}, tr.SupportedLanguages)

	assert.Equal(t, "Jours", tr.Msg(config.TKeyColCount))
	assert.Equal(t, "unknown_key", tr.Msg("unknown_key"), "Missing keys come back unchanged")

	tr.SetLanguage("en")
	assert.Equal(t, "Days", tr.Msg(config.TKeyColCount))
	assert.Equal(t, "Password for alice: ", tr.MsgData(config.TKeyPromptPass, map[string]any{"User": "alice"}))
}

func TestTranslator_NilIsSafe(t *testing.T) {
	var tr *ui.Translator
	assert.Equal(t, config.TKeyLblPeak, tr.Msg(config.TKeyLblPeak))
}

func TestTranslator_LevelName(t *testing.T) {
	tr := ui.NewTranslator("en")
	assert.Equal(t, "Safe", tr.LevelName(engine.LevelSafe))
	assert.Equal(t, "Caution", tr.LevelName(engine.LevelCaution))
	assert.Equal(t, "Approaching limit", tr.LevelName(engine.LevelApproaching))
	assert.Equal(t, "Over limit", tr.LevelName(engine.LevelOver))
}

func TestTranslator_EventSummary(t *testing.T) {
	en := ui.NewTranslator("en")
	assert.Equal(t, "Trip: Rome", en.EventSummary(calendar.KindTrip, "Rome", 0))
	assert.Equal(t, "Rome leaves the 180-day window", en.EventSummary(calendar.KindLeave, "Rome", 0))
	assert.Equal(t, "Over the 90-day limit (peak 95)", en.EventSummary(calendar.KindOverLimit, "", 95))

	fr := ui.NewTranslator("fr")
	assert.Equal(t, "Voyage : Rome", fr.EventSummary(calendar.KindTrip, "Rome", 0))
}
