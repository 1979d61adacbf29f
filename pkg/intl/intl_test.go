package intl

import (
	"context"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestGetSupportedLanguages(t *testing.T) {
	assert.Len(t, GetSupportedLanguages(nil), 2)

	only := GetSupportedLanguages([]string{"en"})
	require.Len(t, only, 1)
	assert.Equal(t, language.English, only[0].Tag)

	assert.Equal(t, []string{"pt-BR", "en"}, Codes())
}

func TestLocalize(t *testing.T) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.MustParseMessageFileBytes([]byte(`Greeting = "Hello {{.Name}}"`), "en.toml")
	bundle.MustParseMessageFileBytes([]byte(`Greeting = "Olá {{.Name}}"`), "pt-BR.toml")

	assert.Equal(t, "Greeting", Localize(context.Background(), "Greeting", nil))

	ctx := WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "pt-BR"))
	ctx = WithLocale(ctx, language.BrazilianPortuguese)
	assert.Equal(t, "Olá Ana", Localize(ctx, "Greeting", map[string]any{"Name": "Ana"}))
	assert.Equal(t, "Missing", Localize(ctx, "Missing", nil))

	locale, ok := UseLocale(ctx)
	require.True(t, ok)
	assert.Equal(t, language.BrazilianPortuguese, locale)
}
