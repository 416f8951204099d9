// Package i18n localises user-facing messages. Indonesian is the default;
// English is selected through Accept-Language.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

// Translator holds the parsed message bundle.
type Translator struct {
	bundle        *goi18n.Bundle
	matcher       language.Matcher
	defaultLocale string
}

func New(defaultLocale string) (*Translator, error) {
	if defaultLocale == "" {
		defaultLocale = "id"
	}

	bundle := goi18n.NewBundle(language.Indonesian)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", e.Name(), err)
		}
	}

	slog.Info("i18n: locales loaded", "count", len(entries), "default", defaultLocale)
	return &Translator{
		bundle:        bundle,
		matcher:       language.NewMatcher(bundle.LanguageTags()),
		defaultLocale: defaultLocale,
	}, nil
}

// Match picks the best supported locale for an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.defaultLocale
	}
	_, idx, conf := t.matcher.Match(parseAccept(acceptLanguage)...)
	if conf == language.No {
		return t.defaultLocale
	}
	base, _ := t.bundle.LanguageTags()[idx].Base()
	return base.String()
}

// T translates messageID for the locale carried by ctx. Unknown IDs are
// returned verbatim.
func (t *Translator) T(ctx context.Context, messageID string, data ...map[string]any) string {
	l := goi18n.NewLocalizer(t.bundle, t.localeFromContext(ctx), t.defaultLocale)

	cfg := &goi18n.LocalizeConfig{MessageID: messageID}
	if len(data) > 0 && data[0] != nil {
		cfg.TemplateData = data[0]
	}

	msg, err := l.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}

// WithLocale returns a context carrying locale (e.g. "id", "en").
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

func (t *Translator) localeFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return t.defaultLocale
}

func parseAccept(header string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	return tags
}
