// Package locale translates the user facing texts.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Message ids.
const (
	HeaderTitle       = "HeaderTitle"
	HeaderSubtitle    = "HeaderSubtitle"
	StartWebcam       = "StartWebcam"
	WebcamActive      = "WebcamActive"
	UploadThali       = "UploadThali"
	SendWishes        = "SendWishes"
	Generating        = "Generating"
	WebcamPlaceholder = "WebcamPlaceholder"
	CameraDenied      = "CameraDenied"
	ThaliAlt          = "ThaliAlt"
)

// Keys lists every message id.
var Keys = []string{
	HeaderTitle, HeaderSubtitle, StartWebcam, WebcamActive, UploadThali,
	SendWishes, Generating, WebcamPlaceholder, CameraDenied, ThaliAlt,
}

// Translator returns the text of a message id.
type Translator interface {
	Msg(id string) string
}

// Localizer translates messages into a single language.
type Localizer struct {
	lang      string
	localizer *i18n.Localizer
}

// New loads the bundled locales and returns a Localizer for the best match
// of the preferred languages, e.g. the value of navigator.language.
func New(preferred ...string) *Localizer {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error("locales not accessible",
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error("locale not loaded",
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
		}
	}

	lang := Match(preferred...)
	slog.Debug("locale selected",
		config.LogKeyComponent, config.CompI18n,
		config.LogKeyLang, lang,
	)
	return &Localizer{
		lang:      lang,
		localizer: i18n.NewLocalizer(bundle, lang),
	}
}

// Match negotiates the UI language among the supported ones.
func Match(preferred ...string) string {
	supported := make([]language.Tag, len(config.SupportedLanguages))
	for i, l := range config.SupportedLanguages {
		supported[i] = language.Make(l)
	}
	matcher := language.NewMatcher(supported)
	_, idx := language.MatchStrings(matcher, preferred...)
	return config.SupportedLanguages[idx]
}

// Lang returns the selected language code.
func (l *Localizer) Lang() string {
	return l.lang
}

// Msg translates id. Unknown ids are returned unchanged.
func (l *Localizer) Msg(id string) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		slog.Debug("translation missing",
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, id,
			config.LogKeyError, err,
		)
		return id
	}
	return msg
}
