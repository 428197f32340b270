package utils

import (
	"embed"
	"path"
	"path/filepath"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

//go:embed i18n/*.yaml
var messageFiles embed.FS

var (
	bundle     *i18n.Bundle
	bundleOnce sync.Once
)

// InitI18NBundle loads the built-in messages plus every yaml message file in
// the `i18n.dir` directory
func InitI18NBundle() {
	bundleOnce.Do(func() {
		bundle = newBundle(viper.GetString("i18n.dir"))
	})
}

func newBundle(dir string) *i18n.Bundle {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	entries, err := messageFiles.ReadDir("i18n")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		data, err := messageFiles.ReadFile(path.Join("i18n", e.Name()))
		if err != nil {
			panic(err)
		}
		b.MustParseMessageFileBytes(data, e.Name())
	}

	if dir == "" {
		return b
	}

	// files are named by language tag, e.g. fr.yaml
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		log.WithField("prefix", "i18n").Warnf("list message files in %s: %s", dir, err)
		return b
	}
	for _, file := range files {
		if _, err := b.LoadMessageFile(file); err != nil {
			log.WithField("prefix", "i18n").Warnf("skip message file %s: %s", file, err)
		}
	}

	return b
}

// NewLocalizer returns a localizer for the given languages, typically an
// Accept-Language header value
func NewLocalizer(langs ...string) *i18n.Localizer {
	InitI18NBundle()
	return i18n.NewLocalizer(bundle, langs...)
}

// Message localizes id and falls back to the English text
func Message(loc *i18n.Localizer, id string) string {
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		log.WithField("prefix", "i18n").Debugf("localize %s: %s", id, err)
		return defaultMessages[id]
	}
	return msg
}

var defaultMessages = map[string]string{
	MessageRequestSaved:   "Saved successfully",
	MessageRequestUpdated: "Updated",
	MessageLanding:        "Scan2Clean API is running",
}

const (
	MessageRequestSaved   = "request.saved"
	MessageRequestUpdated = "request.updated"
	MessageLanding        = "landing"
)
