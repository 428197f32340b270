package utils

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
)

func TestMessageDefaultsToEnglish(t *testing.T) {
	loc := NewLocalizer()

	assert.Equal(t, "Saved successfully", Message(loc, MessageRequestSaved))
	assert.Equal(t, "Updated", Message(loc, MessageRequestUpdated))
}

func TestMessageFromAcceptLanguage(t *testing.T) {
	loc := NewLocalizer("es-ES,es;q=0.9,en;q=0.8")

	assert.Equal(t, "Actualizado", Message(loc, MessageRequestUpdated))
}

func TestMessageUnknownLanguageFallsBack(t *testing.T) {
	loc := NewLocalizer("fr")

	assert.Equal(t, "Updated", Message(loc, MessageRequestUpdated))
}

func TestMessageUnknownID(t *testing.T) {
	assert.Equal(t, "", Message(NewLocalizer(), "no.such.message"))
}

func TestMessageFilesFromDirectory(t *testing.T) {
	dir, err := ioutil.TempDir("", "i18n")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	assert.NoError(t, ioutil.WriteFile(filepath.Join(dir, "fr.yaml"), []byte("request.updated: Mis à jour\n"), 0644))
	assert.NoError(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	b := newBundle(dir)

	assert.Equal(t, "Mis à jour", Message(i18n.NewLocalizer(b, "fr"), MessageRequestUpdated))
	assert.Equal(t, "Saved successfully", Message(i18n.NewLocalizer(b, "fr"), MessageRequestSaved))
	assert.Equal(t, "Actualizado", Message(i18n.NewLocalizer(b, "es"), MessageRequestUpdated))
}

func TestMessageDirectoryMissing(t *testing.T) {
	b := newBundle(filepath.Join(os.TempDir(), "no-such-i18n-dir"))

	assert.Equal(t, "Updated", Message(i18n.NewLocalizer(b, "fr"), MessageRequestUpdated))
}
