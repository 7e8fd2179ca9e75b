// Package i18n renders notices in the player's language.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/leonelquinteros/gotext"
)

// DefaultLanguage is used when no locale is configured.
const DefaultLanguage = "fr"

var ErrUnknownLanguage = errors.New("unknown language")

//go:embed locales/*.po
var locales embed.FS

// Catalog translates notice keys for one language.
type Catalog struct {
	lang string
	po   *gotext.Po
}

// Languages lists the embedded locales.
func Languages() []string {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), ".po"))
	}
	slices.Sort(langs)
	return langs
}

// New loads the catalog of lang, e.g. "fr" or "en_GB" (the region is ignored).
func New(lang string) (*Catalog, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	base := strings.ToLower(strings.SplitN(strings.SplitN(lang, ".", 2)[0], "_", 2)[0])

	data, err := locales.ReadFile(path.Join("locales", base+".po"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, lang)
	}

	po := gotext.NewPo()
	po.Parse(data)
	return &Catalog{lang: base, po: po}, nil
}

// Language returns the catalog language.
func (c *Catalog) Language() string {
	return c.lang
}

// Get translates key with its arguments.
func (c *Catalog) Get(key labyrinth.NoticeKey, args ...any) string {
	if key == labyrinth.NoticeNone {
		return ""
	}
	return c.po.Get(string(key), args...)
}

// Notice translates a round notice.
func (c *Catalog) Notice(n labyrinth.Notice) string {
	return c.Get(n.Key, n.Args...)
}
