package localize

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const fallbackLang = "en"

type AssetLoader func(path string) ([]byte, error)

type Strings map[string]string

type StringsSet map[string]Strings

// Localizer looks up UI strings, falling back to English and then to the
// key itself. Safe for concurrent use.
type Localizer struct {
	loadAsset AssetLoader

	mu         sync.RWMutex
	lang       string
	stringsSet StringsSet
}

func NewLocalizer(loadAsset AssetLoader) (*Localizer, error) {
	l := &Localizer{
		loadAsset:  loadAsset,
		lang:       fallbackLang,
		stringsSet: make(StringsSet),
	}
	if err := l.LoadLocale(fallbackLang); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Localizer) SetLang(lang string) {
	log.Printf("Using UI language %s", lang)

	l.mu.Lock()
	l.lang = lang
	l.mu.Unlock()
}

func (l *Localizer) Lang() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lang
}

// Use loads lang if needed and switches to it. Unknown languages leave the
// localizer where it was.
func (l *Localizer) Use(lang string) {
	lang = normalize(lang)
	if lang == "" {
		lang = fallbackLang
	}

	if !l.loaded(lang) {
		if err := l.LoadLocale(lang); err != nil {
			log.Printf("Staying on %s: %v", l.Lang(), err)
			return
		}
	}
	l.SetLang(lang)
}

func (l *Localizer) loaded(lang string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.stringsSet[lang]
	return ok
}

func (l *Localizer) LoadLocale(locale string) error {
	locale = normalize(locale)

	payload, err := l.loadAsset(fmt.Sprintf("data/locales/%s.json", locale))
	if err != nil {
		return errors.WithMessagef(err, "while loading locale %s", locale)
	}

	ss := make(Strings)
	if err := json.Unmarshal(payload, &ss); err != nil {
		return errors.WithMessagef(err, "while parsing locale %s", locale)
	}

	l.mu.Lock()
	l.stringsSet[locale] = ss
	l.mu.Unlock()
	log.Printf("Loaded %d strings for %s", len(ss), locale)
	return nil
}

type Replacements map[string]string

// T returns the string for key with {{name}} placeholders filled from the
// first Replacements, if any.
func (l *Localizer) T(key string, args ...Replacements) string {
	s, ok := l.lookup(key)
	if !ok || len(args) == 0 || len(args[0]) == 0 {
		return s
	}

	pairs := make([]string, 0, len(args[0])*2)
	for k, v := range args[0] {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

func (l *Localizer) lookup(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if s, ok := l.stringsSet[l.lang][key]; ok {
		return s, true
	}
	if s, ok := l.stringsSet[fallbackLang][key]; ok {
		return s, true
	}
	return key, false
}

func normalize(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "-", "_")
}
