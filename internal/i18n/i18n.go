// internal/i18n/i18n.go
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const defaultLang = "en"

// catalog holds one message table per locale. It is built once during
// Initialize and read-only afterwards, so lookups need no locking.
type catalog struct {
	tables map[string]map[string]string
}

var (
	instance *catalog
	once     sync.Once
)

// Initialize loads every *.json file in localesPath as a locale named after
// the file (en.json, zh_TW.json, ...). The English table must be present;
// it is the fallback for every other locale.
func Initialize(localesPath string) error {
	var err error
	once.Do(func() {
		instance, err = loadCatalog(localesPath)
	})
	return err
}

func loadCatalog(localesPath string) (*catalog, error) {
	entries, err := os.ReadDir(localesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read locales directory: %w", err)
	}

	c := &catalog{tables: make(map[string]map[string]string)}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(localesPath, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", name, err)
		}

		var table map[string]string
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale file %s: %w", name, err)
		}
		c.tables[strings.TrimSuffix(name, ".json")] = table
	}

	if _, ok := c.tables[defaultLang]; !ok {
		return nil, fmt.Errorf("locale %s.json is required", defaultLang)
	}
	return c, nil
}

func (c *catalog) translate(lang, key string, args []interface{}) string {
	text, ok := c.tables[lang][key]
	if !ok {
		text, ok = c.tables[defaultLang][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// T renders the message for key in lang, falling back to English and then
// to the key itself. Extra arguments are applied printf-style.
func T(lang, key string, args ...interface{}) string {
	if instance == nil {
		return key
	}
	return instance.translate(lang, key, args)
}

// GetSupportedLanguages lists the loaded locales.
func GetSupportedLanguages() []string {
	if instance == nil {
		return []string{defaultLang}
	}

	langs := make([]string, 0, len(instance.tables))
	for lang := range instance.tables {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
