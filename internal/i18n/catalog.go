package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"dayjourney/internal/core/model"
)

// BaseLocale is the fallback locale every catalog set must define.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Catalog holds the messages of every loaded locale.
type Catalog struct {
	locales map[string]map[string]string
	tags    []language.Tag
	tagKeys []string
	names   []string
	matcher language.Matcher
}

// Load reads locales/<locale>/<namespace>.yaml files from catalogFS.
func Load(catalogFS fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	catalog := &Catalog{locales: map[string]map[string]string{}}
	for _, catalogPath := range paths {
		data, err := fs.ReadFile(catalogFS, catalogPath)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", catalogPath, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", catalogPath, err)
		}
		if err := catalog.addFile(catalogPath, file); err != nil {
			return nil, err
		}
	}
	if _, ok := catalog.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	catalog.names = make([]string, 0, len(catalog.locales))
	for locale := range catalog.locales {
		catalog.names = append(catalog.names, locale)
	}
	sort.Strings(catalog.names)
	// The base locale goes first so the matcher falls back to it.
	catalog.tags = []language.Tag{language.MustParse(BaseLocale)}
	catalog.tagKeys = []string{BaseLocale}
	for _, locale := range catalog.names {
		if locale == BaseLocale {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		catalog.tags = append(catalog.tags, tag)
		catalog.tagKeys = append(catalog.tagKeys, locale)
	}
	catalog.matcher = language.NewMatcher(catalog.tags)

	if err := catalog.register(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (catalog *Catalog) addFile(catalogPath string, file catalogFile) error {
	localeFromPath := path.Base(path.Dir(catalogPath))
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", catalogPath)
	}
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", catalogPath, locale, localeFromPath)
	}
	if file.Messages == nil {
		return fmt.Errorf("catalog %s: messages map is required", catalogPath)
	}

	messages, ok := catalog.locales[locale]
	if !ok {
		messages = map[string]string{}
		catalog.locales[locale] = messages
	}
	for key, value := range file.Messages {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", catalogPath)
		}
		if _, exists := messages[trimmed]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", catalogPath, trimmed, locale)
		}
		messages[trimmed] = value
	}
	return nil
}

// register installs every message with x/text/message. Keys missing from a
// locale fall back to the base locale text.
func (catalog *Catalog) register() error {
	base := catalog.locales[BaseLocale]
	for index, tag := range catalog.tags {
		locale := catalog.tagKeys[index]
		messages := catalog.locales[locale]
		for key, value := range base {
			if translated, ok := messages[key]; ok {
				value = translated
			}
			if err := message.SetString(tag, key, value); err != nil {
				return fmt.Errorf("register %s %q: %w", locale, key, err)
			}
		}
	}
	return nil
}

// Locales returns the loaded locale identifiers in sorted order.
func (catalog *Catalog) Locales() []string {
	return append([]string(nil), catalog.names...)
}

// Localizer returns a printer for the closest supported locale.
func (catalog *Catalog) Localizer(locale string) *Localizer {
	index := 0
	if requested, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		_, matched, confidence := catalog.matcher.Match(requested)
		if confidence != language.No {
			index = matched
		}
	}
	return &Localizer{
		locale:  catalog.tagKeys[index],
		printer: message.NewPrinter(catalog.tags[index]),
	}
}

// Localizer formats catalog messages for one locale.
type Localizer struct {
	locale  string
	printer *message.Printer
}

// Locale returns the resolved locale identifier.
func (localizer *Localizer) Locale() string {
	return localizer.locale
}

// Text formats the message registered under key.
func (localizer *Localizer) Text(key string, args ...any) string {
	return localizer.printer.Sprintf(key, args...)
}

// SectionLabel returns the short navigation label of section.
func (localizer *Localizer) SectionLabel(section model.SectionID) string {
	return localizer.sectionText(section, "label")
}

// SectionTitle returns the panel heading of section.
func (localizer *Localizer) SectionTitle(section model.SectionID) string {
	return localizer.sectionText(section, "title")
}

// SectionSubtitle returns the panel subheading of section.
func (localizer *Localizer) SectionSubtitle(section model.SectionID) string {
	return localizer.sectionText(section, "subtitle")
}

// Custom sections without catalog entries fall back to their id.
func (localizer *Localizer) sectionText(section model.SectionID, field string) string {
	key := "section." + string(section) + "." + field
	text := localizer.printer.Sprintf(key)
	if text == key {
		return string(section)
	}
	return text
}
