package mockctx

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// MessageSource resolves message codes to localized text.
type MessageSource interface {
	// Message returns the text for code in locale, formatted with args, or
	// defaultMessage when code is unknown.
	Message(code string, args []any, defaultMessage string, locale language.Tag) string
}

// Message resolves code through the bean registered as MessageSourceBean.
func (c *Context) Message(code string, args []any, defaultMessage string, locale language.Tag) (string, error) {
	src, err := BeanOfType[MessageSource](c, MessageSourceBean)
	if err != nil {
		return "", fmt.Errorf("resolve message %s: %w", code, err)
	}
	return src.Message(code, args, defaultMessage, locale), nil
}

// StaticMessageSource is a MessageSource over messages added in code.
// Message texts use fmt verbs for their arguments.
type StaticMessageSource struct {
	mu       sync.RWMutex
	builder  *catalog.Builder
	fallback language.Tag
	codes    map[string]map[string]bool // by language tag
}

// NewStaticMessageSource returns an empty source that falls back to the
// fallback language when a locale has no text for a code.
func NewStaticMessageSource(fallback language.Tag) *StaticMessageSource {
	return &StaticMessageSource{
		builder:  catalog.NewBuilder(catalog.Fallback(fallback)),
		fallback: fallback,
		codes:    make(map[string]map[string]bool),
	}
}

// AddMessage sets the text of code for locale.
func (s *StaticMessageSource) AddMessage(code string, locale language.Tag, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.builder.SetString(locale, code, text); err != nil {
		return fmt.Errorf("add message %s: %w", code, err)
	}
	lang := locale.String()
	if s.codes[lang] == nil {
		s.codes[lang] = make(map[string]bool)
	}
	s.codes[lang][code] = true
	return nil
}

// Message returns the text for code in the closest language to locale that
// defines it, then in the fallback language, then defaultMessage.
func (s *StaticMessageSource) Message(code string, args []any, defaultMessage string, locale language.Tag) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tag := range s.candidates(locale) {
		if s.codes[tag.String()][code] {
			return message.NewPrinter(tag, message.Catalog(s.builder)).Sprintf(code, args...)
		}
	}
	return defaultMessage
}

// candidates lists the catalog languages to try for locale, best first.
func (s *StaticMessageSource) candidates(locale language.Tag) []language.Tag {
	langs := s.builder.Languages()
	if len(langs) == 0 {
		return nil
	}

	var tags []language.Tag
	if _, i, conf := language.NewMatcher(langs).Match(locale); conf != language.No {
		tags = append(tags, langs[i])
	}
	return append(tags, s.fallback)
}
