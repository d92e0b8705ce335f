// Package locale models translation sources, the catalogs compiled from
// them and the install entries a build pass hands to the install step.
package locale

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// TranslationSource is a human-editable catalog for one locale.
type TranslationSource struct {
	language string
	path     string
}

// NewTranslationSource derives the language identifier from the file's base
// name with its extension stripped: "po/pt_BR.po" yields "pt_BR".
func NewTranslationSource(path string) (*TranslationSource, error) {
	lang := LanguageFromPath(path)
	if lang == "" {
		return nil, fmt.Errorf("cannot derive language from %q", path)
	}
	return &TranslationSource{
		language: lang,
		path:     path,
	}, nil
}

func (s *TranslationSource) Language() string {
	return s.language
}

func (s *TranslationSource) Path() string {
	return s.path
}

// LanguageFromPath strips directory and extension from a source path.
func LanguageFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ValidateLanguage checks that id is usable as a single directory segment and,
// ignoring an optional "@modifier", parses as a BCP 47 tag. Underscore
// separators such as "pt_BR" are accepted.
func ValidateLanguage(id string) error {
	if id == "" || id == "." || id == ".." {
		return fmt.Errorf("invalid language identifier %q", id)
	}
	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("language identifier %q contains a path separator", id)
	}

	tag, _, _ := strings.Cut(id, "@")
	if _, err := language.Parse(tag); err != nil {
		return fmt.Errorf("language identifier %q is not a valid locale tag: %w", id, err)
	}
	return nil
}

// IsPathSafe reports whether id can be used as a directory segment at all.
// Unlike ValidateLanguage it does not require a well-formed locale tag.
func IsPathSafe(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}
