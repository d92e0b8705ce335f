// Package catalog checks that compiled .mo catalogs can be loaded.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/chai2010/gettext-go/mo"

	"github.com/batterymon/batterymon/internal/domain/locale"
	apperrors "github.com/batterymon/batterymon/internal/shared/errors"
	"github.com/batterymon/batterymon/internal/shared/logger"
)

// Report summarizes one loaded catalog.
type Report struct {
	Language string
	Path     string
	Messages int
}

type Verifier struct {
	logger logger.Interface
}

func NewVerifier(log logger.Interface) *Verifier {
	return &Verifier{logger: log.With("component", "catalog.verifier")}
}

// Verify loads every catalog. All catalogs are checked before failing; the
// returned error lists each missing or unreadable one.
func (v *Verifier) Verify(catalogs []*locale.CompiledCatalog) ([]Report, error) {
	reports := make([]Report, 0, len(catalogs))
	var problems []string

	for _, c := range catalogs {
		report, err := v.load(c)
		if err != nil {
			v.logger.Warnw("catalog failed verification", "language", c.Language(), "path", c.Output(), "error", err)
			problems = append(problems, fmt.Sprintf("%s: %v", c.Language(), err))
			continue
		}
		v.logger.Infow("catalog ok", "language", report.Language, "messages", report.Messages)
		reports = append(reports, report)
	}

	if len(problems) > 0 {
		return reports, apperrors.NewValidationError(
			fmt.Sprintf("%d catalog(s) failed verification", len(problems)),
			strings.Join(problems, "; "),
		)
	}
	return reports, nil
}

func (v *Verifier) load(c *locale.CompiledCatalog) (Report, error) {
	if _, err := os.Stat(c.Output()); errors.Is(err, fs.ErrNotExist) {
		return Report{}, fmt.Errorf("not compiled (run build first)")
	}

	f, err := mo.LoadFile(c.Output())
	if err != nil {
		return Report{}, fmt.Errorf("unreadable catalog: %w", err)
	}

	return Report{
		Language: c.Language(),
		Path:     c.Output(),
		Messages: countTranslations(f),
	}, nil
}

// countTranslations skips the header entry, whose msgid is empty.
func countTranslations(f *mo.File) int {
	n := 0
	for _, m := range f.Messages {
		if m.MsgId == "" && m.MsgContext == "" {
			continue
		}
		n++
	}
	return n
}
