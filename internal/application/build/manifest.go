package build

import "github.com/batterymon/batterymon/internal/domain/locale"

// Manifest is the declarative install-data list consumed by the install step.
type Manifest struct {
	entries []locale.InstallEntry
}

func NewManifest(entries ...locale.InstallEntry) *Manifest {
	m := &Manifest{}
	for _, e := range entries {
		m.Add(e)
	}
	return m
}

func (m *Manifest) Add(entry locale.InstallEntry) {
	m.entries = append(m.entries, locale.InstallEntry{
		Dir:   entry.Dir,
		Files: append([]string(nil), entry.Files...),
	})
}

// Extend appends every pending entry. A nil or empty pending list adds nothing.
func (m *Manifest) Extend(pending *locale.PendingInstallEntries) {
	for _, e := range pending.Entries() {
		m.Add(e)
	}
}

func (m *Manifest) Entries() []locale.InstallEntry {
	return append([]locale.InstallEntry(nil), m.entries...)
}

// FileCount is the number of files across all entries.
func (m *Manifest) FileCount() int {
	n := 0
	for _, e := range m.entries {
		n += len(e.Files)
	}
	return n
}

// ExtendInstallManifest appends the catalogs a build pass produced to
// manifest. It runs after DiscoverAndCompile; without a build pass pending is
// empty and no catalogs are installed.
func (p *Pipeline) ExtendInstallManifest(manifest *Manifest, pending *locale.PendingInstallEntries) {
	if pending.Len() == 0 {
		p.logger.Debugw("no pending catalogs to install")
	}
	manifest.Extend(pending)
	p.stage = StageManifestExtended
}

// Manifest builds the install manifest for a build result: declared data
// files first, then the compiled catalogs.
func (p *Pipeline) Manifest(result *Result) *Manifest {
	manifest := NewManifest(result.DataFiles...)
	p.ExtendInstallManifest(manifest, result.Pending)
	return manifest
}
