package locale

// InstallEntry is one (destination directory, files) pair of an install
// manifest. Relative directories are resolved against the install prefix.
type InstallEntry struct {
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

// PendingInstallEntries carries what a build pass produced to the install
// step. Entries are appended in the order they were added.
type PendingInstallEntries struct {
	entries []InstallEntry
}

func NewPendingInstallEntries() *PendingInstallEntries {
	return &PendingInstallEntries{}
}

// Add appends files under dir.
func (p *PendingInstallEntries) Add(dir string, files ...string) {
	p.entries = append(p.entries, InstallEntry{
		Dir:   dir,
		Files: append([]string(nil), files...),
	})
}

// Entries returns a copy of the accumulated entries. A nil receiver has none.
func (p *PendingInstallEntries) Entries() []InstallEntry {
	if p == nil {
		return nil
	}
	out := make([]InstallEntry, len(p.entries))
	for i, e := range p.entries {
		out[i] = InstallEntry{Dir: e.Dir, Files: append([]string(nil), e.Files...)}
	}
	return out
}

func (p *PendingInstallEntries) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}
