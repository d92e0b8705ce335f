package build

// Stage is the pipeline's position within one invocation.
type Stage string

const (
	StageNotStarted       Stage = "not_started"
	StageDiscovering      Stage = "discovering"
	StageCompiling        Stage = "compiling"
	StageManifestExtended Stage = "manifest_extended"
	StageInstalled        Stage = "installed"
	StageCleaned          Stage = "cleaned"
	StageFailed           Stage = "failed"
)

func (s Stage) String() string {
	return string(s)
}

// IsTerminal reports whether no further stage follows s in this invocation.
func (s Stage) IsTerminal() bool {
	return s == StageInstalled || s == StageCleaned || s == StageFailed
}
