package collect

import (
	"regexp"

	"dropdex/internal"
	"dropdex/internal/util"
)

// Relic display names reduce to an era+code key so all refinement grades of
// one relic share sources. "Meso V14 Relic (Radiant)" and "Meso V14" both key
// as "meso v14".
var (
	reEraRelic     = regexp.MustCompile(`^(lith|meso|neo|axi)\s+([a-z][a-z0-9]*)(\s+relic)?(\s+(intact|exceptional|flawless|radiant))?$`)
	reRequiemRelic = regexp.MustCompile(`^requiem\s+([ivx]+)(\s+relic)?(\s+(intact|exceptional|flawless|radiant))?$`)
	reVanguard     = regexp.MustCompile(`^vanguard\s+([a-z][a-z0-9]*)(\s+relic)?(\s+(intact|exceptional|flawless|radiant))?$`)
)

// RelicIndex maps relic key → the sources the relic drops from, built once
// from the mission-reward extraction.
type RelicIndex map[string]internal.SourceSet

func (r RelicIndex) Add(relicKey string, id internal.SourceID) {
	if relicKey == "" || id == "" {
		return
	}
	set, ok := r[relicKey]
	if !ok {
		set = internal.SourceSet{}
		r[relicKey] = set
	}
	set.Add(id)
}

// ParseRelicKey recognizes a relic display name and returns its key. The
// refinement suffix and the word "Relic" are dropped; anything else fails the
// match.
func ParseRelicKey(displayName string) (string, bool) {
	name := util.NameKey(displayName)
	if m := reEraRelic.FindStringSubmatch(name); m != nil {
		return m[1] + " " + m[2], true
	}
	if m := reRequiemRelic.FindStringSubmatch(name); m != nil {
		return "requiem " + m[1], true
	}
	if m := reVanguard.FindStringSubmatch(name); m != nil {
		return "vanguard " + m[1], true
	}
	return "", false
}
