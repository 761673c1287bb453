// Package ident is the single source of truth for SourceID shape. Every
// collector routes human-readable labels through BuildID so ids stay
// consistent across modules and runs.
package ident

import (
	"strings"

	"dropdex/internal"
	"dropdex/internal/util"
)

const (
	NamespaceData = "data"
	NamespaceSrc  = "src"
)

// BuildID maps each segment through util.ToToken, drops empty results and
// joins the rest with "/". When nothing survives it returns the documented
// "<namespace>:unknown" fallback instead of an empty or malformed id.
func BuildID(namespace string, segments ...string) internal.SourceID {
	tokens := make([]string, 0, len(segments))
	for _, seg := range segments {
		tok := util.ToToken(seg)
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return internal.SourceID(namespace + ":unknown")
	}
	return internal.SourceID(namespace + ":" + strings.Join(tokens, "/"))
}
