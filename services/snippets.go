package services

import (
	"regexp"
	"sort"
	"strings"
)

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// ExtractSnippets splits text into sentence fragments and returns up to
// maxSnippets of the longest ones. Fragments of 20 characters or fewer are
// noise and dropped. The sort is stable, so equal-length fragments keep
// their document order, making output deterministic for a given input.
func ExtractSnippets(text string, maxSnippets int) []string {
	text = strings.TrimSpace(text)
	if text == "" || maxSnippets <= 0 {
		return []string{}
	}

	var fragments []string
	for _, frag := range sentenceBoundary.Split(text, -1) {
		frag = strings.TrimSpace(frag)
		if len(frag) > 20 {
			fragments = append(fragments, frag)
		}
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		return len(fragments[i]) > len(fragments[j])
	})

	if len(fragments) > maxSnippets {
		fragments = fragments[:maxSnippets]
	}
	if fragments == nil {
		return []string{}
	}
	return fragments
}
