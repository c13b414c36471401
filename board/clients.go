package board

import (
	"context"
	"fmt"
	"strings"
)

// maxResolverNames bounds how many known names are offered to the
// completion fallback.
const maxResolverNames = 50

// NoneSentinel is what the completion fallback is instructed to answer when
// no client is mentioned.
const NoneSentinel = "없음"

// ClientResolver matches free text against a known set of client names.
//
// Conversational queries rarely contain a board name verbatim, so a
// deterministic pass runs first and a completion-assisted pass covers the
// rest. The completion call trades latency for recall and all its failures
// collapse to "no match".
type ClientResolver struct {
	// Completer is optional; without it only the deterministic pass runs.
	Completer Completer
}

// Resolve returns the matched client name, or "" when nothing matches.
//
// names is ordered: the first deterministic match wins, so callers that
// care about tie-breaks must pass a stable order (discovery order for live
// categories, insertion order for configured maps).
func (r *ClientResolver) Resolve(ctx context.Context, text string, names []string) string {
	if name := resolveDeterministic(text, names); name != "" {
		return name
	}
	if r.Completer == nil {
		return ""
	}
	return r.resolveAssisted(ctx, text, names)
}

// resolveDeterministic matches a known name as a substring of the text, or
// any text token longer than 2 runes as a substring of the name.
func resolveDeterministic(text string, names []string) string {
	tokens := tokensOver(text, 2)
	for _, name := range names {
		if name == "" {
			continue
		}
		if strings.Contains(text, name) {
			return name
		}
		for _, tok := range tokens {
			if strings.Contains(name, tok) {
				return name
			}
		}
	}
	return ""
}

// resolveAssisted asks the completion capability to pick one name. The reply
// is matched back against the known set exact-first, then by bidirectional
// substring. Any failure is swallowed.
func (r *ClientResolver) resolveAssisted(ctx context.Context, text string, names []string) string {
	offered := names
	if len(offered) > maxResolverNames {
		offered = offered[:maxResolverNames]
	}
	prompt := fmt.Sprintf(`다음 메시지에서 고객사 이름을 추출해주세요.
가능한 고객사 목록: %s
메시지: %s
고객사 이름만 답변해주세요. 없으면 "%s"이라고 답변해주세요.`,
		strings.Join(offered, ", "), text, NoneSentinel)

	reply, err := r.Completer.Complete(ctx, prompt)
	if err != nil {
		return ""
	}
	reply = strings.TrimSpace(reply)
	if reply == "" || reply == NoneSentinel {
		return ""
	}

	for _, name := range names {
		if name == reply {
			return name
		}
	}
	for _, name := range names {
		if name != "" && (strings.Contains(name, reply) || strings.Contains(reply, name)) {
			return name
		}
	}
	return ""
}

// tokensOver splits text on whitespace and keeps tokens longer than min runes.
func tokensOver(text string, min int) []string {
	var out []string
	for _, tok := range strings.Fields(text) {
		if len([]rune(tok)) > min {
			out = append(out, tok)
		}
	}
	return out
}
