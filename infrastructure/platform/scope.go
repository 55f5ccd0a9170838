package platform

import "strings"

// NormalizeScope lowercases a scope name and folds '_' into '.' so that
// video.publish, video_publish and VIDEO.PUBLISH all compare equal. Platforms
// are inconsistent about the separator.
func NormalizeScope(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", ".")
}

// SplitScopes splits a raw granted-scope string on spaces and commas, both of
// which appear in the wild.
func SplitScopes(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// MissingScopes returns the required scopes not present in granted under the
// normalized comparison. An empty granted list means the platform did not
// report scopes at all; nothing can be verified, so nothing is missing.
func MissingScopes(required, granted []string) []string {
	if len(granted) == 0 {
		return nil
	}
	have := make(map[string]struct{}, len(granted))
	for _, g := range granted {
		have[NormalizeScope(g)] = struct{}{}
	}
	var missing []string
	for _, r := range required {
		if _, ok := have[NormalizeScope(r)]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}
