package placeholder

import "regexp"

// tokenPattern matches [var] and [var:anything], stopping at the first ']'.
var tokenPattern = regexp.MustCompile(`\[((\w+)(?::.+?)?)\]`)

// Match is one token found in a text.
type Match struct {
	Token string // literal text, e.g. "[quote:destination_name]"
	Name  string // placeholder name, e.g. "quote:destination_name"
	Var   string // variable name, e.g. "quote"
}

// FindTokens returns every token in text, left to right, without overlaps.
// Repeated tokens are reported each time they occur.
func FindTokens(text string) []Match {
	found := tokenPattern.FindAllStringSubmatch(text, -1)
	if len(found) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(found))
	for _, m := range found {
		matches = append(matches, Match{Token: m[0], Name: m[1], Var: m[2]})
	}
	return matches
}

// Vars returns the distinct variable names of matches in first-seen order.
func Vars(matches []Match) []string {
	seen := make(map[string]struct{}, len(matches))
	vars := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.Var]; ok {
			continue
		}
		seen[m.Var] = struct{}{}
		vars = append(vars, m.Var)
	}
	return vars
}
