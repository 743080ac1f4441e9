package preprocess

import (
	"regexp"
	"strings"
)

var declHeaderRe = regexp.MustCompile(`^(?:export\s+)?(func|struct|enum|typedef|interface|let|const)\s+(\w+)`)

// splitTopLevelDecls does a brace-balanced textual split of a module
// body into named top-level declarations, keyed by declared name. This
// is a preprocessor-level convenience (the unified source is still
// re-parsed properly by internal/parser downstream); it only needs to
// be accurate enough to let selective/late-binding export splicing
// move whole declarations around as text.
func splitTopLevelDecls(body string) map[string]string {
	decls := map[string]string{}
	lines := strings.Split(body, "\n")
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		m := declHeaderRe.FindStringSubmatch(trimmed)
		if m == nil {
			i++
			continue
		}
		name := m[2]
		start := i
		depth := strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		i++
		for depth > 0 && i < len(lines) {
			depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
			i++
		}
		if depth == 0 && !strings.Contains(trimmed, "{") {
			// single-line decl (e.g. `let x: int = 1;`) with no braces.
		}
		decls[name] = strings.Join(lines[start:i], "\n")
	}
	return decls
}

// renameDecl rewrites the declared identifier in a captured
// declaration's header line, used for `item as alias` selective-import
// renaming.
func renameDecl(text, oldName, newName string) string {
	lines := strings.SplitN(text, "\n", 2)
	header := lines[0]
	nameRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(oldName) + `\b`)
	if loc := nameRe.FindStringIndex(header); loc != nil {
		header = header[:loc[0]] + newName + header[loc[1]:]
	}
	if len(lines) == 1 {
		return header
	}
	return header + "\n" + lines[1]
}
