package preprocess

import "strings"

// lineEntry is one physical line of passthrough (non-import) source,
// carrying its 1-based original line number.
type lineEntry struct {
	lineNo int
	text   string
}

// rawStmt is either an import statement (possibly spanning several
// physical lines, already comment-stripped for keyword detection) or a
// run of ordinary passthrough lines.
type rawStmt struct {
	IsImport bool
	Text     string
	Lines    []lineEntry
}

// splitStatements scans source line-by-line, joining a statement that
// spans multiple physical lines until the opening brace depth returns
// to 0 and a terminating ';' is seen, while remaining aware of
// string-literal content so a ';' or '{' inside a string is never
// mistaken for statement structure.
func splitStatements(source string) []rawStmt {
	cleaned := stripCommentBodies(source)
	origLines := strings.Split(source, "\n")
	cleanLines := strings.Split(cleaned, "\n")

	var stmts []rawStmt
	i := 0
	for i < len(origLines) {
		if isImportStart(cleanLines[i]) {
			j := findStatementEnd(cleanLines, i)
			text := strings.Join(origLines[i:j+1], "\n")
			stmts = append(stmts, rawStmt{IsImport: true, Text: text})
			i = j + 1
			continue
		}
		stmts = append(stmts, rawStmt{Lines: []lineEntry{{lineNo: i + 1, text: origLines[i]}}})
		i++
	}
	return stmts
}

func isImportStart(line string) bool {
	t := strings.TrimSpace(line)
	return hasKeywordPrefix(t, "import") || hasKeywordPrefix(t, "from")
}

func hasKeywordPrefix(s, kw string) bool {
	if !strings.HasPrefix(s, kw) {
		return false
	}
	rest := s[len(kw):]
	if rest == "" {
		return true
	}
	c := rest[0]
	return c == ' ' || c == '\t' || c == ':' || c == '.' || c == '/'
}

// findStatementEnd returns the last line index (inclusive) that
// completes the import statement starting at cleanLines[start],
// tracking brace depth and string-literal state across lines.
func findStatementEnd(cleanLines []string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleanLines); i++ {
		for _, r := range cleanLines[i] {
			if inString {
				if escaped {
					escaped = false
					continue
				}
				if r == '\\' {
					escaped = true
					continue
				}
				if r == '"' {
					inString = false
				}
				continue
			}
			switch r {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
			case ';':
				if depth <= 0 {
					return i
				}
			}
		}
	}
	return len(cleanLines) - 1
}

// stripCommentBodies blanks the contents of // line and /* block */
// comments (block comments do not nest) with spaces, preserving every
// newline so line numbers stay aligned with the input source.
// String-literal content is left untouched so the caller can still
// track string state for statement-joining purposes.
func stripCommentBodies(source string) string {
	var b strings.Builder
	b.Grow(len(source))
	runes := []rune(source)
	n := len(runes)
	inString := false
	escaped := false
	for i := 0; i < n; i++ {
		r := runes[i]
		if inString {
			b.WriteRune(r)
			if escaped {
				escaped = false
				continue
			}
			if r == '\\' {
				escaped = true
				continue
			}
			if r == '"' {
				inString = false
			}
			continue
		}
		if r == '"' {
			inString = true
			b.WriteRune(r)
			continue
		}
		if r == '/' && i+1 < n && runes[i+1] == '/' {
			for i < n && runes[i] != '\n' {
				if runes[i] != '\n' {
					b.WriteRune(' ')
				}
				i++
			}
			if i < n {
				b.WriteRune('\n')
			}
			continue
		}
		if r == '/' && i+1 < n && runes[i+1] == '*' {
			i += 2
			b.WriteRune(' ')
			b.WriteRune(' ')
			for i < n && !(runes[i] == '*' && i+1 < n && runes[i+1] == '/') {
				if runes[i] == '\n' {
					b.WriteRune('\n')
				} else {
					b.WriteRune(' ')
				}
				i++
			}
			if i < n {
				b.WriteRune(' ')
				b.WriteRune(' ')
				i++
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
