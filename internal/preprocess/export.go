package preprocess

import (
	"regexp"
	"strings"
)

var exportBlockRe = regexp.MustCompile(`^export\s+([A-Z]\w*)\s*\{\s*$`)
var exportListRe = regexp.MustCompile(`^export\s*\{([^{}]*)\}\s*;?\s*$`)
var exportHierRe = regexp.MustCompile(`^export\s*\{\s*(\w+)::\{([^{}]*)\}\s*\}\s*;?\s*$`)

// rewriteExports applies export-rewriting rules to one module's body
// before it is spliced into the unified source:
// `export NS { ... }` becomes a plain namespace block; `export { ns::{a,
// b} }` hierarchical re-export wraps a/b under a new `namespace ns`;
// `export { x, y };` late-binding export reorders so the named
// definitions appear first. The bare `export` keyword on individual
// declarations is left untouched so the parser still sees visibility.
func rewriteExports(body string) string {
	lines := strings.Split(body, "\n")
	var kept []string
	var hoisted []string
	decls := map[string]string(nil)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := exportHierRe.FindStringSubmatch(trimmed); m != nil {
			ns := m[1]
			kept = append(kept, "namespace "+ns+" {")
			for _, item := range strings.Split(m[2], ",") {
				item = strings.TrimSpace(item)
				if item != "" {
					kept = append(kept, "    use "+item+";")
				}
			}
			kept = append(kept, "}")
			continue
		}

		if m := exportListRe.FindStringSubmatch(trimmed); m != nil {
			if decls == nil {
				decls = splitTopLevelDecls(body)
			}
			for _, name := range strings.Split(m[1], ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				if text, ok := decls[name]; ok {
					hoisted = append(hoisted, text)
				}
			}
			kept = append(kept, "// export list processed: "+m[1])
			continue
		}

		if m := exportBlockRe.FindStringSubmatch(trimmed); m != nil {
			kept = append(kept, "namespace "+m[1]+" {")
			continue
		}

		kept = append(kept, line)
	}

	if len(hoisted) == 0 {
		return strings.Join(kept, "\n")
	}
	rest := strings.Join(kept, "\n")
	for _, text := range hoisted {
		rest = strings.Replace(rest, text, "", 1)
	}
	return strings.Join(hoisted, "\n") + "\n" + rest
}
