package preprocess

import "strings"

// ImportKind classifies one recognized import form.
type ImportKind int

const (
	KindPlain            ImportKind = iota // import M; / import M::N;
	KindAliased                            // import M as A;
	KindSelective                          // import M::{a,b}; / import {a,b} from M; / from M import {a,b};
	KindWildcard                           // import M::*;
	KindRecursiveWildcard                  // import ./dir/*;
)

// SelectiveItem is one entry of a selective import list, optionally
// renamed with `item as alias`.
type SelectiveItem struct {
	Name  string
	Alias string
}

// ImportSpec is one parsed import statement.
type ImportSpec struct {
	Kind   ImportKind
	Module string
	Alias  string
	Items  []SelectiveItem
}

// parseImportSpec recognizes every supported import form. text has
// already had its trailing ';' and surrounding whitespace
// trimmed by the caller's statement joiner.
func parseImportSpec(text string) *ImportSpec {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))

	if strings.HasPrefix(text, "from ") {
		rest := strings.TrimSpace(strings.TrimPrefix(text, "from "))
		parts := strings.SplitN(rest, "import", 2)
		if len(parts) == 2 {
			module := strings.TrimSpace(parts[0])
			items := parseItemList(parts[1])
			return &ImportSpec{Kind: KindSelective, Module: module, Items: items}
		}
	}

	rest := strings.TrimSpace(strings.TrimPrefix(text, "import"))

	if strings.HasPrefix(rest, "{") {
		end := strings.Index(rest, "}")
		if end > 0 {
			itemsText := rest[1:end]
			after := strings.TrimSpace(rest[end+1:])
			after = strings.TrimSpace(strings.TrimPrefix(after, "from"))
			return &ImportSpec{Kind: KindSelective, Module: after, Items: parseItemList(itemsText)}
		}
	}

	if (strings.HasPrefix(rest, "./") || strings.HasPrefix(rest, "../")) && strings.HasSuffix(rest, "/*") {
		dir := strings.TrimSuffix(rest, "/*")
		return &ImportSpec{Kind: KindRecursiveWildcard, Module: dir}
	}

	if idx := strings.Index(rest, " as "); idx >= 0 {
		module := strings.TrimSpace(rest[:idx])
		alias := strings.TrimSpace(rest[idx+4:])
		return &ImportSpec{Kind: KindAliased, Module: module, Alias: alias}
	}

	if idx := strings.Index(rest, "::{"); idx >= 0 {
		module := rest[:idx]
		end := strings.Index(rest, "}")
		if end > idx {
			itemsText := rest[idx+3 : end]
			return &ImportSpec{Kind: KindSelective, Module: module, Items: parseItemList(itemsText)}
		}
	}

	if strings.HasSuffix(rest, "::*") {
		return &ImportSpec{Kind: KindWildcard, Module: strings.TrimSuffix(rest, "::*")}
	}

	return &ImportSpec{Kind: KindPlain, Module: rest}
}

// parseItemList parses a comma-separated `a, b as c` selective list.
func parseItemList(text string) []SelectiveItem {
	var items []SelectiveItem
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, " as "); idx >= 0 {
			items = append(items, SelectiveItem{
				Name:  strings.TrimSpace(part[:idx]),
				Alias: strings.TrimSpace(part[idx+4:]),
			})
			continue
		}
		items = append(items, SelectiveItem{Name: part})
	}
	return items
}
