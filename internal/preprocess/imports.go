package preprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cm-lang/cmc/internal/diag"
	"github.com/cm-lang/cmc/internal/sourcemap"
)

// handleImport dispatches one recognized import statement to the
// appropriate splicing strategy.
func (p *Preprocessor) handleImport(text, currentFile string, chain []string) error {
	spec := parseImportSpec(text)
	currentDir := filepath.Dir(currentFile)

	switch spec.Kind {
	case KindRecursiveWildcard:
		return p.spliceRecursiveWildcard(spec.Module, currentDir, chain)
	default:
		canon, symbol, err := p.resolveModulePath(spec.Module, currentDir)
		if err != nil {
			return diag.Wrap(diag.New(diag.PhasePreprocess, diag.PP001ModuleNotFound,
				fmt.Sprintf("module not found: %s", spec.Module)).WithChain(chain))
		}
		if symbol != "" && spec.Kind == KindPlain {
			spec.Kind = KindSelective
			spec.Items = []SelectiveItem{{Name: symbol}}
		}
		return p.spliceModule(canon, spec, chain)
	}
}

// spliceModule inlines one resolved module's body per its import kind:
// full inline (Plain/Wildcard), alias-wrapped (Aliased), or selective
// (only new symbols on re-import
// de-duplication rule).
func (p *Preprocessor) spliceModule(canon string, spec *ImportSpec, chain []string) error {
	switch spec.Kind {
	case KindSelective:
		return p.spliceSelective(canon, spec.Items, chain)
	default:
		if p.fullyInlined[canon] {
			p.writeGenerated(fmt.Sprintf("// already imported: %s", canon))
			return nil
		}
		p.fullyInlined[canon] = true
		data, err := os.ReadFile(canon)
		if err != nil {
			return diag.Wrap(diag.New(diag.PhasePreprocess, diag.PP003IOError, err.Error()).WithChain(chain))
		}
		body := rewriteExports(string(data))
		if spec.Kind == KindAliased && spec.Alias != "" {
			p.writeGenerated("namespace " + spec.Alias + " {")
			if err := p.inlineFile(canon, body, chain); err != nil {
				return err
			}
			p.writeGenerated("}")
			return nil
		}
		return p.inlineFile(canon, body, chain)
	}
}

// spliceSelective inlines only the requested symbols from a module,
// tracking a per-module set of already-spliced names so re-imports only
// add what is genuinely new.
func (p *Preprocessor) spliceSelective(canon string, items []SelectiveItem, chain []string) error {
	seen := p.selective[canon]
	if seen == nil {
		seen = map[string]bool{}
		p.selective[canon] = seen
	}
	data, err := os.ReadFile(canon)
	if err != nil {
		return diag.Wrap(diag.New(diag.PhasePreprocess, diag.PP003IOError, err.Error()).WithChain(chain))
	}
	body := rewriteExports(string(data))
	decls := splitTopLevelDecls(body)

	var newLines []string
	for _, item := range items {
		if seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		text, found := decls[item.Name]
		if !found {
			continue
		}
		if item.Alias != "" && item.Alias != item.Name {
			text = renameDecl(text, item.Name, item.Alias)
		}
		newLines = append(newLines, text)
	}
	if len(newLines) == 0 {
		p.writeGenerated(fmt.Sprintf("// already imported from %s", canon))
		return nil
	}
	for _, decl := range newLines {
		for _, line := range strings.Split(decl, "\n") {
			p.sm.Append(sourcemap.LineInfo{OriginalFile: canon, ImportChain: chain})
			p.out.WriteString(line)
			p.out.WriteByte('\n')
		}
	}
	return nil
}

// spliceRecursiveWildcard inlines every .cm file under dir whose first
// significant line is a `module NAME;` declaration, each wrapped in a
// namespace derived from its path relative to dir, handling the
// `import ./dir/*;` wildcard form.
func (p *Preprocessor) spliceRecursiveWildcard(dirSpec, currentDir string, chain []string) error {
	root := filepath.Join(currentDir, dirSpec)
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".cm") && sniffModuleLine(path) != "" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return diag.Wrap(diag.New(diag.PhasePreprocess, diag.PP003IOError, err.Error()).WithChain(chain))
	}
	sort.Strings(files)
	for _, f := range files {
		canon, cerr := canonicalize(f)
		if cerr != nil {
			canon = f
		}
		if p.fullyInlined[canon] {
			continue
		}
		p.fullyInlined[canon] = true
		rel, _ := filepath.Rel(root, f)
		ns := pathToNamespace(rel)
		data, rerr := os.ReadFile(f)
		if rerr != nil {
			return diag.Wrap(diag.New(diag.PhasePreprocess, diag.PP003IOError, rerr.Error()).WithChain(chain))
		}
		body := rewriteExports(string(data))
		if ns != "" {
			p.writeGenerated("namespace " + ns + " {")
		}
		if err := p.inlineFile(canon, body, chain); err != nil {
			return err
		}
		if ns != "" {
			p.writeGenerated("}")
		}
	}
	return nil
}

func pathToNamespace(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(dir), "/")
	return strings.Join(parts, "::")
}
