package preprocess

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// resolveModulePath implements the resolution algorithm for a
// non-relative specifier such as "M::N" or
// "std::io::println": splitting off a trailing lower-case symbol name,
// then trying PATH.cm, PATH/ (module-line-sniffed), PATH/mod.cm across
// every candidate search directory.
func (p *Preprocessor) resolveModulePath(spec string, currentDir string) (canonPath string, droppedSymbol string, err error) {
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") {
		return p.resolveRelative(spec, currentDir)
	}

	segments := strings.Split(spec, "::")
	symbol := ""
	if n := len(segments); n > 1 {
		last := segments[n-1]
		if len(last) > 0 && last[0] >= 'a' && last[0] <= 'z' {
			symbol = last
			segments = segments[:n-1]
		}
	}
	relPath := filepath.Join(segments...)

	dirs := append([]string{currentDir}, p.SearchPaths...)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		base := filepath.Join(dir, relPath)
		if path, ok := tryCandidate(base); ok {
			canon, cerr := canonicalize(path)
			if cerr != nil {
				canon = path
			}
			return canon, symbol, nil
		}
	}
	return "", "", &resolveError{spec: spec}
}

// resolveRelative resolves "./foo", "../foo", or "./foo.cm" against the
// importing file's own directory.
func (p *Preprocessor) resolveRelative(spec string, currentDir string) (string, string, error) {
	base := filepath.Join(currentDir, spec)
	if path, ok := tryCandidate(base); ok {
		canon, err := canonicalize(path)
		if err != nil {
			canon = path
		}
		return canon, "", nil
	}
	return "", "", &resolveError{spec: spec}
}

// tryCandidate attempts, in order: PATH.cm, PATH/ as a directory
// containing a module-line-sniffed file, then PATH/mod.cm.
func tryCandidate(base string) (string, bool) {
	if !strings.HasSuffix(base, ".cm") {
		withExt := base + ".cm"
		if fileExists(withExt) {
			return withExt, true
		}
	} else if fileExists(base) {
		return base, true
	}
	if info, err := os.Stat(base); err == nil && info.IsDir() {
		if f, ok := findModuleFileInDir(base); ok {
			return f, true
		}
		modPath := filepath.Join(base, "mod.cm")
		if fileExists(modPath) {
			return modPath, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// findModuleFileInDir scans a directory's .cm files for one whose
// first non-comment, non-blank line matches `module NAME;`, tolerating
// leading blank lines and line comments before it.
func findModuleFileInDir(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".cm") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if sniffModuleLine(path) != "" {
			return path, true
		}
	}
	return "", false
}

// sniffModuleLine returns the module name declared by the file's first
// significant line, tolerating leading blank lines and `//` comments.
func sniffModuleLine(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "module ") && strings.HasSuffix(line, ";") {
			name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "module "), ";"))
			return name
		}
		return ""
	}
	return ""
}

type resolveError struct{ spec string }

func (e *resolveError) Error() string {
	return "module not found: " + e.spec
}
