package preprocess

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func newPreprocessor() *Preprocessor {
	logger := logrus.New()
	return New(nil, logger.WithField("phase", "preprocess"))
}

func TestSimpleImportInlinesBody(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "greet.cm", "func greet() -> void {\n    println(\"hi\");\n}\n")
	root := writeFile(t, dir, "main.cm", "import ./greet;\n\nfunc main() -> int {\n    return 0;\n}\n")

	res := newPreprocessor().Process(root)
	if !res.Success {
		t.Fatalf("want success, got error: %s", res.ErrorMessage)
	}
	if !strings.Contains(res.ProcessedSource, "func greet()") {
		t.Fatalf("want greet() inlined, got:\n%s", res.ProcessedSource)
	}
	if res.SourceMap.Len() != len(strings.Split(res.ProcessedSource, "\n"))-1 {
		t.Fatalf("source map line count must match output line count")
	}
}

func TestCircularImportFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cm", "import ./b;\n")
	writeFile(t, dir, "b.cm", "import ./a;\n")
	root := filepath.Join(dir, "a.cm")

	res := newPreprocessor().Process(root)
	if res.Success {
		t.Fatal("want circular import to fail")
	}
	if !strings.Contains(res.ErrorMessage, "PP002") {
		t.Fatalf("want PP002 circular-dependency code, got: %s", res.ErrorMessage)
	}
}

func TestAliasedImportWrapsInNamespace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mathlib.cm", "func add(a: int, b: int) -> int {\n    return a + b;\n}\n")
	root := writeFile(t, dir, "main.cm", "import ./mathlib as Math;\n")

	res := newPreprocessor().Process(root)
	if !res.Success {
		t.Fatalf("want success, got %s", res.ErrorMessage)
	}
	if !strings.Contains(res.ProcessedSource, "namespace Math {") {
		t.Fatalf("want namespace Math wrapper, got:\n%s", res.ProcessedSource)
	}
}

func TestSelectiveImportOnlySplicesNamedSymbols(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.cm", "func a() -> void {\n    return;\n}\nfunc b() -> void {\n    return;\n}\n")
	root := writeFile(t, dir, "main.cm", "import ./util::{a};\n")

	res := newPreprocessor().Process(root)
	if !res.Success {
		t.Fatalf("want success, got %s", res.ErrorMessage)
	}
	if !strings.Contains(res.ProcessedSource, "func a()") {
		t.Fatalf("want func a() spliced, got:\n%s", res.ProcessedSource)
	}
	if strings.Contains(res.ProcessedSource, "func b()") {
		t.Fatalf("want func b() NOT spliced, got:\n%s", res.ProcessedSource)
	}
}

func TestDuplicateFullImportOnlyInlinesOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.cm", "func shared() -> void {\n    return;\n}\n")
	root := writeFile(t, dir, "main.cm", "import ./shared;\nimport ./shared;\n")

	res := newPreprocessor().Process(root)
	if !res.Success {
		t.Fatalf("want success, got %s", res.ErrorMessage)
	}
	if strings.Count(res.ProcessedSource, "func shared()") != 1 {
		t.Fatalf("want exactly one inlined copy, got:\n%s", res.ProcessedSource)
	}
}

func TestStatementJoiningAcrossMultipleLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.cm", "func a() -> void {\n    return;\n}\nfunc b() -> void {\n    return;\n}\n")
	root := writeFile(t, dir, "main.cm", "import ./util::{\n    a,\n    b\n};\n")

	res := newPreprocessor().Process(root)
	if !res.Success {
		t.Fatalf("want success, got %s", res.ErrorMessage)
	}
	if !strings.Contains(res.ProcessedSource, "func a()") || !strings.Contains(res.ProcessedSource, "func b()") {
		t.Fatalf("want both a() and b() spliced from a multi-line selective import, got:\n%s", res.ProcessedSource)
	}
}

func TestSniffModuleLineTolerantOfBlankAndComment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pkg.cm", "\n// license header\nmodule mypkg;\n")
	if got := sniffModuleLine(path); got != "mypkg" {
		t.Fatalf("want mypkg, got %q", got)
	}
}
