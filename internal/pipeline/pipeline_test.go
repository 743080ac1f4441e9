package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cm-lang/cmc/internal/config"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.cm")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestCompileRunsEveryStageToAPrunedMIRProgram(t *testing.T) {
	path := writeSource(t, `
func main() -> int {
	let x = 2 + 3 * 4;
	return x;
}`)
	cfg := config.New(config.TargetNative, 1, "en", "warn")
	p := New(cfg)

	result, err := p.Compile(path, Dumps{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MIR == nil {
		t.Fatalf("want a lowered MIR program")
	}
	if result.DCEReport == nil {
		t.Fatalf("want a DCE report")
	}
	found := false
	for _, fn := range result.MIR.Functions {
		if fn.Name == "main" {
			found = true
		}
	}
	if !found {
		t.Fatalf("want main to survive whole-program DCE")
	}
}

func TestCompileStopsAtRequestedDumpStage(t *testing.T) {
	path := writeSource(t, `
func main() -> int {
	return 0;
}`)
	cfg := config.New(config.TargetNative, 0, "en", "warn")
	p := New(cfg)

	result, err := p.Compile(path, Dumps{AST: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AST == nil {
		t.Fatalf("want the AST populated")
	}
	if result.HIR != nil {
		t.Fatalf("want HIR lowering skipped once --ast is requested")
	}
}

func TestCompileFailsOnAParseError(t *testing.T) {
	path := writeSource(t, `func main() -> int { return }`)
	cfg := config.New(config.TargetNative, 0, "en", "warn")
	p := New(cfg)

	if _, err := p.Compile(path, Dumps{}); err == nil {
		t.Fatalf("want a parse error for a missing return expression")
	}
}
