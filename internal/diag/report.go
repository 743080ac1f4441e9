package diag

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cm-lang/cmc/internal/sourcemap"
)

// Severity classifies a Report; only Error-severity reports cause a
// non-zero exit.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Report is the canonical structured diagnostic type: a Severity
// field plus an explicit import chain for back-mapped positions.
type Report struct {
	Code        string         `json:"code"`
	Phase       string         `json:"phase"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`
	Span        *sourcemap.Span `json:"span,omitempty"`
	File        string         `json:"file,omitempty"`
	ImportChain []string       `json:"import_chain,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report so it survives errors.As unwrapping.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a *Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds an Error-severity Report.
func New(phase, code, message string) *Report {
	return &Report{Code: code, Phase: phase, Severity: SeverityError, Message: message, Data: map[string]any{}}
}

// WithSpan attaches a source span.
func (r *Report) WithSpan(s sourcemap.Span) *Report {
	r.Span = &s
	return r
}

// WithFile attaches the originating file name.
func (r *Report) WithFile(f string) *Report {
	r.File = f
	return r
}

// WithChain attaches the import chain that led to this diagnostic
//.
func (r *Report) WithChain(chain []string) *Report {
	r.ImportChain = append([]string(nil), chain...)
	return r
}

// WithData attaches a key to the structured data map.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// ToJSON serializes the report deterministically.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Lang selects the diagnostic rendering language.
type Lang string

const (
	LangEN Lang = "en"
	LangJA Lang = "ja"
)

var explanations = map[string]map[Lang]string{
	PP001ModuleNotFound: {
		LangEN: "the imported module could not be found on any search path",
		LangJA: "インポートされたモジュールが検索パス上に見つかりませんでした",
	},
	PP002Circular: {
		LangEN: "this import forms a cycle with a module still being processed",
		LangJA: "このインポートは処理中のモジュールとの循環を形成しています",
	},
	PAR001UnexpectedToken: {
		LangEN: "the parser did not expect this token here",
		LangJA: "パーサーはここでこのトークンを想定していませんでした",
	},
	BKD002EmissionTimeout: {
		LangEN: "code emission exceeded its deadline; try lowering the optimization level",
		LangJA: "コード生成が期限を超過しました。最適化レベルを下げてみてください",
	},
}

// Explain returns the one-sentence human explanation for a code in the
// requested language, falling back to English and then to the message.
func Explain(code string, lang Lang, fallback string) string {
	if byLang, ok := explanations[code]; ok {
		if s, ok := byLang[lang]; ok {
			return s
		}
		if s, ok := byLang[LangEN]; ok {
			return s
		}
	}
	return fallback
}

// Render prints a diagnostic with the offending source line, a caret
// underline of the span, and a
// one-sentence explanation, back-mapped through the SourceMap when one
// is supplied.
func Render(r *Report, unifiedSource string, sm *sourcemap.SourceMap, lang Lang) string {
	var b strings.Builder
	file := r.File
	line := 0
	if r.Span != nil {
		line = r.Span.Start.Line
	}
	if sm != nil && r.Span != nil {
		if origFile, origLine, chain, ok := sm.BackMap(r.Span.Start); ok {
			file = origFile
			line = origLine
			if len(chain) > 0 {
				fmt.Fprintf(&b, "in import chain: %s\n", strings.Join(chain, " -> "))
			}
		}
	}
	fmt.Fprintf(&b, "%s: [%s] %s\n", r.Severity, r.Code, r.Message)
	if file != "" {
		fmt.Fprintf(&b, "  --> %s:%d\n", file, line)
	}
	if r.Span != nil && unifiedSource != "" {
		srcLine := lineAt(unifiedSource, r.Span.Start.Line)
		if srcLine != "" {
			fmt.Fprintf(&b, "  %s\n", srcLine)
			col := r.Span.Start.Column
			if col < 1 {
				col = 1
			}
			width := r.Span.End.Column - r.Span.Start.Column
			if width < 1 {
				width = 1
			}
			fmt.Fprintf(&b, "  %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
		}
	}
	fmt.Fprintf(&b, "  %s\n", Explain(r.Code, lang, r.Message))
	if len(r.ImportChain) > 0 {
		fmt.Fprintf(&b, "  import chain: %s\n", strings.Join(r.ImportChain, " -> "))
	}
	return b.String()
}

func lineAt(source string, n int) string {
	if n < 1 {
		return ""
	}
	scanner := bufio.NewScanner(strings.NewReader(source))
	i := 0
	for scanner.Scan() {
		i++
		if i == n {
			return scanner.Text()
		}
	}
	return ""
}
