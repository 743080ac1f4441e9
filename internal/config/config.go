// Package config builds the process-wide, read-only configuration
// consumed by every pipeline stage: module search paths, the active
// build target, optimization level, debug level, and diagnostic
// language. It is constructed once at startup (by cmd/cmc) and passed
// by reference thereafter. findProjectRoot/getSearchPaths/
// findStdlibPath probe CM_MODULE_PATH/CM_STD_PATH/CM_PROJECT_ROOT the
// way a layered module resolver walks environment and working
// directory before falling back to defaults.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Target is the active build target.
type Target string

const (
	TargetNative      Target = "native"
	TargetWasm        Target = "wasm"
	TargetJS          Target = "js"
	TargetWeb         Target = "web"
	TargetInterpreter Target = "interpreter"
)

// Config is immutable once constructed; no stage mutates it.
type Config struct {
	ProjectRoot  string
	StdPath      string
	SearchPaths  []string
	Target       Target
	OptLevel     int
	Lang         string // "en" or "ja", diagnostic rendering language
	DebugLevel   logrus.Level
	Logger       *logrus.Logger
	BareMetal    bool // UEFI/bare-metal targets bypass the pre-codegen validator
}

// pathListSeparator matches the platform convention for search-path
// lists: ':' on Unix, ';' on Windows.
func pathListSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// New builds a Config from the environment and explicit overrides. An
// empty target defaults to Native; an optLevel outside [0,3] is clamped.
func New(target Target, optLevel int, lang string, debugLevel string) *Config {
	root := os.Getenv("CM_PROJECT_ROOT")
	if root == "" {
		root = findProjectRoot()
	}

	stdPath := os.Getenv("CM_STD_PATH")
	if stdPath == "" {
		stdPath = filepath.Join(root, "stdlib")
	}

	var searchPaths []string
	searchPaths = append(searchPaths, root)
	searchPaths = append(searchPaths, ".")
	if modPath := os.Getenv("CM_MODULE_PATH"); modPath != "" {
		for _, p := range strings.Split(modPath, pathListSeparator()) {
			if p != "" {
				searchPaths = append(searchPaths, p)
			}
		}
	}
	searchPaths = append(searchPaths, stdPath)

	if target == "" {
		target = TargetNative
	}
	if optLevel < 0 {
		optLevel = 0
	}
	if optLevel > 3 {
		optLevel = 3
	}
	if lang == "" {
		lang = "en"
	}

	level, err := logrus.ParseLevel(debugLevel)
	if err != nil {
		level = logrus.WarnLevel
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return &Config{
		ProjectRoot: root,
		StdPath:     stdPath,
		SearchPaths: dedupe(searchPaths),
		Target:      target,
		OptLevel:    optLevel,
		Lang:        lang,
		DebugLevel:  level,
		Logger:      logger,
		BareMetal:   false,
	}
}

func dedupe(paths []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		out = append(out, p)
	}
	return out
}

// findProjectRoot walks up from the working directory looking for a
// project marker.
func findProjectRoot() string {
	markers := []string{"go.mod", ".git", "cm.yaml", ".cm"}

	dir, err := os.Getwd()
	if err != nil {
		return "."
	}

	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	pwd, _ := os.Getwd()
	return pwd
}

// WithLogger returns a logrus.Entry pre-tagged with the given pipeline
// phase, following the go-corset example's logrus field convention.
func (c *Config) WithLogger(phase string) *logrus.Entry {
	return c.Logger.WithField("phase", phase)
}
