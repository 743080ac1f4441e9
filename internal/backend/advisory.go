package backend

import "github.com/fatih/color"

var (
	patternColor   = color.New(color.FgYellow)
	recursionColor = color.New(color.FgCyan)
)

func patternTag(msg string) string {
	return patternColor.Sprint("[MIR_PATTERN] ") + msg
}

func recursionTag(msg string) string {
	return recursionColor.Sprint("[RECURSION] ") + msg
}
