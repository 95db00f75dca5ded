package utils

import (
	"github.com/fatih/color"
)

var fileColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgBlue).SprintFunc())(is...)
}
var funColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiYellow).SprintFunc())(is...)
}
var nodeColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiCyan).SprintFunc())(is...)
}
var nameColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiGreen).SprintFunc())(is...)
}
var srcColor = func(is ...interface{}) string {
	return CanColorize(color.New(color.FgHiWhite, color.Faint).SprintFunc())(is...)
}

// FileString renders a source file path.
func FileString(path string) string {
	return fileColor(path)
}

// RoutineString renders a qualified routine name.
func RoutineString(name string) string {
	return funColor(name)
}

// NodeString renders a control-flow node identifier.
func NodeString(id int) string {
	return nodeColor("n", id)
}

// NameString renders a variable name.
func NameString(name string) string {
	return nameColor(name)
}

// SourceString renders a fragment of source text.
func SourceString(src string) string {
	return srcColor(src)
}
