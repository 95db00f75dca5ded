package utils

import (
	"flag"
	"fmt"
	"log"
	"strings"
)

type options struct {
	minlen       uint
	nodesep      float64
	function     string
	lang         string
	outputFormat string
	outDir       string
	configPath   string
	task         string
	noColorize   bool
	verbose      bool
	visualize    bool

	// Analysis assumptions, only settable through the configuration file.
	liveOut       []string
	nonNullParams bool
	nonNull       []string
}

const (
	_PRINT_CFG = iota
	_CHECK_CFG
	_CFG_TO_DOT
	_LIVENESS
	_NULLNESS
	_DEAD_BRANCHES
)

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

var task = []struct{ flag, explanation string }{{
	"print-cfg",
	"Print the node and edge listing of the control-flow graph of every selected routine",
}, {
	"check-cfg",
	"Build the control-flow graph of every selected routine and check that it is well-formed",
}, {
	"cfg-to-dot",
	"Render the control-flow graph of every selected routine to an image",
}, {
	"liveness",
	"Run the live variables analysis and report the live names before every statement",
}, {
	"nullness",
	"Run the nullness analysis and report the nullness of every name after every statement",
}, {
	"dead-branches",
	"Report conditions with a branch that is never taken according to the nullness analysis",
}}

var langs = []string{"", "java", "go"}

var opts = &options{}

type optInterface struct{}

type taskInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}
func (optInterface) Minlen() uint {
	return opts.minlen
}
func (optInterface) Nodesep() float64 {
	return opts.nodesep
}
func (optInterface) Function() string {
	return opts.function
}
func (optInterface) Lang() string {
	return opts.lang
}
func (optInterface) OutputFormat() string {
	return opts.outputFormat
}
func (optInterface) OutDir() string {
	return opts.outDir
}
func (optInterface) ConfigPath() string {
	return opts.configPath
}
func (optInterface) Verbose() bool {
	return opts.verbose
}
func (optInterface) Visualize() bool {
	return opts.visualize
}
func (optInterface) LiveOut() []string {
	return opts.liveOut
}
func (optInterface) NonNullParams() bool {
	return opts.nonNullParams
}
func (optInterface) NonNull() []string {
	return opts.nonNull
}
func (optInterface) Task() taskInterface {
	return taskInterface{}
}
func (taskInterface) String() string {
	return opts.task
}
func (taskInterface) IsPrintCfg() bool {
	return opts.task == task[_PRINT_CFG].flag
}
func (taskInterface) IsCheckCfg() bool {
	return opts.task == task[_CHECK_CFG].flag
}
func (taskInterface) IsCfgToDot() bool {
	return opts.task == task[_CFG_TO_DOT].flag
}
func (taskInterface) IsLiveness() bool {
	return opts.task == task[_LIVENESS].flag
}
func (taskInterface) IsNullness() bool {
	return opts.task == task[_NULLNESS].flag
}
func (taskInterface) IsDeadBranches() bool {
	return opts.task == task[_DEAD_BRANCHES].flag
}

func init() {
	taskFlag := "\n"
	for _, task := range task {
		taskFlag += task.flag + " -- " + task.explanation + "\n"
	}
	taskFlag += "\n"

	flag.UintVar(&(opts.minlen), "minlen", 1, "Minimum edge length (for wider output).")
	flag.Float64Var(&(opts.nodesep), "nodesep", 0.35, "Minimum space between two adjacent nodes in the same rank (for taller output).")
	flag.StringVar(&(opts.function), "fun", "", "target specific routines w. r. t. the given task.\n"+
		"- Routine names need not be qualified by their class or receiver; a simple name selects every routine with that name.\n"+
		"- Leave empty to select every routine in the given files.\n")
	flag.StringVar(&(opts.lang), "lang", "", "source language of the input files [java | go]; inferred from the file extension if empty")
	flag.StringVar(&(opts.outputFormat), "format", "svg", "output file format [svg | png | jpg | dot]")
	flag.StringVar(&(opts.outDir), "out", ".", "directory where rendered graphs are written")
	flag.StringVar(&(opts.configPath), "config", "", "YAML configuration file; flags given on the command line take precedence")
	flag.StringVar(&(opts.task), "task", task[_PRINT_CFG].flag, "Set the task to do during execution. Options:"+taskFlag)
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")
	flag.BoolVar(&(opts.visualize), "visualize", false, "open rendered graphs with the system viewer")

	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}

func ParseArgs() {
	// Calling flag.Parse in init messes up unit tests.
	// See https://stackoverflow.com/questions/60235896/flag-provided-but-not-defined-test-v
	flag.Parse()

	if opts.configPath != "" {
		cfg, err := LoadConfig(opts.configPath)
		if err != nil {
			log.Fatalln(err)
		}

		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) {
			explicit[f.Name] = true
		})
		cfg.apply(explicit)
	}

	if err := validate(); err != nil {
		log.Fatalln(err)
	}

	if Opts().Task().IsCfgToDot() {
		opts.noColorize = true
	}
}

func validate() error {
	validTask := false
	for _, task := range task {
		if task.flag == opts.task {
			validTask = true
			break
		}
	}
	if !validTask {
		return fmt.Errorf("Value \"%s\" is not valid for -task", opts.task)
	}

	for _, lang := range langs {
		if lang == opts.lang {
			return nil
		}
	}
	return fmt.Errorf("Value \"%s\" is not valid for -lang", opts.lang)
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}
