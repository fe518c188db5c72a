package main

import (
	"flag"
	"fmt"
	"os"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Lumen - semantic checker for the Lumen language

Usage:
    lumen <command> [arguments]

Commands:
    check <file>    Parse and semantically check a .lum file
    eval <code>     Check inline Lumen code
    tokens <file>   Dump the token stream of a .lum file
    help            Show this help message

Examples:
    lumen check examples/factorial.lum
    lumen check -sym examples/factorial.lum
    lumen eval 'class Main { static main() { Std.write("hi") } }'
    lumen tokens myfile.lum

Use "lumen <command> -h" for more information about a command.
`)
}

// extensionFlags registers the optional-builtin toggles shared by check and
// eval.
func extensionFlags(fs *flag.FlagSet) *BuiltinsConfig {
	cfg := &BuiltinsConfig{}
	fs.BoolVar(&cfg.ExtReadBool, "ext-read-bool", false, "Enable the Std.read_bool builtin")
	fs.BoolVar(&cfg.ExtIsInt, "ext-is-int", false, "Enable the Std.is_int builtin")
	return cfg
}

// fail prints the error and exits with its semantic code; non-semantic
// errors exit with the internal code.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(ExitCode(err))
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	dumpSyms := fs.Bool("sym", false, "Dump the symbol index after a successful check")
	cfg := extensionFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lumen check [-v] [-sym] <file>\n")
		fmt.Fprintf(os.Stderr, "Parse and semantically check a .lum file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(int(CodeInternal))
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(int(CodeInternal))
	}

	filename := fs.Arg(0)

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}

	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(int(CodeInternal))
	}

	_, res, err := AnalyzeSource(sourceBytes, *cfg)
	if err != nil {
		fail(err)
	}

	if *verbose {
		fmt.Printf("%s: OK (%d symbols, %d globals)\n", filename, res.Symbols.Len(), res.Globals.Len())
	}
	if *dumpSyms {
		res.DumpSymbols(os.Stdout)
	}
}

func evalCommand(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show verbose checking details")
	cfg := extensionFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lumen eval [-v] <code>\n")
		fmt.Fprintf(os.Stderr, "Check inline Lumen code\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(int(CodeInternal))
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one code argument\n")
		fs.Usage()
		os.Exit(int(CodeInternal))
	}

	code := fs.Arg(0)

	if *verbose {
		fmt.Printf("Checking: %s\n", code)
	}

	if _, _, err := AnalyzeSource([]byte(code), *cfg); err != nil {
		fail(err)
	}

	if *verbose {
		fmt.Println("OK")
	}
}

func tokensCommand(args []string) {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lumen tokens <file>\n")
		fmt.Fprintf(os.Stderr, "Dump the token stream of a .lum file\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(int(CodeInternal))
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(int(CodeInternal))
	}

	sourceBytes, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", fs.Arg(0), err)
		os.Exit(int(CodeInternal))
	}

	Init(append(sourceBytes, 0))
	for {
		NextToken()
		if CurrTokenType == EOF {
			break
		}
		if CurrTokenType == ILLEGAL {
			fail(lexError("illegal token %q", CurrLiteral))
		}
		fmt.Printf("%-14s %q\n", CurrTokenType, CurrLiteral)
	}
}
