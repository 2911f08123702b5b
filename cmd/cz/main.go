// Package main provides the entry point for the cz translator driver.
// 表層方言 → C 変換ドライバ
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/czar-lang/czar/internal/cli"
	"github.com/czar-lang/czar/internal/emitter"
	"github.com/czar-lang/czar/internal/lexer"
	"github.com/czar-lang/czar/internal/vfs"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		jsonOutput  = flag.Bool("json", false, "print version information as JSON")
		showHelp    = flag.Bool("help", false, "show help information")
		debugLexer  = flag.Bool("debug-lexer", false, "enable lexer debug output")
		debugMode   = flag.Bool("debug", false, "compile sub-INFO log levels into the output (CZ_DEBUG=1)")
		strict      = flag.Bool("strict", false, "treat unresolvable method receivers as errors")
		watch       = flag.Bool("watch", false, "retranslate whenever the input changes")
		doBuild     = flag.Bool("build", false, "translate every source listed in czar.yaml")
		manifest    = flag.String("manifest", "", "manifest path for --build (default czar.yaml)")
	)

	flag.Parse()

	if *showVersion {
		cli.PrintVersion("cz", *jsonOutput)
		return
	}

	if *showHelp {
		showUsage()
		return
	}

	if *doBuild {
		if err := runBuild(*manifest, *debugMode, *strict); err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("Error: No input file specified")
		showUsage()
		os.Exit(1)
	}

	input := args[0]
	output := defaultOutput(input)
	if len(args) > 1 {
		output = args[1]
	}

	opts := emitter.Options{
		Filename:        input,
		Debug:           *debugMode,
		ToolVersion:     cli.Version,
		StrictReceivers: *strict,
	}

	if *debugLexer {
		if err := dumpTokens(input); err != nil {
			log.Fatalf("Lexing failed: %v", err)
		}
		return
	}

	if *watch {
		if err := watchFile(input, output, opts); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
		return
	}

	if err := translateFile(input, output, opts); err != nil {
		cli.ExitWithError("%v", err)
	}
}

func showUsage() {
	fmt.Println("cz - CZar to C translator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    cz [OPTIONS] <INPUT> [<OUTPUT>]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    --version        Show version information (--json for JSON)")
	fmt.Println("    --help           Show this help message")
	fmt.Println("    --debug-lexer    Enable lexer debug output")
	fmt.Println("    --debug          Compile sub-INFO log levels into the output")
	fmt.Println("    --strict         Unresolvable method receivers are errors")
	fmt.Println("    --watch          Retranslate whenever the input changes")
	fmt.Println("    --build          Translate every source listed in the manifest")
	fmt.Println("    --manifest       Manifest path for --build (default czar.yaml)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    cz hello.cz")
	fmt.Println("    cz hello.cz hello.c")
	fmt.Println("    cz --watch hello.cz")
	fmt.Println("    cz --build")
}

// defaultOutput derives the output path from the input: same base with
// a .c extension.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		return input + ".c"
	}
	return input[:len(input)-len(ext)] + ".c"
}

// translateFile runs one translation unit end to end. "-" writes the
// translation to stdout.
func translateFile(input, output string, opts emitter.Options) error {
	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	if output == "-" {
		return emitter.Translate(source, os.Stdout, opts)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := emitter.Translate(source, out, opts); err != nil {
		out.Close()
		os.Remove(output)
		return err
	}
	return out.Close()
}

// dumpTokens prints the token stream, one token per line
func dumpTokens(input string) error {
	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	fmt.Println("🔍 Lexer Debug Output:")
	fmt.Println(strings.Repeat("=", 50))

	l := lexer.NewWithFilename(string(source), input)
	for {
		token := l.NextToken()
		fmt.Printf("Token: %-12s | Value: %-20q | Position: %s\n",
			token.Type, token.Literal, token.Span.Start)
		if token.Type == lexer.TokenEOF {
			break
		}
		if token.Type == lexer.TokenError {
			errs := l.Errors()
			return errs[len(errs)-1]
		}
	}
	return nil
}

// watchFile retranslates input on every change until interrupted
func watchFile(input, output string, opts emitter.Options) error {
	if err := translateFile(input, output, opts); err != nil {
		// keep watching; the next save may fix the source
		fmt.Fprintf(os.Stderr, "cz: %v\n", err)
	} else {
		fmt.Printf("🔥 %s -> %s\n", input, output)
	}

	w, err := vfs.NewWatcher(input)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	fmt.Printf("👀 Watching %s (Ctrl-C to stop)\n", input)
	for {
		select {
		case <-w.Events():
			if err := translateFile(input, output, opts); err != nil {
				fmt.Fprintf(os.Stderr, "cz: %v\n", err)
				continue
			}
			fmt.Printf("🔥 %s -> %s\n", input, output)
		case err := <-w.Errors():
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
