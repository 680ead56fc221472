package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rmrobinson/ztm/services/timetable"
	"github.com/rmrobinson/ztm/services/timetable/convert"
	"go.uber.org/zap"
)

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "ZTM PARSER:")
	fmt.Fprintln(w, "  HELP: ztmparse help")
	fmt.Fprintln(w, "  PARSER: ztmparse <FILEPATH>")
	fmt.Fprintln(w, "  CHANGE OUTPUT: ztmparse <FILEPATH> -out <OUTPUT VARIANTS>")
	fmt.Fprintln(w, "    OUTPUT VARIANTS:")
	fmt.Fprintln(w, "      -out json")
	fmt.Fprintln(w, "      -out csv")
	fmt.Fprintln(w, "      -out json,csv")
	fmt.Fprintln(w, "      -out csv,json")
	fmt.Fprintln(w, "      -out csv,json,sqlite")
	fmt.Fprintln(w, "  OPTIONS:")
	fmt.Fprint(w, newFlagSet().FlagUsages())
}

// promptInput asks for the input path when none was given on the command line.
func promptInput(in io.Reader, out io.Writer) string {
	fmt.Fprintln(out, "Enter the input file:")
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line)
}

func main() {
	opts, err := loadOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printHelp(os.Stderr)
		os.Exit(1)
	}

	if len(opts.Input) < 1 {
		opts.Input = promptInput(os.Stdin, os.Stdout)
	}
	if opts.Input == "help" {
		printHelp(os.Stdout)
		return
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	enc, err := timetable.EncodingByName(opts.Encoding)
	if err != nil {
		logger.Fatal("unsupported input encoding",
			zap.String("encoding", opts.Encoding),
			zap.Error(err),
		)
	}

	cfg := convert.Config{
		OutputDir:  opts.OutputDir,
		DBPath:     opts.DBPath,
		Strict:     opts.Strict,
		Encoding:   enc,
		JSONIndent: opts.JSONIndent,
	}
	if opts.Dump {
		cfg.Dump = os.Stdout
	}

	logger.Info("starting")
	res, err := convert.New(logger, cfg).Convert(context.Background(), opts.Input, convert.ParseSelection(opts.Out))
	if err != nil {
		logger.Error("conversion failed",
			zap.String("file_name", opts.Input),
			zap.Error(err),
		)
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("finished",
		zap.Stringer("result", res),
	)
}
