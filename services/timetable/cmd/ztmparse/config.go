package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix = "ZTM"

	flagOut        = "out"
	flagOutputDir  = "output-dir"
	flagDBPath     = "db-path"
	flagStrict     = "strict"
	flagEncoding   = "encoding"
	flagJSONIndent = "json-indent"
	flagDump       = "dump"
	flagConfig     = "config"
)

type options struct {
	Input      string
	Out        string
	OutputDir  string
	DBPath     string
	Strict     bool
	Encoding   string
	JSONIndent string
	Dump       bool
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("ztmparse", pflag.ContinueOnError)
	flags.StringP(flagOut, "o", "", "The outputs to produce: json, csv, sqlite or a comma separated list (default json,csv)")
	flags.String(flagOutputDir, ".", "The directory the outputs are written to")
	flags.String(flagDBPath, "", "The SQLite database path (default <output-dir>/<input>.DB)")
	flags.Bool(flagStrict, false, "Abort on the first malformed record instead of skipping it")
	flags.String(flagEncoding, "", "The character set of the input file, e.g. windows-1250")
	flags.String(flagJSONIndent, "  ", "The indentation of the JSON output")
	flags.Bool(flagDump, false, "Dump the parsed hierarchy to stdout")
	flags.String(flagConfig, "", "The path to an optional config file")
	return flags
}

// normalizeArgs accepts the single dash "-out" spelling of --out.
func normalizeArgs(args []string) []string {
	ret := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "-"+flagOut || strings.HasPrefix(arg, "-"+flagOut+"=") {
			arg = "-" + arg
		}
		ret = append(ret, arg)
	}
	return ret
}

// loadOptions resolves every option from flags, ZTM_* environment variables and
// the optional config file, in that order of precedence.
func loadOptions(args []string) (*options, error) {
	flags := newFlagSet()
	if err := flags.Parse(normalizeArgs(args)); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	if cfgPath := v.GetString(flagConfig); len(cfgPath) > 0 {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return &options{
		Input:      flags.Arg(0),
		Out:        v.GetString(flagOut),
		OutputDir:  v.GetString(flagOutputDir),
		DBPath:     v.GetString(flagDBPath),
		Strict:     v.GetBool(flagStrict),
		Encoding:   v.GetString(flagEncoding),
		JSONIndent: v.GetString(flagJSONIndent),
		Dump:       v.GetBool(flagDump),
	}, nil
}
