package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rmrobinson/ztm/lib/stream"
	"github.com/rmrobinson/ztm/services/timetable"
	"github.com/rmrobinson/ztm/services/timetable/convert"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	pflag.String("dir", ".", "The directory to watch for RA files")
	pflag.String("pattern", "*.TXT", "The file name pattern of RA files")
	pflag.String("schedule", "", "A cron spec to reconvert every file periodically, e.g. @every 24h")
	pflag.String("out", "", "The outputs to produce: json, csv, sqlite or a comma separated list (default json,csv)")
	pflag.String("output-dir", ".", "The directory the outputs are written to")
	pflag.String("db-path", "", "The SQLite database path shared by every converted file")
	pflag.Bool("strict", false, "Skip files with malformed records instead of converting them partially")
	pflag.String("encoding", "", "The character set of the input files, e.g. windows-1250")
	pflag.String("json-indent", "  ", "The indentation of the JSON output")
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	viper.SetEnvPrefix("ZTM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		logger.Fatal("unable to bind flags",
			zap.Error(err),
		)
	}

	enc, err := timetable.EncodingByName(viper.GetString("encoding"))
	if err != nil {
		logger.Fatal("unsupported input encoding",
			zap.String("encoding", viper.GetString("encoding")),
			zap.Error(err),
		)
	}

	converter := convert.New(logger, convert.Config{
		OutputDir:  viper.GetString("output-dir"),
		DBPath:     viper.GetString("db-path"),
		Strict:     viper.GetBool("strict"),
		Encoding:   enc,
		JSONIndent: viper.GetString("json-indent"),
	})

	results := stream.NewHub(logger)
	rep := newReporter(logger, results)
	defer rep.close()

	w := &dirWatcher{
		logger:    logger,
		dir:       viper.GetString("dir"),
		pattern:   viper.GetString("pattern"),
		selection: convert.ParseSelection(viper.GetString("out")),
		converter: converter,
		results:   results,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go rep.run(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Fatal("unable to create watcher",
			zap.Error(err),
		)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		logger.Fatal("unable to watch directory",
			zap.String("dir", w.dir),
			zap.Error(err),
		)
	}

	if spec := viper.GetString("schedule"); len(spec) > 0 {
		c := cron.New()
		if _, err := c.AddFunc(spec, func() { w.rescan(ctx) }); err != nil {
			logger.Fatal("invalid schedule",
				zap.String("schedule", spec),
				zap.Error(err),
			)
		}
		c.Start()
		defer c.Stop()
	}

	logger.Info("watching",
		zap.String("dir", w.dir),
		zap.String("pattern", w.pattern),
		zap.String("outputs", w.selection.String()),
	)

	w.rescan(ctx)
	w.run(ctx, fsw)
}
