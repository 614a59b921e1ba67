// cmd/main.go

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"BinView/pkg/object"
	"BinView/pkg/scan"
	"BinView/pkg/source"
	"BinView/pkg/utils"
	"BinView/pkg/version"
	"BinView/pkg/worker"

	"github.com/google/gops/agent"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var logger = utils.GetLogger("binview")

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"debug", "v"},
			Usage:   "enable debug log",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "enable trace log",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only warning and errors, no progress bars",
		},
		&cli.StringFlag{
			Name:  "log",
			Usage: "path of the log file (default stderr)",
		},
		&cli.BoolFlag{
			Name:  "gops",
			Usage: "start a gops agent for diagnostics",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML file with source settings, flags take precedence",
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Value: source.Default().ChunkSize,
			Usage: "bytes per cached chunk",
		},
		&cli.IntFlag{
			Name:  "buffer-chunks",
			Value: source.Default().BufferChunks,
			Usage: "chunks kept around the range being read",
		},
		&cli.IntFlag{
			Name:  "max-chunks",
			Value: source.Default().MaxChunks,
			Usage: "maximum number of cached chunks",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Value: source.Default().Concurrency,
			Usage: "parallel chunk loads",
		},
		&cli.Int64Flag{
			Name:  "read-limit",
			Usage: "read bandwidth limit in KiB/s (0 means unlimited)",
		},
		&cli.BoolFlag{
			Name:  "worker",
			Usage: "read through a background worker with its own cache",
		},
	}
}

func setLoggerLevel(c *cli.Context) {
	switch {
	case c.Bool("trace"):
		utils.SetLogLevel(logrus.TraceLevel)
	case c.Bool("verbose"):
		utils.SetLogLevel(logrus.DebugLevel)
	case c.Bool("quiet"):
		utils.SetLogLevel(logrus.WarnLevel)
	default:
		utils.SetLogLevel(logrus.InfoLevel)
	}
	if p := c.String("log"); p != "" {
		if err := utils.SetOutFile(p); err != nil {
			logger.Fatalf("open log file %s: %s", p, err)
		}
	}
}

func setup(c *cli.Context) error {
	setLoggerLevel(c)
	if c.Bool("gops") {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Warnf("start gops agent: %s", err)
		}
	}
	return nil
}

func loadConfig(c *cli.Context) source.Config {
	conf := source.Default()
	if p := c.String("config"); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			logger.Fatalf("read config %s: %s", p, err)
		}
		if err = yaml.Unmarshal(data, &conf); err != nil {
			logger.Fatalf("parse config %s: %s", p, err)
		}
	}
	if c.IsSet("chunk-size") {
		conf.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("buffer-chunks") {
		conf.BufferChunks = c.Int("buffer-chunks")
	}
	if c.IsSet("max-chunks") {
		conf.MaxChunks = c.Int("max-chunks")
	}
	if c.IsSet("concurrency") {
		conf.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("read-limit") {
		conf.ReadLimit = c.Int64("read-limit") << 10
	}
	if c.IsSet("worker") {
		conf.Worker = c.Bool("worker")
	}
	if err := conf.Check(); err != nil {
		logger.Fatalf("invalid config: %s", err)
	}
	return conf
}

// openSource resolves uri into a ready source. The caller disconnects it.
func openSource(ctx context.Context, uri string, conf source.Config) (*source.Source, error) {
	h, err := object.CreateHandle(uri)
	if err != nil {
		return nil, err
	}
	h = object.LimitHandle(h, conf.ReadLimit)
	s, err := source.FromHandle(h, &conf)
	if err != nil {
		return nil, err
	}
	if cl, ok := h.(io.Closer); ok {
		s.Attach(cl)
	}
	if err = s.Resolve(ctx); err != nil {
		s.Disconnect()
		return nil, err
	}
	if conf.Watch {
		source.Watch(s)
	}
	logger.Debugf("opened %s: %s, %s", uri, utils.FormatBytes(s.Size()), s.Type())
	return s, nil
}

func mustOpen(c *cli.Context, uri string) (*source.Source, source.Config) {
	conf := loadConfig(c)
	s, err := openSource(c.Context, uri, conf)
	if err != nil {
		logger.Fatalf("open %s: %s", uri, err)
	}
	return s, conf
}

func newReader(s *source.Source, conf source.Config) *worker.Reader {
	if conf.Worker {
		return worker.NewReader(s, worker.Start(conf))
	}
	return worker.NewReader(s, nil)
}

// withProgress runs fn with a progress bar over total bytes.
func withProgress(c *cli.Context, title string, total int64, fn func(scan.Progress) error) error {
	ru := utils.GetRusage()
	start := time.Now()
	progress, bar := utils.NewDynProgressBar(title, total, c.Bool("quiet"))
	err := fn(func(done, total int64) {
		bar.SetCurrent(done)
	})
	if err != nil {
		bar.Abort(false)
	} else {
		bar.SetTotal(-1, true)
	}
	progress.Wait()
	user, sys := ru.Since()
	logger.Debugf("%s%s in %s, cpu user %.2fs sys %.2fs", title, utils.FormatBytes(total), time.Since(start), user, sys)
	return err
}

func printJson(v interface{}) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatalf("json: %s", err)
	}
	fmt.Println(string(output))
}

func needArgs(c *cli.Context, n int, what string) error {
	if c.Args().Len() < n {
		return errors.Errorf("%s is needed", what)
	}
	return nil
}

func Main(args []string) error {
	cli.VersionFlag = &cli.BoolFlag{
		Name: "version", Aliases: []string{"V"},
		Usage: "print only the version",
	}
	app := &cli.App{
		Name:                 "binview",
		Usage:                "inspect large local or remote binary files with bounded memory",
		Version:              version.Version(),
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Before:               setup,
		Commands: []*cli.Command{
			infoFlags(),
			dumpFlags(),
			inspectFlags(),
			stringsFlags(),
			entropyFlags(),
			searchFlags(),
			diffFlags(),
			watchFlags(),
		},
	}
	return app.Run(args)
}

func main() {
	if err := Main(os.Args); err != nil {
		logger.Fatal(err)
	}
}
