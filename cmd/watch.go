// cmd/watch.go

package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"BinView/pkg/source"
	"BinView/pkg/utils"

	"github.com/urfave/cli/v2"
)

func watchFlags() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "follow changes of a local file",
		ArgsUsage: "PATH",
		Action:    watch,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "access-log",
				Usage: "also print every resolution and chunk load",
			},
		},
	}
}

func watch(c *cli.Context) error {
	if err := needArgs(c, 1, "PATH"); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf := loadConfig(c)
	conf.Watch = true
	s, err := openSource(ctx, c.Args().First(), conf)
	if err != nil {
		logger.Fatalf("open %s: %s", c.Args().First(), err)
	}
	defer s.Disconnect()

	report := func(s *source.Source) {
		fmt.Printf("%s %s %s %s\n", time.Now().Format(time.RFC3339), s.Name(), utils.FormatBytes(s.Size()), s.State())
	}
	s.OnChange(report)
	report(s)
	if !c.Bool("access-log") {
		<-ctx.Done()
		return nil
	}
	id, lines := source.OpenAccessLog()
	defer source.CloseAccessLog(id)
	for {
		select {
		case line := <-lines:
			fmt.Println(line)
		case <-ctx.Done():
			return nil
		}
	}
}
