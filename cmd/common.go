package cmd

import (
	"fmt"
	"os"

	"github.com/jing2uo/klinedata/config"
	"github.com/jing2uo/klinedata/utils"
	"github.com/sirupsen/logrus"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	return utils.NewLogger(cfg.LogLevel)
}

// progressPrinter 在终端同一行刷新处理进度
func progressPrinter(label string) func(done, total int) {
	return func(done, total int) {
		fmt.Fprintf(os.Stderr, "\r⏳ %s %d/%d", label, done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
}
