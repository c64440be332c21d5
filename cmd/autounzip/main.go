package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	unzip "github.com/mirbf/autounzip"
)

// main 扫描当前目录下的 ZIP 文件并解压，有失败时以 1 退出
func main() {
	os.Exit(run(os.Stdout))
}

func run(out io.Writer) int {
	cfg, err := unzip.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法读取配置: %v\n", err)
		return 1
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	report, err := unzip.Run(cfg, out, logger)
	if err != nil {
		logger.Error("运行失败", "error", err)
		return 1
	}
	if report.Failed() > 0 {
		return 1
	}
	return 0
}
