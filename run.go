package unzip

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Run 扫描 cfg.Root，依次解压每个压缩包，写出报告并打印一行摘要
//
// 只有扫描失败会返回错误(此时不写报告)；单个压缩包的失败记录在报告里。
// 调用方根据 report.Failed() 决定退出码。
func Run(cfg Config, out io.Writer, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("开始扫描 ZIP 文件", "root", cfg.Root)
	archives, err := NewScanner(logger).Scan(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", cfg.Root, err)
	}

	if len(archives) == 0 {
		logger.Info("未发现 ZIP 文件")
	} else {
		logger.Info("发现 ZIP 文件", "count", len(archives))
		for _, path := range archives {
			logger.Info("待解压", "archive", path)
		}
	}

	extractor := NewZipExtractor(ExtractorOptions{
		DeleteAfter: cfg.DeleteAfter,
		Passwords:   cfg.Passwords,
		Logger:      logger,
		Progress: func(current, total int64, filename string) {
			logger.Debug("条目已解压", "current", current, "total", total, "entry", filename)
		},
	})

	report := NewReport(time.Now())
	for _, path := range archives {
		report.Add(ArchiveTask{
			Source:  path,
			Outcome: extractor.Extract(path),
		})
	}

	reportPath := cfg.ReportPath
	if reportPath == "" {
		reportPath = DefaultReportPath
	}
	if err := report.WriteFile(reportPath); err != nil {
		return report, err
	}
	logger.Info("报告已生成", "path", reportPath)

	fmt.Fprintf(out, "🎉 完成: %d/%d 个文件解压成功\n", report.Succeeded(), report.Total())
	return report, nil
}
