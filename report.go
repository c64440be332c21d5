package unzip

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Report 一次运行的解压报告，只追加不修改
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Tasks       []ArchiveTask
}

// NewReport 创建新报告
func NewReport(now time.Time) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: now,
	}
}

// Add 追加一条已完成的记录
func (r *Report) Add(task ArchiveTask) {
	r.Tasks = append(r.Tasks, task)
}

// Total 发现的压缩包数量
func (r *Report) Total() int {
	return len(r.Tasks)
}

// Succeeded 成功数量
func (r *Report) Succeeded() int {
	n := 0
	for _, t := range r.Tasks {
		if t.Outcome.Success {
			n++
		}
	}
	return n
}

// Failed 失败数量
func (r *Report) Failed() int {
	return r.Total() - r.Succeeded()
}

// Render 生成 Markdown 报告
func (r *Report) Render() string {
	var b strings.Builder

	b.WriteString("# 📋 自动解压报告\n\n")
	fmt.Fprintf(&b, "生成时间: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "运行 ID: `%s`\n\n", r.RunID)

	b.WriteString("## 📊 统计\n\n")
	b.WriteString("| 项目 | 数量 |\n")
	b.WriteString("|------|------|\n")
	fmt.Fprintf(&b, "| 发现 ZIP 文件 | %d |\n", r.Total())
	fmt.Fprintf(&b, "| 成功解压 | %d |\n", r.Succeeded())
	fmt.Fprintf(&b, "| 失败 | %d |\n", r.Failed())

	b.WriteString("\n## 📁 详细记录\n")

	for _, task := range r.Tasks {
		o := task.Outcome
		fmt.Fprintf(&b, "\n### %s\n", filepath.Base(task.Source))
		fmt.Fprintf(&b, "- 路径: `%s`\n", task.Source)
		fmt.Fprintf(&b, "- 状态: %s\n", statusGlyph(o))

		outputDir := "N/A"
		if o.OutputDir != "" {
			outputDir = o.OutputDir
		}
		fmt.Fprintf(&b, "- 输出目录: `%s`\n", outputDir)

		if o.Success {
			fmt.Fprintf(&b, "- 条目数: %d (%s)\n", o.EntryCount, humanize.Bytes(uint64(o.TotalSize)))
		}
		if len(o.Skipped) > 0 {
			fmt.Fprintf(&b, "- 跳过危险路径: %s\n", strings.Join(quoteAll(o.Skipped), ", "))
		}
		for _, w := range o.Warnings {
			fmt.Fprintf(&b, "- 警告: %s\n", w)
		}
		if !o.Success {
			fmt.Fprintf(&b, "- 错误: %s\n", o.Reason())
		}
	}

	return b.String()
}

// WriteFile 写出报告，已存在则覆盖
func (r *Report) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(r.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func statusGlyph(o Outcome) string {
	if o.Success {
		return "✅ 成功"
	}
	return "❌ 失败"
}

func quoteAll(items []string) []string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return quoted
}
