package unzip

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ArchiveExt 扫描的压缩包扩展名
const ArchiveExt = ".zip"

// vcsDirs 版本控制元数据目录，其下的压缩包一律不处理
var vcsDirs = map[string]bool{
	".git": true,
	".svn": true,
	".hg":  true,
	".bzr": true,
}

// Scanner 压缩包扫描器
type Scanner struct {
	logger *slog.Logger
}

// NewScanner 创建扫描器，logger 为 nil 时使用 slog.Default()
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Scan 递归查找 root 下的所有 ZIP 文件，按路径排序返回
//
// 跳过版本控制目录和任何以 "." 开头的目录。root 本身不可访问时返回错误，
// 子目录读取失败只记录警告。
func (s *Scanner) Scan(root string) ([]string, error) {
	if root == "" {
		root = "."
	}

	var archives []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("无法访问目录，已跳过", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && IsExcludedDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if !IsArchiveName(d.Name()) || !isRegularFile(path, d) {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && hasExcludedParent(rel) {
			return nil
		}
		archives = append(archives, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(archives)
	return archives, nil
}

// isRegularFile 普通文件，或指向普通文件的符号链接
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsArchiveName 文件名是否带 ZIP 扩展名(不区分大小写)
func IsArchiveName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ArchiveExt)
}

// IsExcludedDir 是否为版本控制目录或隐藏目录
func IsExcludedDir(name string) bool {
	if vcsDirs[name] {
		return true
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// hasExcludedParent 检查相对路径的目录部分(不含文件名)
func hasExcludedParent(rel string) bool {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, part := range parts[:len(parts)-1] {
		if IsExcludedDir(part) {
			return true
		}
	}
	return false
}
