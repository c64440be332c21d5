package unzip

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"
)

// IsSafe 判断条目解压到 outputRoot 后是否仍位于 outputRoot 之内
//
// 对根目录与目标路径都先取绝对路径并解析符号链接，再比较包含关系。
// 含 ".." 越界、绝对路径、或经由已存在的符号链接指向外部的条目都视为不安全。
func IsSafe(outputRoot, entryName string) bool {
	_, err := SafeJoin(outputRoot, entryName)
	return err == nil
}

// SafeJoin 安全地连接路径，返回条目在 outputRoot 下的目标路径
func SafeJoin(outputRoot, entryName string) (string, error) {
	if entryName == "" {
		return "", NewExtractError(ErrPathTraversal, "条目路径为空", entryName, nil)
	}

	// ZIP 内部统一使用 "/"，Windows 打包工具偶尔写入 "\\"
	name := filepath.FromSlash(strings.ReplaceAll(entryName, `\`, "/"))
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" || strings.HasPrefix(name, string(filepath.Separator)) {
		return "", NewExtractError(ErrPathTraversal, "不允许绝对路径", entryName, nil)
	}

	absRoot, err := filepath.Abs(outputRoot)
	if err != nil {
		return "", NewExtractError(ErrPathTraversal, "无法解析基础目录", outputRoot, err)
	}
	resolvedRoot, err := resolveExisting(absRoot)
	if err != nil {
		return "", NewExtractError(ErrPathTraversal, "无法解析基础目录", outputRoot, err)
	}

	target := filepath.Join(absRoot, name)
	resolvedTarget, err := resolveExisting(target)
	if err != nil {
		return "", NewExtractError(ErrPathTraversal, "无法解析目标路径", entryName, err)
	}

	if !within(resolvedRoot, resolvedTarget) {
		return "", NewExtractError(ErrPathTraversal, "目标路径超出基础目录范围", entryName, nil)
	}
	return target, nil
}

// within 判断 path 是否等于 root 或位于其下
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// resolveExisting 解析路径中已存在部分的符号链接，不存在的尾部原样拼回
func resolveExisting(path string) (string, error) {
	path = filepath.Clean(path)
	var rest []string
	current := path
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			for i := len(rest) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, rest[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !isNotDir(err) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			// 一路到根都不存在
			return path, nil
		}
		rest = append(rest, filepath.Base(current))
		current = parent
	}
}

// isNotDir 路径中间某段是普通文件
func isNotDir(err error) bool {
	return errors.Is(err, syscall.ENOTDIR)
}
