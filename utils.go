package unzip

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ResolveCollision 返回一个当前不存在的目录路径
//
// desired 不存在时原样返回，否则依次尝试 desired_1、desired_2 ……
// 直到找到未被占用的路径。只检查是否存在，不创建任何东西。
// 计数没有上限，大量同名目录时会逐个探测。
func ResolveCollision(desired string) (string, error) {
	exists, err := pathExists(desired)
	if err != nil {
		return "", err
	}
	if !exists {
		return desired, nil
	}

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", desired, i)
		exists, err := pathExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// pathExists 检查路径是否存在(不跟随符号链接)
func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// DefaultOutputDir 压缩包同目录下以压缩包名(去掉扩展名)命名的目录
func DefaultOutputDir(archivePath string) string {
	dir := filepath.Dir(archivePath)
	base := filepath.Base(archivePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		// ".zip" 这种只有扩展名的文件
		name = base
	}
	return filepath.Join(dir, name)
}
