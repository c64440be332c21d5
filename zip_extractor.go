package unzip

import (
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	encryptedzip "github.com/yeka/zip"
)

// ExtractorOptions 解压器选项
type ExtractorOptions struct {
	DeleteAfter bool             // 解压成功后删除原压缩包
	Passwords   []string         // 加密条目尝试的密码(空密码总会先试)
	Logger      *slog.Logger     // 为 nil 时使用 slog.Default()
	Progress    ProgressCallback // 每写出一个条目回调一次
}

// ZipExtractor 把 ZIP 解压到压缩包旁边的同名目录
type ZipExtractor struct {
	deleteAfter     bool
	passwords       []string
	logger          *slog.Logger
	progress        ProgressCallback
	encodingHandler EncodingHandler
}

// NewZipExtractor 创建新的ZIP解压器
func NewZipExtractor(opts ExtractorOptions) *ZipExtractor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ZipExtractor{
		deleteAfter:     opts.DeleteAfter,
		passwords:       opts.Passwords,
		logger:          logger,
		progress:        opts.Progress,
		encodingHandler: NewEncodingHandler(),
	}
}

// Extract 解压单个压缩包，所有错误都转换为 Outcome 返回
func (e *ZipExtractor) Extract(archivePath string) Outcome {
	startTime := time.Now()
	outcome := e.extract(archivePath)
	outcome.Duration = time.Since(startTime)

	if !outcome.Success {
		e.logger.Error("解压失败", "archive", archivePath, "reason", outcome.Reason())
	}
	return outcome
}

func (e *ZipExtractor) extract(archivePath string) Outcome {
	var outcome Outcome

	if _, err := os.Stat(archivePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			outcome.Err = NewExtractError(ErrArchiveNotFound, "文件不存在", archivePath, err)
		} else {
			outcome.Err = classifyIOError(err, "无法读取压缩包", archivePath)
		}
		return outcome
	}

	outputDir, err := ResolveCollision(DefaultOutputDir(archivePath))
	if err != nil {
		outcome.Err = classifyIOError(err, "无法确定输出目录", archivePath)
		return outcome
	}

	e.logger.Info("正在解压", "archive", archivePath, "output", outputDir)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		outcome.Err = classifyIOError(err, "无法创建输出目录", outputDir)
		return outcome
	}
	outcome.OutputDir = outputDir

	if err := e.extractEntries(archivePath, outputDir, &outcome); err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Success = true
	e.logger.Info("解压成功", "archive", archivePath, "entries", outcome.EntryCount, "skipped", len(outcome.Skipped))

	if e.deleteAfter {
		if err := os.Remove(archivePath); err != nil {
			e.logger.Warn("无法删除原文件", "archive", archivePath, "error", err)
			outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("无法删除原文件: %v", err))
		} else {
			e.logger.Info("已删除原文件", "archive", archivePath)
		}
	} else {
		e.logger.Info("保留原文件", "archive", archivePath)
	}

	return outcome
}

// extractEntries 逐个条目检查路径并写出，不安全的条目跳过
func (e *ZipExtractor) extractEntries(archivePath, outputDir string, outcome *Outcome) *ExtractError {
	reader, err := encryptedzip.OpenReader(archivePath)
	if err != nil {
		return classifyZipError(err, archivePath)
	}
	defer reader.Close()

	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return classifyIOError(err, "无法解析输出目录", outputDir)
	}

	progress := newEntryProgress(e.progress, len(reader.File))
	passwords := newPasswordManager(e.passwords)
	// 同一个包里的文件名编码只记录一次
	encodings := make(map[string]int)
	var encodingOrder []string

	for _, file := range reader.File {
		name, detected := e.encodingHandler.DecodeEntryName(file.Name)
		if detected != "UTF-8" {
			if encodings[detected] == 0 {
				encodingOrder = append(encodingOrder, detected)
			}
			encodings[detected]++
		}

		targetPath, err := SafeJoin(outputDir, name)
		if err != nil {
			e.logger.Warn("跳过危险路径", "archive", archivePath, "entry", name)
			outcome.Skipped = append(outcome.Skipped, name)
			continue
		}

		// "."、"a/.." 这类文件条目指向输出目录本身，无处可写
		if !file.FileInfo().IsDir() && targetPath == absOutputDir {
			e.logger.Warn("跳过指向输出目录本身的条目", "archive", archivePath, "entry", name)
			outcome.Skipped = append(outcome.Skipped, name)
			continue
		}

		written, extractErr := e.extractFile(file, targetPath, passwords)
		if extractErr != nil {
			return extractErr
		}

		outcome.TotalSize += written
		progress.Advance(name)
	}

	for _, label := range encodingOrder {
		outcome.Warnings = append(outcome.Warnings,
			fmt.Sprintf("文件名编码检测: %d 个条目按 %s 解码", encodings[label], label))
	}

	outcome.EntryCount = progress.Done()
	return nil
}

// extractFile 写出单个条目
func (e *ZipExtractor) extractFile(file *encryptedzip.File, targetPath string, passwords *passwordManager) (int64, *ExtractError) {
	info := file.FileInfo()

	if info.IsDir() {
		if err := os.MkdirAll(targetPath, dirPerm(info.Mode())); err != nil {
			return 0, classifyIOError(err, "无法创建目录", targetPath)
		}
		return 0, nil
	}

	parentDir := filepath.Dir(targetPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		return 0, classifyIOError(err, "无法创建父目录", parentDir)
	}

	// 符号链接条目按普通文件写出(内容为链接目标)，不在磁盘上创建链接
	perm := filePerm(info.Mode())
	write := func(src io.Reader) (int64, error) {
		return writeFile(targetPath, perm, src)
	}

	var (
		written int64
		err     error
	)
	if file.IsEncrypted() {
		written, err = passwords.extract(file, write)
	} else {
		written, err = e.extractPlain(file, write)
	}
	if err != nil {
		var extractErr *ExtractError
		if errors.As(err, &extractErr) {
			return 0, extractErr
		}
		return 0, classifyIOError(err, "文件写出失败", targetPath)
	}

	modTime := info.ModTime()
	// 时间设置失败不是致命错误
	_ = os.Chtimes(targetPath, modTime, modTime)

	return written, nil
}

// extractPlain 解压未加密条目
func (e *ZipExtractor) extractPlain(file *encryptedzip.File, write func(io.Reader) (int64, error)) (int64, error) {
	src, err := file.Open()
	if err != nil {
		return 0, classifyZipError(err, file.Name)
	}
	defer src.Close()

	reader := &sourceReader{r: src}
	written, err := write(reader)
	if err != nil && reader.err != nil {
		return 0, classifyZipError(reader.err, file.Name)
	}
	return written, err
}

// writeFile 把 src 写入 path，失败时删除已写出的部分
func writeFile(path string, perm os.FileMode, src io.Reader) (written int64, err error) {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := dst.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return io.Copy(dst, src)
}

func filePerm(mode os.FileMode) os.FileMode {
	perm := mode.Perm()
	if perm == 0 {
		return 0644
	}
	return perm | 0600
}

func dirPerm(mode os.FileMode) os.FileMode {
	perm := mode.Perm()
	if perm == 0 {
		return 0755
	}
	return perm | 0700
}

// classifyZipError 处理ZIP读取相关错误
func classifyZipError(err error, path string) *ExtractError {
	var corrupt flate.CorruptInputError
	switch {
	case errors.Is(err, encryptedzip.ErrFormat):
		return NewExtractError(ErrCorruptedArchive, "不是有效的ZIP文件", path, err)
	case errors.Is(err, encryptedzip.ErrChecksum):
		return NewExtractError(ErrCorruptedArchive, "ZIP文件校验和错误", path, err)
	case errors.Is(err, encryptedzip.ErrAlgorithm):
		return NewExtractError(ErrCorruptedArchive, "不支持的压缩算法", path, err)
	case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &corrupt):
		return NewExtractError(ErrCorruptedArchive, "ZIP数据不完整", path, err)
	case isPasswordError(err):
		return NewExtractError(ErrPasswordRequired, "ZIP文件需要密码", path, err)
	}
	return classifyIOError(err, "ZIP解压失败", path)
}

// classifyIOError 把文件系统错误映射为错误类型
func classifyIOError(err error, message, path string) *ExtractError {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return NewExtractError(ErrPermissionDenied, message, path, err)
	case errors.Is(err, syscall.ENOSPC):
		return NewExtractError(ErrDiskFull, message, path, err)
	}
	return NewExtractError(ErrInternalError, message, path, err)
}
