package unzip

import (
	"errors"
	"fmt"
	"io"
	"strings"

	encryptedzip "github.com/yeka/zip"
)

// passwordManager 为加密条目依次尝试密码
type passwordManager struct {
	passwords []string
	// 最近一次成功的密码排在最前，同一个包里的条目通常共用密码
	last string
}

// newPasswordManager 创建密码管理器，空密码总是第一个尝试
func newPasswordManager(userPasswords []string) *passwordManager {
	return &passwordManager{
		passwords: buildPasswordList(userPasswords),
	}
}

// buildPasswordList 构建完整的密码尝试列表
func buildPasswordList(userPasswords []string) []string {
	passwords := append([]string{""}, userPasswords...)
	return RemoveDuplicateStrings(passwords)
}

// candidates 本次尝试的顺序
func (pm *passwordManager) candidates() []string {
	if pm.last == "" {
		return pm.passwords
	}
	return RemoveDuplicateStrings(append([]string{pm.last}, pm.passwords...))
}

// extract 用候选密码逐个尝试解密 file，write 每次都会从头写目标文件
//
// 只有读取侧(解密/解压/校验)的错误会换下一个密码，写入侧错误直接返回。
func (pm *passwordManager) extract(file *encryptedzip.File, write func(io.Reader) (int64, error)) (int64, error) {
	var failures []error
	for _, password := range pm.candidates() {
		file.SetPassword(password)

		src, err := file.Open()
		if err != nil {
			failures = append(failures, err)
			continue
		}
		reader := &sourceReader{r: src}
		n, err := write(reader)
		src.Close()
		if err == nil {
			pm.last = password
			return n, nil
		}
		if reader.err == nil {
			return n, err
		}
		failures = append(failures, reader.err)
	}

	return 0, classifyPasswordFailures(failures, file.Name)
}

// classifyPasswordFailures 所有密码都失败后判断错误类型
//
// ZipCrypto 用错密码不会在 Open 时报错，只会读出乱码(解压失败或校验和错误)，
// 这类错误和 AES 的认证失败一样都算作密码问题。与密码无关的错误(不支持的
// 压缩算法、条目头损坏、数据被截断)出现过就按普通 ZIP 错误分类。
func classifyPasswordFailures(failures []error, name string) *ExtractError {
	if len(failures) == 0 {
		return NewExtractError(ErrPasswordRequired, "没有可尝试的密码", name, nil)
	}

	for _, err := range failures {
		if isPasswordIndependent(err) {
			return classifyZipError(err, name)
		}
	}

	return NewExtractError(ErrPasswordRequired,
		fmt.Sprintf("尝试了 %d 个密码都无法解密", len(failures)), name, failures[len(failures)-1])
}

// isPasswordIndependent 换什么密码都不会变的读取错误
func isPasswordIndependent(err error) bool {
	return errors.Is(err, encryptedzip.ErrAlgorithm) ||
		errors.Is(err, encryptedzip.ErrFormat) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// isPasswordError 检查是否为密码错误
func isPasswordError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, encryptedzip.ErrPassword) ||
		errors.Is(err, encryptedzip.ErrAuthentication) ||
		errors.Is(err, encryptedzip.ErrDecryption) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, keyword := range []string{"password", "decrypt", "authentication", "encrypted"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// sourceReader 记录读取侧的错误，用来区分坏数据/错密码与写盘失败
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}

// RemoveDuplicateStrings 去除字符串切片中的重复项，保持原有顺序
func RemoveDuplicateStrings(slice []string) []string {
	seen := make(map[string]bool)
	result := []string{}

	for _, item := range slice {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}
