package unzip

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// 环境变量
const (
	EnvDeleteAfter = "DELETE_AFTER"
	EnvPasswords   = "UNZIP_PASSWORDS"
	EnvDebug       = "AUTOUNZIP_DEBUG"
)

// DefaultReportPath 报告文件(相对于工作目录)
const DefaultReportPath = "UNZIP_REPORT.md"

// Config 一次运行的配置，启动时解析一次后传给各组件
type Config struct {
	Root        string   // 扫描根目录
	ReportPath  string   // 报告输出路径
	DeleteAfter bool     // 解压成功后删除原压缩包
	Passwords   []string // 加密条目尝试的密码
	Debug       bool     // 输出逐条目的调试日志
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Root:        ".",
		ReportPath:  DefaultReportPath,
		DeleteAfter: true,
	}
}

// LoadConfig 读取工作目录下的 .env(如果有)和环境变量
//
// 已存在的环境变量优先于 .env 中的同名项。
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return ConfigFromEnv(), nil
}

// ConfigFromEnv 只从当前环境变量构建配置
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.DeleteAfter = parseBool(EnvDeleteAfter, true)
	cfg.Debug = parseBool(EnvDebug, false)
	if v, ok := os.LookupEnv(EnvPasswords); ok {
		cfg.Passwords = splitPasswords(v)
	}
	return cfg
}

// parseBool 未设置时返回默认值，设置了则只有(不区分大小写的) "true" 为真
func parseBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

func splitPasswords(v string) []string {
	var passwords []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			passwords = append(passwords, p)
		}
	}
	return passwords
}
