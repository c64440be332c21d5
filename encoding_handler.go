package unzip

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// EncodingHandler 条目文件名编码处理器
type EncodingHandler interface {
	// DecodeEntryName 把压缩包内的原始文件名转换为 UTF-8，返回名称和识别出的编码
	DecodeEntryName(name string) (string, string)
}

// defaultEncodingHandler 默认实现：UTF-8 原样返回，其余用 chardet 检测
type defaultEncodingHandler struct {
	minConfidence int
}

// NewEncodingHandler 创建新的编码处理器
func NewEncodingHandler() EncodingHandler {
	return &defaultEncodingHandler{minConfidence: 70}
}

// DecodeEntryName 解码文件名
//
// 非 UTF-8 名称常见于 Windows 中文系统打出的包，先按常见的东亚编码逐个尝试，
// 再交给 chardet 检测，都不行时按 ZIP 规范的默认编码 CP437 解码。
func (h *defaultEncodingHandler) DecodeEntryName(name string) (string, string) {
	if utf8.ValidString(name) {
		return name, "UTF-8"
	}

	raw := []byte(name)
	for _, label := range priorityEncodings {
		_, enc := lookupEncoding(label)
		if decoded, err := enc.NewDecoder().Bytes(raw); err == nil && isReasonableName(string(decoded)) {
			return string(decoded), label
		}
	}

	detector := chardet.NewTextDetector()
	if result, err := detector.DetectBest(raw); err == nil && result.Confidence > h.minConfidence {
		if label, enc := lookupEncoding(result.Charset); enc != nil {
			if decoded, err := enc.NewDecoder().Bytes(raw); err == nil && isReasonableName(string(decoded)) {
				return string(decoded), label
			}
		}
	}

	decoded, err := charmap.CodePage437.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(name, "_"), "CLEANED"
	}
	return string(decoded), "CP437"
}

// priorityEncodings 优先尝试的编码(中文压缩包最常见的排在前面)
var priorityEncodings = []string{"GBK", "BIG5", "SHIFT_JIS", "EUC-KR"}

// lookupEncoding 把 chardet 的字符集名映射为解码器
func lookupEncoding(charset string) (string, encoding.Encoding) {
	switch strings.ToUpper(charset) {
	case "GB2312", "GBK", "GB18030":
		return "GBK", simplifiedchinese.GB18030
	case "BIG5":
		return "BIG5", traditionalchinese.Big5
	case "SHIFT_JIS", "SJIS":
		return "SHIFT_JIS", japanese.ShiftJIS
	case "EUC-JP":
		return "EUC-JP", japanese.EUCJP
	case "EUC-KR":
		return "EUC-KR", korean.EUCKR
	case "ISO-8859-1":
		return "ISO-8859-1", charmap.ISO8859_1
	case "WINDOWS-1252":
		return "WINDOWS-1252", charmap.Windows1252
	}
	return "", nil
}

// isReasonableName 解码结果不含替换字符和控制字符
func isReasonableName(name string) bool {
	if !utf8.ValidString(name) {
		return false
	}
	for _, r := range name {
		if r == utf8.RuneError || (r < 32 && r != '\t') {
			return false
		}
	}
	return true
}
