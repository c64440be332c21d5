package unzip

// Extract 解压单个压缩包 - 最简单的入口
//
// 参数:
//   archivePath: 压缩包路径
//   options: 解压选项(为 nil 时解压后删除原文件，与 DELETE_AFTER 的默认值一致)
//
// 功能:
//   - 解压到压缩包同目录下的同名文件夹，已存在时追加 _1、_2 ……
//   - 跳过会写到输出目录之外的条目(zip slip)
//   - 错误不会以 error 返回，而是记录在 Outcome 中
func Extract(archivePath string, options *ExtractorOptions) Outcome {
	if options == nil {
		options = &ExtractorOptions{DeleteAfter: true}
	}
	return NewZipExtractor(*options).Extract(archivePath)
}

// Scan 查找 root 下的所有 ZIP 文件(排除版本控制目录和隐藏目录)
func Scan(root string) ([]string, error) {
	return NewScanner(nil).Scan(root)
}
