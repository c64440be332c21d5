package unzip

// ProgressCallback 解压进度回调函数
// current: 已写出的条目数, total: 压缩包条目总数, filename: 刚写出的条目名
type ProgressCallback func(current, total int64, filename string)

// entryProgress 按条目计数的进度，回调为 nil 时只计数
type entryProgress struct {
	callback ProgressCallback
	total    int64
	done     int64
}

func newEntryProgress(callback ProgressCallback, total int) *entryProgress {
	return &entryProgress{callback: callback, total: int64(total)}
}

// Advance 记录一个条目写出完成
func (p *entryProgress) Advance(filename string) {
	p.done++
	if p.callback != nil {
		p.callback(p.done, p.total, filename)
	}
}

// Done 已写出的条目数
func (p *entryProgress) Done() int {
	return int(p.done)
}
