package models

import "time"

// AnalysisResult 定义了外部分析服务对一篇文档的结构化分析结果。
// 它被嵌入到 Document 中，可以在不改变文档 ID 的情况下重新生成。
type AnalysisResult struct {
	Summary  string   `json:"summary"`  // 文档的简短摘要 (2-3 句话)
	Keywords []string `json:"keywords"` // 关键词列表 (有序，渲染时取前 5 个)
	Entities []string `json:"entities"` // 命名实体列表 (人名、机构等)
	Topic    string   `json:"topic"`    // 主题分类 (单个字符串)
}

// FallbackResult 返回分析服务不可用时使用的固定降级结果。
// 摄取和重新分析永远不会因为分析失败而失败，而是使用这个结果继续。
func FallbackResult() AnalysisResult {
	return AnalysisResult{
		Summary:  "Analysis unavailable",
		Keywords: []string{},
		Entities: []string{},
		Topic:    "General",
	}
}

// Document 表示一篇用户上传的研究文档及其 AI 分析结果。
//
// 不变量: 分析完成后 Tags 永远非空，且 Tags[0] 始终是分析得出的主题分类；
// 用户添加的标签保留在 Tags[1:] 中，同一个标签值不会被重复插入。
type Document struct {
	ID         string         `json:"id"`          // 唯一标识，创建时生成 (时间戳 + 随机后缀)
	Title      string         `json:"title"`       // 标题，来自去掉扩展名的文件名
	Filename   string         `json:"filename"`    // 原始上传文件名
	Content    string         `json:"content"`     // 提取出的纯文本内容
	FileType   string         `json:"file_type"`   // 来源文件类型 (扩展名，小写，不含点)
	UploadedAt time.Time      `json:"uploaded_at"` // 上传时间
	Tags       []string       `json:"tags"`        // 有序标签列表，首位是主题分类
	Analysis   AnalysisResult `json:"analysis"`    // 嵌入的分析结果
}

// HasTag 判断文档是否已经拥有指定标签。
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Note 表示用户在某篇文档上撰写的笔记。
// 笔记归属于唯一的一篇文档，生命周期与该文档绑定：删除文档时其所有笔记一并删除。
type Note struct {
	ID        string    `json:"id"`         // 在所属文档内唯一，基于创建时间生成
	Text      string    `json:"text"`       // 笔记正文，允许与其他笔记重复
	CreatedAt time.Time `json:"created_at"` // 创建时间
}
