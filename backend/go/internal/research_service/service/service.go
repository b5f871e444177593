package service

import (
	"ResearchHub/backend/go/internal/analysis"
	"ResearchHub/backend/go/internal/config"
	"ResearchHub/backend/go/internal/models"
	"ResearchHub/backend/go/internal/research_service/extract"
	"ResearchHub/backend/go/internal/research_service/store"
	"ResearchHub/backend/go/pkg/circuitbreaker"
	"ResearchHub/backend/go/pkg/logger"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gobwas/glob"
	"github.com/google/uuid"
)

// 分析服务默认的单次调用超时。
const defaultAnalysisTimeout = 60 * time.Second

// 上传文件默认的最大体积。
const defaultMaxUploadMB = 16

// 默认允许上传的文件名模式。
var defaultAllowedPatterns = []string{"*.txt", "*.md", "*.pdf", "*.html", "*.xlsx"}

// Service 负责编排文档的摄取流程：校验上传、提取文本、调用分析服务、
// 构造文档并交给 Repository，另外将原始文件字节归档到对象存储。
type Service struct {
	log       *logger.Logger
	repo      *store.Repository
	analyzer  analysis.Analyzer
	extractor *extract.Registry
	archive   Archive // 可以为 nil，表示不归档原始文件
	breaker   *circuitbreaker.CircuitBreaker
	timeout   time.Duration
	maxSize   int64
	allowed   []glob.Glob
}

// NewService 创建一个 Service 实例。
// analyzer 可以为 nil，此时所有文档都会得到固定的降级分析结果。
func NewService(repo *store.Repository, analyzer analysis.Analyzer, archive Archive, cfg config.UploadConfig, timeoutSeconds int, log *logger.Logger) *Service {
	timeout := defaultAnalysisTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}

	maxMB := cfg.MaxSizeMB
	if maxMB <= 0 {
		maxMB = defaultMaxUploadMB
	}

	patterns := cfg.AllowedPatterns
	if len(patterns) == 0 {
		patterns = defaultAllowedPatterns
	}
	var allowed []glob.Glob
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			log.WithPayload(map[string]interface{}{"pattern": p}).Warn("忽略无法编译的上传模式")
			continue
		}
		allowed = append(allowed, g)
	}

	return &Service{
		log:       log,
		repo:      repo,
		analyzer:  analyzer,
		extractor: extract.NewRegistry(),
		archive:   archive,
		// 连续 3 次分析失败后熔断 30 秒，期间直接使用降级结果，避免反复等待超时。
		breaker: circuitbreaker.New(3, 1, 30*time.Second),
		timeout: timeout,
		maxSize: int64(maxMB) * 1024 * 1024,
		allowed: allowed,
	}
}

// Repository 返回底层的 Repository，查询类接口直接使用它。
func (s *Service) Repository() *store.Repository {
	return s.repo
}

// ValidateUpload 校验文件名与体积是否允许上传。
func (s *Service) ValidateUpload(filename string, size int64) error {
	if size > s.maxSize {
		return fmt.Errorf("文件 %s 超过大小限制 (%d MB)", filename, s.maxSize/(1024*1024))
	}

	name := strings.ToLower(filepath.Base(filename))
	for _, g := range s.allowed {
		if g.Match(name) {
			return nil
		}
	}
	return fmt.Errorf("不支持的文件类型: %s", filename)
}

// Ingest 完成一个文件的完整摄取：提取文本、分析、构造文档、入库、归档。
// 分析失败不会让摄取失败（使用降级结果），只有文本提取失败才返回错误。
// 多个文件的摄取可以并发进行，彼此之间没有顺序保证。
func (s *Service) Ingest(ctx context.Context, filename string, data []byte) (models.Document, error) {
	text, err := s.extractor.Extract(ctx, filename, data)
	if err != nil {
		return models.Document{}, fmt.Errorf("无法从 %s 提取文本: %w", filename, err)
	}

	base := filepath.Base(filename)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(base)), ".")
	title := strings.TrimSuffix(base, filepath.Ext(base))

	result := s.analyze(ctx, title, text)

	doc := models.Document{
		ID:         newDocumentID(),
		Title:      title,
		Filename:   base,
		Content:    text,
		FileType:   ext,
		UploadedAt: time.Now().UTC(),
		Tags:       []string{result.Topic}, // 首位标签始终是分析得出的主题
		Analysis:   result,
	}

	s.repo.AddDocument(ctx, doc)
	s.archivePut(ctx, doc.ID, data)

	return doc, nil
}

// Regenerate 为已有文档重新生成分析结果。
// 摘要、关键词、实体和首位主题标签被替换，用户添加的标签保持不变。
func (s *Service) Regenerate(ctx context.Context, docID string) (models.Document, error) {
	doc, ok := s.repo.Get(docID)
	if !ok {
		return models.Document{}, store.ErrDocumentNotFound
	}

	result := s.analyze(ctx, doc.Title, doc.Content)
	return s.repo.ApplyAnalysis(ctx, docID, result)
}

// Delete 级联删除文档：内存、三条持久化记录以及归档的原始文件。
func (s *Service) Delete(ctx context.Context, docID string) error {
	if err := s.repo.DeleteDocument(ctx, docID); err != nil {
		return err
	}

	if s.archive != nil {
		if err := s.archive.Remove(ctx, docID); err != nil {
			// 归档清理是尽力而为的，失败不影响删除结果。
			s.log.WithError(models.ErrorInfo{Message: err.Error(), Type: "archive_error"}).Warn("归档对象删除失败")
		}
	}
	return nil
}

// FetchFile 取回文档对应的原始上传文件。
func (s *Service) FetchFile(ctx context.Context, docID string) ([]byte, string, error) {
	if _, ok := s.repo.Get(docID); !ok {
		return nil, "", store.ErrDocumentNotFound
	}
	if s.archive == nil {
		return nil, "", fmt.Errorf("原始文件归档未启用")
	}
	return s.archive.Fetch(ctx, docID)
}

// analyze 在超时与熔断保护下调用分析服务。
// 任何失败（传输错误、响应无法解析、熔断打开、未配置分析器）都降级为固定结果，
// 摄取和重新分析因此永远不会因为分析失败而对用户报错。
func (s *Service) analyze(ctx context.Context, title, text string) models.AnalysisResult {
	if s.analyzer == nil {
		return models.FallbackResult()
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var result models.AnalysisResult
	err := s.breaker.Execute(func() error {
		var callErr error
		result, callErr = s.analyzer.Analyze(callCtx, title, text)
		return callErr
	})
	if err != nil {
		s.log.WithError(models.ErrorInfo{Message: err.Error(), Type: "analysis_error"}).
			WithPayload(map[string]interface{}{"title": title}).
			Warn("分析服务调用失败，使用降级结果")
		return models.FallbackResult()
	}
	return result
}

// archivePut 归档原始文件字节，失败只记录日志。
func (s *Service) archivePut(ctx context.Context, docID string, data []byte) {
	if s.archive == nil {
		return
	}
	contentType := mimetype.Detect(data).String()
	if err := s.archive.Put(ctx, docID, contentType, data); err != nil {
		s.log.WithError(models.ErrorInfo{Message: err.Error(), Type: "archive_error"}).
			WithPayload(map[string]interface{}{"doc_id": docID}).
			Warn("原始文件归档失败")
	}
}

// newDocumentID 生成文档唯一标识：毫秒时间戳加随机后缀，避免并发上传时撞号。
func newDocumentID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
