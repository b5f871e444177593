package api

import (
	"ResearchHub/backend/go/internal/models"
	"ResearchHub/backend/go/internal/research_service/service"
	"ResearchHub/backend/go/internal/research_service/store"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthFunc 是对某个外部依赖的健康检查。
type HealthFunc func(ctx context.Context) error

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
	health  map[string]HealthFunc
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service, health map[string]HealthFunc) *Handler {
	return &Handler{service: s, health: health}
}

// documentSummary 是列表与搜索视图返回的文档形态，省略全文内容。
type documentSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Filename   string                `json:"filename"`
	FileType   string                `json:"file_type"`
	UploadedAt time.Time             `json:"uploaded_at"`
	Tags       []string              `json:"tags"`
	Analysis   models.AnalysisResult `json:"analysis"`
}

func summarize(doc models.Document) documentSummary {
	return documentSummary{
		ID:         doc.ID,
		Title:      doc.Title,
		Filename:   doc.Filename,
		FileType:   doc.FileType,
		UploadedAt: doc.UploadedAt,
		Tags:       doc.Tags,
		Analysis:   doc.Analysis,
	}
}

func summarizeAll(docs []models.Document) []documentSummary {
	out := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, summarize(d))
	}
	return out
}

// --- Upload ---

// uploadResult 描述一次多文件上传中单个文件的结果。
type uploadResult struct {
	Filename string           `json:"filename"`
	DocID    string           `json:"doc_id,omitempty"`
	Analysis *documentSummary `json:"document,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// UploadDocuments 处理多文件上传。每个文件独立并发摄取：
// 各自完成内存更新与持久化，彼此之间没有顺序保证，单个文件失败不影响其余文件。
func (h *Handler) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 multipart 请求"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未提供文件"})
		return
	}

	results := make([]uploadResult, len(files))
	var wg sync.WaitGroup
	for i, fh := range files {
		wg.Add(1)
		go func(i int, fh *multipart.FileHeader) {
			defer wg.Done()
			results[i] = h.ingestOne(c.Request.Context(), fh)
		}(i, fh)
	}
	wg.Wait()

	status := http.StatusCreated
	allFailed := true
	for _, r := range results {
		if r.Error == "" {
			allFailed = false
			break
		}
	}
	if allFailed {
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{"results": results})
}

func (h *Handler) ingestOne(ctx context.Context, fh *multipart.FileHeader) uploadResult {
	res := uploadResult{Filename: fh.Filename}

	if err := h.service.ValidateUpload(fh.Filename, fh.Size); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := fh.Open()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	doc, err := h.service.Ingest(ctx, fh.Filename, data)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	summary := summarize(doc)
	res.DocID = doc.ID
	res.Analysis = &summary
	return res
}

// --- Documents ---

// ListDocuments 返回全部文档（不含全文内容），按上传时间从新到旧排列。
func (h *Handler) ListDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, summarizeAll(h.service.Repository().List()))
}

// GetDocument 返回单篇文档的完整内容，附带其笔记与链接。
// 指向已删除文档的悬空链接在这里被过滤掉，不会出现在响应中。
func (h *Handler) GetDocument(c *gin.Context) {
	repo := h.service.Repository()
	doc, ok := repo.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
		return
	}

	notes := repo.NotesFor(doc.ID)
	if notes == nil {
		notes = []models.Note{}
	}
	links := repo.LinksFor(doc.ID)
	if links == nil {
		links = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"document":    doc,
		"notes":       notes,
		"linked_docs": links,
	})
}

// DeleteDocument 级联删除文档及其笔记、链接和归档文件。
func (h *Handler) DeleteDocument(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文档已删除"})
}

// RegenerateAnalysis 重新生成文档的分析结果并返回更新后的文档。
func (h *Handler) RegenerateAnalysis(c *gin.Context) {
	doc, err := h.service.Regenerate(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc.Analysis)
}

// DownloadFile 返回文档对应的原始上传文件。
func (h *Handler) DownloadFile(c *gin.Context) {
	data, contentType, err := h.service.FetchFile(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// --- Notes / Tags / Links ---

// AddNoteRequest 定义了添加笔记请求的 JSON 结构。
type AddNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// AddNote 为文档添加一条笔记。
func (h *Handler) AddNote(c *gin.Context) {
	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.service.Repository().AddNote(c.Request.Context(), c.Param("id"), req.Note)
	if errors.Is(err, store.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": note.ID, "message": "笔记已添加"})
}

// AddTagRequest 定义了添加标签请求的 JSON 结构。
type AddTagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

// AddTag 为文档添加一个标签；标签已存在时是幂等的无操作。
func (h *Handler) AddTag(c *gin.Context) {
	var req AddTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.service.Repository().AddTag(c.Request.Context(), c.Param("id"), req.Tag)
	if errors.Is(err, store.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !added {
		c.JSON(http.StatusOK, gin.H{"message": "标签已存在"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "标签已添加"})
}

// LinkRequest 定义了文档链接请求的 JSON 结构。
type LinkRequest struct {
	LinkedDocID string `json:"linked_doc_id" binding:"required"`
}

// LinkDocuments 建立从当前文档指向目标文档的有向链接。
func (h *Handler) LinkDocuments(c *gin.Context) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.service.Repository().LinkDocuments(c.Request.Context(), c.Param("id"), req.LinkedDocID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "文档不存在"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !added {
		c.JSON(http.StatusOK, gin.H{"message": "链接已存在"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "文档已链接"})
}

// --- Search / Tags ---

// SearchDocuments 按搜索词与标签过滤文档，两个条件取与。
func (h *Handler) SearchDocuments(c *gin.Context) {
	docs := h.service.Repository().Search(c.Query("q"), c.Query("tag"))
	c.JSON(http.StatusOK, summarizeAll(docs))
}

// GetAllTags 返回所有文档标签去重后的并集。
func (h *Handler) GetAllTags(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Repository().AllTags())
}

// --- Health ---

// Healthz 汇报各外部依赖的健康状况。
func (h *Handler) Healthz(c *gin.Context) {
	status := http.StatusOK
	report := gin.H{}
	for name, check := range h.health {
		if err := check(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			report[name] = err.Error()
			continue
		}
		report[name] = "ok"
	}
	c.JSON(status, report)
}
