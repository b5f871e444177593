package store

import (
	"ResearchHub/backend/go/internal/kvstore"
	"ResearchHub/backend/go/internal/models"
	"ResearchHub/backend/go/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// 三个集合在键值存储中的固定命名空间前缀。
const (
	docPrefix   = "doc:"
	notesPrefix = "notes:"
	linksPrefix = "links:"
)

// ErrDocumentNotFound 表示操作引用的文档 ID 不在内存集合中。
var ErrDocumentNotFound = errors.New("store: document not found")

// Repository 负责维护内存中的三个集合（文档、按文档分组的笔记、按文档分组的链接）
// 与键值存储中持久化记录之间的一致性。
//
// 一致性契约：每个变更操作都先修改内存、再持久化对应的键，持久化失败只记录日志、
// 不回滚内存（下一次 Load 以存储内容为准）。存储是唯一的持久状态来源，
// Load 完全从存储重建内存，不依赖任何先前的内存状态。
//
// 已知竞态：对同一文档 ID 的两个并发操作（例如重新分析与加标签）之间没有互斥，
// 内存中后应用者胜出，存储中后写入者胜出，两者可能不是同一个操作，导致内存与
// 存储短暂分叉。互斥锁只保护内存阶段，持久化阶段在锁外执行。如需更强保证，
// 应按文档 ID 串行化写入；当前行为刻意保持与观测到的源系统一致。
type Repository struct {
	log *logger.Logger
	kv  kvstore.Store

	mu    sync.RWMutex
	docs  []*models.Document       // 按上传时间升序
	notes map[string][]models.Note // 文档 ID -> 有序笔记列表
	links map[string][]string      // 文档 ID -> 去重后的目标文档 ID 列表
}

// NewRepository 创建一个空的 Repository。
func NewRepository(kv kvstore.Store, log *logger.Logger) *Repository {
	return &Repository{
		log:   log,
		kv:    kv,
		notes: make(map[string][]models.Note),
		links: make(map[string][]string),
	}
}

// Load 完全从键值存储重建内存状态。它是幂等的、只读的，可以安全地重复调用。
// 列举失败被视为"暂无数据"：集合被置空而不是返回错误。单个记录缺失或无法解析
// 时跳过该记录并记录日志，不影响其余记录的加载。
func (r *Repository) Load(ctx context.Context) {
	docs := r.loadDocuments(ctx)
	notes := r.loadNotes(ctx)
	links := r.loadLinks(ctx)

	r.mu.Lock()
	r.docs = docs
	r.notes = notes
	r.links = links
	r.mu.Unlock()

	r.log.WithPayload(map[string]interface{}{
		"documents": len(docs),
		"notes":     len(notes),
		"links":     len(links),
	}).Info("状态已从存储加载")
}

func (r *Repository) loadDocuments(ctx context.Context) []*models.Document {
	keys, err := r.kv.List(ctx, docPrefix)
	if err != nil {
		r.logStoreError("list", docPrefix, err)
		return nil
	}

	var docs []*models.Document
	for _, key := range keys {
		val, err := r.kv.Get(ctx, key)
		if err != nil {
			r.logStoreError("get", key, err)
			continue
		}

		var doc models.Document
		if err := json.Unmarshal([]byte(val), &doc); err != nil {
			r.logStoreError("parse", key, err)
			continue
		}
		// 文档的逻辑 ID 直接来自载荷本身。
		docs = append(docs, &doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})
	return docs
}

func (r *Repository) loadNotes(ctx context.Context) map[string][]models.Note {
	notes := make(map[string][]models.Note)

	keys, err := r.kv.List(ctx, notesPrefix)
	if err != nil {
		r.logStoreError("list", notesPrefix, err)
		return notes
	}

	for _, key := range keys {
		val, err := r.kv.Get(ctx, key)
		if err != nil {
			r.logStoreError("get", key, err)
			continue
		}

		var list []models.Note
		if err := json.Unmarshal([]byte(val), &list); err != nil {
			r.logStoreError("parse", key, err)
			continue
		}
		// 笔记集合的逻辑 ID 通过剥离命名空间前缀得到。
		notes[strings.TrimPrefix(key, notesPrefix)] = list
	}

	return notes
}

func (r *Repository) loadLinks(ctx context.Context) map[string][]string {
	links := make(map[string][]string)

	keys, err := r.kv.List(ctx, linksPrefix)
	if err != nil {
		r.logStoreError("list", linksPrefix, err)
		return links
	}

	for _, key := range keys {
		val, err := r.kv.Get(ctx, key)
		if err != nil {
			r.logStoreError("get", key, err)
			continue
		}

		var list []string
		if err := json.Unmarshal([]byte(val), &list); err != nil {
			r.logStoreError("parse", key, err)
			continue
		}
		links[strings.TrimPrefix(key, linksPrefix)] = list
	}

	return links
}

// AddDocument 将新文档追加到内存列表并持久化其记录。
func (r *Repository) AddDocument(ctx context.Context, doc models.Document) {
	r.mu.Lock()
	d := cloneDocument(&doc)
	r.docs = append(r.docs, d)
	r.mu.Unlock()

	r.persistDocument(ctx, d)
}

// ApplyAnalysis 用新的分析结果替换文档的摘要、关键词、实体与首位主题标签，
// 保留用户在 Tags[1:] 中添加的标签，然后持久化文档记录。
func (r *Repository) ApplyAnalysis(ctx context.Context, docID string, res models.AnalysisResult) (models.Document, error) {
	r.mu.Lock()
	doc := r.findLocked(docID)
	if doc == nil {
		r.mu.Unlock()
		return models.Document{}, ErrDocumentNotFound
	}

	doc.Analysis = res
	if len(doc.Tags) == 0 {
		doc.Tags = []string{res.Topic}
	} else {
		doc.Tags[0] = res.Topic
	}
	snapshot := cloneDocument(doc)
	r.mu.Unlock()

	r.persistDocument(ctx, snapshot)
	return *snapshot, nil
}

// AddNote 为文档追加一条笔记并持久化该文档的笔记集合。
// 笔记正文允许重复；笔记 ID 基于创建时间，在所属文档内唯一。
func (r *Repository) AddNote(ctx context.Context, docID, text string) (models.Note, error) {
	note := models.Note{
		ID:        strconv.FormatInt(time.Now().UnixNano(), 10),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	if r.findLocked(docID) == nil {
		r.mu.Unlock()
		return models.Note{}, ErrDocumentNotFound
	}
	r.notes[docID] = append(r.notes[docID], note)
	snapshot := append([]models.Note(nil), r.notes[docID]...)
	r.mu.Unlock()

	r.persistCollection(ctx, notesPrefix+docID, snapshot)
	return note, nil
}

// AddTag 为文档追加一个标签并持久化文档记录。
// 如果标签已存在则是无副作用的幂等操作，返回 false。
func (r *Repository) AddTag(ctx context.Context, docID, tag string) (bool, error) {
	r.mu.Lock()
	doc := r.findLocked(docID)
	if doc == nil {
		r.mu.Unlock()
		return false, ErrDocumentNotFound
	}
	if doc.HasTag(tag) {
		r.mu.Unlock()
		return false, nil
	}
	doc.Tags = append(doc.Tags, tag)
	snapshot := cloneDocument(doc)
	r.mu.Unlock()

	r.persistDocument(ctx, snapshot)
	return true, nil
}

// LinkDocuments 建立一条从 docID 指向 targetID 的有向链接并持久化链接集合。
// 重复的目标会被去重，返回 false。目标文档是否存在不在写入时校验，
// 悬空链接在读取时被过滤。
func (r *Repository) LinkDocuments(ctx context.Context, docID, targetID string) (bool, error) {
	r.mu.Lock()
	if r.findLocked(docID) == nil {
		r.mu.Unlock()
		return false, ErrDocumentNotFound
	}
	for _, t := range r.links[docID] {
		if t == targetID {
			r.mu.Unlock()
			return false, nil
		}
	}
	r.links[docID] = append(r.links[docID], targetID)
	snapshot := append([]string(nil), r.links[docID]...)
	r.mu.Unlock()

	r.persistCollection(ctx, linksPrefix+docID, snapshot)
	return true, nil
}

// DeleteDocument 从内存中移除文档及其笔记和链接，然后逐个删除三条持久化记录。
// 三个删除不构成原子单元：中途失败会留下孤儿记录，它们在下一次 Load 时仍会被
// 加载进映射，但因为没有对应的文档而处于惰性状态，不会被任何读取路径暴露。
func (r *Repository) DeleteDocument(ctx context.Context, docID string) error {
	r.mu.Lock()
	idx := -1
	for i, d := range r.docs {
		if d.ID == docID {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return ErrDocumentNotFound
	}
	r.docs = append(r.docs[:idx], r.docs[idx+1:]...)
	delete(r.notes, docID)
	delete(r.links, docID)
	r.mu.Unlock()

	for _, key := range []string{docPrefix + docID, notesPrefix + docID, linksPrefix + docID} {
		if err := r.kv.Delete(ctx, key); err != nil {
			r.logStoreError("delete", key, err)
		}
	}
	return nil
}

// Get 返回指定 ID 的文档副本。
func (r *Repository) Get(docID string) (models.Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := r.findLocked(docID)
	if doc == nil {
		return models.Document{}, false
	}
	return *cloneDocument(doc), true
}

// List 返回全部文档的副本，按上传时间从新到旧排列。
func (r *Repository) List() []models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Document, 0, len(r.docs))
	for i := len(r.docs) - 1; i >= 0; i-- {
		out = append(out, *cloneDocument(r.docs[i]))
	}
	return out
}

// NotesFor 返回文档的有序笔记列表副本。
func (r *Repository) NotesFor(docID string) []models.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Note(nil), r.notes[docID]...)
}

// LinksFor 返回文档的链接目标列表，悬空目标（指向已不存在的文档）被过滤掉。
func (r *Repository) LinksFor(docID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, target := range r.links[docID] {
		if r.findLocked(target) != nil {
			out = append(out, target)
		}
	}
	return out
}

// Search 在当前内存状态上同步地做纯查询，不维护任何增量索引。
// 文档匹配搜索词的条件是词（大小写不敏感的子串）出现在标题、摘要或任一关键词中；
// 匹配标签过滤的条件是过滤为空或文档拥有该标签。两个谓词取与。
// 结果按上传时间从新到旧排列。
func (r *Repository) Search(term, tag string) []models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(term)
	var out []models.Document
	for i := len(r.docs) - 1; i >= 0; i-- {
		doc := r.docs[i]
		if tag != "" && !doc.HasTag(tag) {
			continue
		}
		if needle != "" && !matchesTerm(doc, needle) {
			continue
		}
		out = append(out, *cloneDocument(doc))
	}
	return out
}

// AllTags 返回当前所有文档标签去重后的并集，按字典序排列。
// 标签全集从当前状态重新计算，不单独持久化。
func (r *Repository) AllTags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var tags []string
	for _, doc := range r.docs {
		for _, t := range doc.Tags {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// findLocked 在持有锁的前提下按 ID 查找文档。
func (r *Repository) findLocked(docID string) *models.Document {
	for _, d := range r.docs {
		if d.ID == docID {
			return d
		}
	}
	return nil
}

// persistDocument 将文档记录写入存储。失败只记录日志，内存不回滚。
func (r *Repository) persistDocument(ctx context.Context, doc *models.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		r.logStoreError("marshal", docPrefix+doc.ID, err)
		return
	}
	if err := r.kv.Set(ctx, docPrefix+doc.ID, string(data)); err != nil {
		r.logStoreError("set", docPrefix+doc.ID, err)
	}
}

// persistCollection 将笔记或链接集合整体替换写入对应的键。
func (r *Repository) persistCollection(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logStoreError("marshal", key, err)
		return
	}
	if err := r.kv.Set(ctx, key, string(data)); err != nil {
		r.logStoreError("set", key, err)
	}
}

func (r *Repository) logStoreError(op, key string, err error) {
	r.log.WithError(models.ErrorInfo{
		Message: err.Error(),
		Type:    "store_error",
	}).WithPayload(map[string]interface{}{
		"op":  op,
		"key": key,
	}).Warn("存储操作失败，已跳过")
}

func matchesTerm(doc *models.Document, needle string) bool {
	if strings.Contains(strings.ToLower(doc.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Analysis.Summary), needle) {
		return true
	}
	for _, kw := range doc.Analysis.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}

// cloneDocument 深拷贝文档，避免调用方与内部状态共享切片。
func cloneDocument(doc *models.Document) *models.Document {
	out := *doc
	out.Tags = append([]string(nil), doc.Tags...)
	out.Analysis.Keywords = append([]string(nil), doc.Analysis.Keywords...)
	out.Analysis.Entities = append([]string(nil), doc.Analysis.Entities...)
	return &out
}
