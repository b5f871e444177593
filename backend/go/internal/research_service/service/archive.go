package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// Archive 抽象了原始上传文件的归档存储。
// 归档只保存用户上传的原始字节，文档的逻辑状态完全独立于它。
type Archive interface {
	Put(ctx context.Context, objectName, contentType string, data []byte) error
	Fetch(ctx context.Context, objectName string) ([]byte, string, error)
	Remove(ctx context.Context, objectName string) error
}

// MinioArchive 是 Archive 的 MinIO 实现，对象名即文档 ID。
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive 创建一个基于 MinIO 的归档。
func NewMinioArchive(client *minio.Client, bucket string) *MinioArchive {
	return &MinioArchive{client: client, bucket: bucket}
}

// Put 上传原始文件字节。
func (a *MinioArchive) Put(ctx context.Context, objectName, contentType string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("无法归档对象 %s: %w", objectName, err)
	}
	return nil
}

// Fetch 取回原始文件字节及其内容类型。
func (a *MinioArchive) Fetch(ctx context.Context, objectName string) ([]byte, string, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("无法读取归档对象 %s: %w", objectName, err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, "", fmt.Errorf("无法读取归档对象 %s 的元数据: %w", objectName, err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", fmt.Errorf("无法读取归档对象 %s 的内容: %w", objectName, err)
	}

	return data, info.ContentType, nil
}

// Remove 删除归档对象。删除不存在的对象不报错。
func (a *MinioArchive) Remove(ctx context.Context, objectName string) error {
	if err := a.client.RemoveObject(ctx, a.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("无法删除归档对象 %s: %w", objectName, err)
	}
	return nil
}

// compile-time check to ensure MinioArchive implements the Archive interface
var _ Archive = (*MinioArchive)(nil)
