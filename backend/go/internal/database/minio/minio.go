package minio

import (
	"ResearchHub/backend/go/internal/config"
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	client  *minio.Client
	once    sync.Once
	initErr error
)

// GetClient 使用单例模式初始化并返回一个 MinIO 客户端实例。
// MinIO 只用于归档用户上传的原始文件字节，文档的逻辑状态不依赖它。
func GetClient(cfg *config.MinIOConfig) (*minio.Client, error) {
	once.Do(func() {
		c, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.Secure,
		})
		if err != nil {
			initErr = fmt.Errorf("无法创建 MinIO 客户端: %w", err)
			return
		}

		// 初始化时执行简单的健康检查
		if _, err = c.ListBuckets(context.Background()); err != nil {
			initErr = fmt.Errorf("MinIO 初始化健康检查失败: %w", err)
			return
		}

		log.Println("✅ 成功连接到 MinIO!")
		client = c
	})

	return client, initErr
}

// EnsureBucket 确保归档使用的存储桶存在，不存在时创建它。
func EnsureBucket(ctx context.Context, cfg *config.MinIOConfig) error {
	c, err := GetClient(cfg)
	if err != nil {
		return err
	}

	exists, err := c.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("无法检查存储桶 %s: %w", cfg.Bucket, err)
	}
	if exists {
		return nil
	}

	if err := c.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("无法创建存储桶 %s: %w", cfg.Bucket, err)
	}
	return nil
}

// HealthCheck 检查 MinIO 连接的健康状况。
func HealthCheck(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("MinIO 客户端未初始化")
	}
	// 尝试列出存储桶以验证连接性和认证。
	if _, err := client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("MinIO 健康检查失败: %w", err)
	}
	return nil
}
