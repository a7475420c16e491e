package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"resume-analyzer-go/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// MinIO 原始简历文件的对象存储归档
type MinIO struct {
	client         *minio.Client
	cfg            *config.MinIOConfig
	originalBucket string
	logger         *log.Logger
}

// NewMinIO 创建MinIO客户端并确保归档桶存在
func NewMinIO(cfg *config.MinIOConfig, logger *log.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{
		client:         client,
		cfg:            cfg,
		originalBucket: cfg.OriginalsBucket,
		logger:         logger,
	}

	if err := m.ensureBucket(context.Background(), m.originalBucket); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureBucket 确保存储桶存在并按配置设置对象过期策略
func (m *MinIO) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶失败 (%s): %w", bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.cfg.Location}); err != nil {
			return fmt.Errorf("创建存储桶失败 (%s): %w", bucket, err)
		}
		m.logger.Printf("创建存储桶: %s", bucket)
	}

	if m.cfg.OriginalFileExpireDays > 0 {
		lc := lifecycle.NewConfiguration()
		lc.Rules = []lifecycle.Rule{
			{
				ID:     "expire-originals",
				Status: "Enabled",
				Expiration: lifecycle.Expiration{
					Days: lifecycle.ExpirationDays(m.cfg.OriginalFileExpireDays),
				},
			},
		}
		if err := m.client.SetBucketLifecycle(ctx, bucket, lc); err != nil {
			// 生命周期设置失败不阻断启动
			m.logger.Printf("警告: 设置存储桶生命周期失败 (%s): %v", bucket, err)
		}
	}
	return nil
}

// UploadOriginal 按提交UUID归档一份原始简历文件，返回对象名
func (m *MinIO) UploadOriginal(ctx context.Context, submissionUUID, fileExt string, data []byte) (string, error) {
	objectName := fmt.Sprintf("%s%s", submissionUUID, normalizeExt(fileExt))

	_, err := m.client.PutObject(ctx, m.originalBucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentTypeForExt(fileExt)})
	if err != nil {
		return "", fmt.Errorf("上传原始文件失败 (%s): %w", objectName, err)
	}

	m.logger.Printf("原始文件已归档: %s/%s (%d 字节)", m.originalBucket, objectName, len(data))
	return objectName, nil
}

// GetOriginal 下载一份已归档的原始文件
func (m *MinIO) GetOriginal(ctx context.Context, objectName string) ([]byte, error) {
	object, err := m.client.GetObject(ctx, m.originalBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("下载原始文件失败 (%s): %w", objectName, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("读取原始文件失败 (%s): %w", objectName, err)
	}
	return data, nil
}

func normalizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
