package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"resume-analyzer-go/internal/config"
)

// Storage 存储管理器，聚合所有存储相关依赖
// 内存候选人集合始终可用；其余组件只在配置了对应子系统时初始化，
// 单个外围组件初始化失败只记录警告，不阻断服务启动
type Storage struct {
	// 进程内候选人集合，运行时的事实来源
	Candidates *CandidateStore

	// 关系型数据库，候选人快照归档（可选）
	MySQL *MySQL

	// 对象存储，原始简历文件归档（可选）
	MinIO *MinIO

	// 键值存储，上传文件去重（可选）
	Redis *Redis

	// 消息队列，入库事件发布（可选）
	RabbitMQ *RabbitMQ
}

// NewStorage 创建存储管理器
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{
		Candidates: NewCandidateStore(),
	}
	var err error

	// 初始化MySQL（如果配置了）
	if cfg.MySQL.Host != "" {
		log.Printf("初始化MySQL...")
		storage.MySQL, err = NewMySQL(&cfg.MySQL)
		if err != nil {
			log.Printf("警告: 初始化MySQL失败: %v", err)
		}
	}

	// 初始化MinIO（如果配置了）
	if cfg.MinIO.Endpoint != "" {
		log.Printf("初始化MinIO...")
		var minioLogger *log.Logger
		if cfg.Logger.Level == "debug" {
			minioLogger = log.New(os.Stderr, "[MinIOStorage] ", log.LstdFlags|log.Lshortfile)
		} else {
			minioLogger = log.New(io.Discard, "", 0)
		}
		storage.MinIO, err = NewMinIO(&cfg.MinIO, minioLogger)
		if err != nil {
			log.Printf("警告: 初始化MinIO失败: %v", err)
		}
	}

	// 初始化Redis（如果配置了）
	if cfg.Redis.Address != "" {
		log.Printf("初始化Redis at %s...", cfg.Redis.Address)
		storage.Redis, err = NewRedis(&cfg.Redis)
		if err != nil {
			log.Printf("警告: 初始化Redis失败: %v", err)
		}
	} else {
		log.Printf("Redis未配置, 跳过上传去重")
	}

	// 初始化RabbitMQ（如果配置了）
	if cfg.RabbitMQ.URL != "" {
		log.Printf("初始化RabbitMQ...")
		storage.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			log.Printf("警告: 初始化RabbitMQ失败: %v", err)
		}
	}

	return storage, nil
}

// Close 关闭所有已初始化的存储组件
func (s *Storage) Close() {
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			log.Printf("关闭MySQL连接失败: %v", err)
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Printf("关闭Redis连接失败: %v", err)
		}
	}
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			log.Printf("关闭RabbitMQ连接失败: %v", err)
		}
	}
}
