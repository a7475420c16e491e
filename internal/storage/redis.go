package storage

import (
	"context"
	"fmt"
	"time"

	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/constants"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound Redis键未命中时返回，对上层屏蔽redis.Nil
var ErrNotFound = redis.Nil

// Redis 上传文件去重的键值存储适配器
// 已入库文件的MD5存放在一个集合里，同一份文件的重复上传在进入处理流程前被拦下
type Redis struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedis 创建Redis客户端并验证连通性
func NewRedis(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("Redis配置不能为空")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败 (%s): %w", cfg.Address, err)
	}

	return &Redis{client: client, cfg: cfg}, nil
}

// CheckAndRecordFileMD5 将文件MD5加入去重集合
// 返回true表示该MD5是首次出现；false表示重复上传
func (r *Redis) CheckAndRecordFileMD5(ctx context.Context, md5Hex string) (bool, error) {
	added, err := r.client.SAdd(ctx, constants.KeyFileMD5Set, md5Hex).Result()
	if err != nil {
		return false, fmt.Errorf("写入文件MD5集合失败: %w", err)
	}
	return added > 0, nil
}

// RemoveFileMD5 从去重集合中移除一个MD5，用于处理失败后的回滚
func (r *Redis) RemoveFileMD5(ctx context.Context, md5Hex string) error {
	if err := r.client.SRem(ctx, constants.KeyFileMD5Set, md5Hex).Err(); err != nil {
		return fmt.Errorf("移除文件MD5失败: %w", err)
	}
	return nil
}

// ClearFileMD5Set 整库重置时清空去重集合
func (r *Redis) ClearFileMD5Set(ctx context.Context) error {
	if err := r.client.Del(ctx, constants.KeyFileMD5Set).Err(); err != nil {
		return fmt.Errorf("清空文件MD5集合失败: %w", err)
	}
	return nil
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	return r.client.Close()
}
