package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"resume-analyzer-go/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ 候选人事件的消息发布适配器
// 只做即发即忘的事件通知，发布失败由调用方记录日志后继续
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	cfg      *config.RabbitMQConfig
	mu       sync.Mutex
	exchange string
}

// NewRabbitMQ 建立连接并声明候选人事件交换机
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建RabbitMQ通道失败: %w", err)
	}

	if err := channel.ExchangeDeclare(
		cfg.CandidateEventsExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("声明交换机失败 (%s): %w", cfg.CandidateEventsExchange, err)
	}

	return &RabbitMQ{
		conn:     conn,
		channel:  channel,
		cfg:      cfg,
		exchange: cfg.CandidateEventsExchange,
	}, nil
}

// PublishJSON 将data序列化为JSON并按路由键发布到候选人事件交换机
func (r *RabbitMQ) PublishJSON(ctx context.Context, routingKey string, data interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	// amqp通道不是并发安全的
	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(ctx,
		r.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("发布消息失败 (routing_key=%s): %w", routingKey, err)
	}
	return nil
}

// Close 关闭通道和连接
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
