package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"learnhub/pkg/config"
	"learnhub/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationQueueName  = "notification_queue"
	NotificationExchange   = "notifications"
	NotificationRoutingKey = "notification"
)

// Notification task types produced by the course and forum services.
const (
	TaskCourseEnrolled = "course_enrolled"
	TaskAnswer         = "answer"
	TaskVote           = "vote"
	TaskAccepted       = "accepted"
	TaskCourseQuestion = "course_question"
)

// NotificationTask is the message body exchanged over the notifications
// exchange. Priority is clamped to 0-10.
type NotificationTask struct {
	Type       string                 `json:"type"`
	UserID     string                 `json:"user_id"`
	ActorID    string                 `json:"actor_id,omitempty"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	EntityType string                 `json:"entity_type,omitempty"`
	EntityID   string                 `json:"entity_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Priority   int                    `json:"priority,omitempty"`
}

// Publisher is the producer side used by use cases.
type Publisher interface {
	PublishNotificationTask(task NotificationTask) error
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

var _ Publisher = (*Client)(nil)

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("[RABBITMQ] Connected at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func declareTopology(channel *amqp.Channel) error {
	err := channel.ExchangeDeclare(
		NotificationExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-max-priority": 10},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.QueueBind(NotificationQueueName, NotificationRoutingKey, NotificationExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ClampPriority keeps a task priority inside the queue's x-max-priority range.
func ClampPriority(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > 10 {
		return 10
	}
	return uint8(p)
}

// EncodeTask validates and serializes a task for publishing.
func EncodeTask(task NotificationTask) ([]byte, error) {
	if task.UserID == "" {
		return nil, fmt.Errorf("notification task has no recipient")
	}
	if task.Type == "" {
		return nil, fmt.Errorf("notification task has no type")
	}
	return json.Marshal(task)
}

// DecodeTask parses a delivery body.
func DecodeTask(body []byte) (NotificationTask, error) {
	var task NotificationTask
	if err := json.Unmarshal(body, &task); err != nil {
		return task, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	if task.UserID == "" || task.Type == "" {
		return task, fmt.Errorf("task is missing user_id or type")
	}
	return task, nil
}

func (c *Client) PublishNotificationTask(task NotificationTask) error {
	body, err := EncodeTask(task)
	if err != nil {
		return err
	}

	err = c.channel.Publish(
		NotificationExchange,
		NotificationRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Priority:     ClampPriority(task.Priority),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish %s task for user %s: %v", task.Type, task.UserID, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published %s task for user %s", task.Type, task.UserID)
	return nil
}

// ConsumeNotificationTasks runs handler for every delivery in a background
// goroutine. Malformed bodies are dropped, handler failures are requeued once.
func (c *Client) ConsumeNotificationTasks(handler func(task NotificationTask) error) error {
	msgs, err := c.channel.Consume(
		NotificationQueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from %s", NotificationQueueName)

	go func() {
		for msg := range msgs {
			task, err := DecodeTask(msg.Body)
			if err != nil {
				c.logger.Error("[RABBITMQ] Dropping malformed task: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(task); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for %s task: %v", task.Type, err)
				msg.Nack(false, !msg.Redelivered)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

// QueueLength returns the number of ready messages, used by the health probe.
func (c *Client) QueueLength() (int, error) {
	q, err := c.channel.QueueInspect(NotificationQueueName)
	if err != nil {
		return 0, err
	}
	return q.Messages, nil
}
