// Package redpanda provides the Redpanda/Kafka queue for asynchronous task
// execution. Tasks are published with exactly-once semantics so a retried
// enqueue never double-fires a task, and consumed through a transactional
// group session so offsets commit only after a record is handled.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/observability"
	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// TopicExecute is the Kafka topic carrying execute-task payloads.
const TopicExecute = "tasks.execute"

// Producer wraps a transactional Kafka producer and implements domain.Queue.
type Producer struct {
	client *kgo.Client
	// transactionChan serializes transactions; franz-go allows one open
	// transaction per transactional id.
	transactionChan chan struct{}
}

// NewProducer constructs a Producer with exactly-once semantics.
func NewProducer(brokers []string) (*Producer, error) {
	return NewProducerWithTransactionalID(brokers, "agent-orchestrator-producer")
}

// NewProducerWithTransactionalID constructs a Producer with a custom
// transactional ID, so tests can isolate producers from each other.
func NewProducerWithTransactionalID(brokers []string, transactionalID string) (*Producer, error) {
	slog.Info("creating redpanda producer", slog.Any("brokers", brokers), slog.String("transactional_id", transactionalID))

	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1000000),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}

	ctx := context.Background()
	if err := createTopicIfNotExists(ctx, client, TopicExecute, 8, 1); err != nil {
		// The topic usually exists already; creation races are harmless.
		slog.Warn("failed to create topic",
			slog.String("topic", TopicExecute),
			slog.Any("error", err))
	}

	return &Producer{
		client:          client,
		transactionChan: make(chan struct{}, 1),
	}, nil
}

// EnqueueExecute publishes an execute-task payload with exactly-once
// semantics and returns the task id.
func (p *Producer) EnqueueExecute(ctx domain.Context, payload domain.ExecuteTaskPayload) (string, error) {
	return p.EnqueueExecuteToTopic(ctx, payload, TopicExecute)
}

// EnqueueExecuteToTopic publishes to a specific topic so tests can use
// unique topics for isolation.
func (p *Producer) EnqueueExecuteToTopic(ctx domain.Context, payload domain.ExecuteTaskPayload, topic string) (string, error) {
	select {
	case p.transactionChan <- struct{}{}:
		defer func() { <-p.transactionChan }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if err := p.client.BeginTransaction(); err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		if abortErr := p.client.EndTransaction(ctx, kgo.TryAbort); abortErr != nil {
			slog.Error("failed to abort transaction", slog.Any("error", abortErr))
		}
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	record := &kgo.Record{
		Topic: topic,
		// Task id as key keeps re-deliveries of one task on one partition.
		Key:   []byte(payload.TaskID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "task_id", Value: []byte(payload.TaskID)},
			{Key: "agent_id", Value: []byte(payload.AgentID)},
			{Key: "office_id", Value: []byte(payload.OfficeID)},
		},
	}

	e := kgo.AbortingFirstErrPromise(p.client)
	p.client.Produce(ctx, record, e.Promise())
	if err := e.Err(); err != nil {
		if abortErr := p.client.EndTransaction(ctx, kgo.TryAbort); abortErr != nil {
			slog.Error("failed to abort transaction", slog.Any("error", abortErr))
		}
		return "", fmt.Errorf("produce: %w", err)
	}

	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	observability.EnqueueTask("async")
	slog.Info("task enqueued",
		slog.String("topic", topic),
		slog.String("task_id", payload.TaskID),
		slog.String("agent_id", payload.AgentID))
	return payload.TaskID, nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	if p.transactionChan != nil {
		select {
		case <-p.transactionChan:
		default:
			close(p.transactionChan)
		}
	}
	return nil
}
