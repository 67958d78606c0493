package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
	"github.com/fairyhunter13/agent-orchestrator/internal/observability"
)

// ExecuteHandler processes one dequeued task payload.
type ExecuteHandler interface {
	HandleExecute(ctx context.Context, payload domain.ExecuteTaskPayload) error
}

// Consumer reads execute-task records through a transactional group session
// and fans them out to a bounded worker pool. Records for tasks already in a
// terminal state are skipped, so a re-delivery after a rebalance or crash
// never runs a task twice.
type Consumer struct {
	session *kgo.GroupTransactSession
	handler ExecuteHandler
	tasks   domain.TaskRepository

	groupID        string
	topic          string
	maxConcurrency int

	sem chan struct{}
	wg  sync.WaitGroup
}

// NewConsumer constructs a Consumer with exactly-once semantics.
func NewConsumer(brokers []string, groupID string, handler ExecuteHandler, tasks domain.TaskRepository) (*Consumer, error) {
	return NewConsumerWithTransactionalID(brokers, groupID, "agent-orchestrator-consumer", handler, tasks)
}

// NewConsumerWithTransactionalID constructs a Consumer with a custom
// transactional ID, so tests can isolate consumers from each other.
func NewConsumerWithTransactionalID(brokers []string, groupID, transactionalID string, handler ExecuteHandler, tasks domain.TaskRepository) (*Consumer, error) {
	return NewConsumerWithConfig(brokers, groupID, transactionalID, handler, tasks, 4, TopicExecute)
}

// NewConsumerWithConfig constructs a Consumer with custom concurrency and
// topic, so tests can use unique topics for isolation.
func NewConsumerWithConfig(brokers []string, groupID, transactionalID string, handler ExecuteHandler, tasks domain.TaskRepository, maxConcurrency int, topic string) (*Consumer, error) {
	slog.Info("creating redpanda consumer",
		slog.Any("brokers", brokers),
		slog.String("group_id", groupID),
		slog.String("transactional_id", transactionalID))

	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("missing required group ID")
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}

	ctx := context.Background()
	tempClient, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("temp client: %w", err)
	}
	defer tempClient.Close()
	if err := createTopicIfNotExists(ctx, tempClient, topic, 8, 1); err != nil {
		slog.Warn("failed to create topic",
			slog.String("topic", topic),
			slog.Any("error", err))
	}

	kotelTracer := kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
	)
	kotelService := kotel.NewKotel(
		kotel.WithTracer(kotelTracer),
	)

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.FetchIsolationLevel(kgo.ReadCommitted()),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.RequireStableFetchOffsets(),

		kgo.WithHooks(kotelService.Hooks()...),

		kgo.DialTimeout(10 * time.Second),
		kgo.SessionTimeout(30 * time.Second),
		kgo.HeartbeatInterval(3 * time.Second),
		kgo.RebalanceTimeout(10 * time.Second),

		kgo.FetchMaxBytes(10 * 1024 * 1024),
		kgo.FetchMaxWait(5 * time.Second),

		kgo.AutoCommitMarks(),
		kgo.AutoCommitInterval(1 * time.Second),
	}

	session, err := kgo.NewGroupTransactSession(opts...)
	if err != nil {
		return nil, fmt.Errorf("redpanda transactional session: %w", err)
	}

	return &Consumer{
		session:        session,
		handler:        handler,
		tasks:          tasks,
		groupID:        groupID,
		topic:          topic,
		maxConcurrency: maxConcurrency,
		sem:            make(chan struct{}, maxConcurrency),
	}, nil
}

// Start polls for records until the context is cancelled. In-flight tasks
// are allowed to finish before Start returns.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("starting redpanda consumer",
		slog.String("group_id", c.groupID),
		slog.String("topic", c.topic),
		slog.Int("max_concurrency", c.maxConcurrency))

	for {
		select {
		case <-ctx.Done():
			slog.Info("redpanda consumer shutting down, waiting for in-flight tasks")
			c.wg.Wait()
			return ctx.Err()
		default:
		}

		fetches := c.session.PollFetches(ctx)
		if errs := fetches.Errors(); len(errs) > 0 {
			fatal := false
			for _, fe := range errs {
				if errors.Is(fe.Err, context.Canceled) || errors.Is(fe.Err, context.DeadlineExceeded) {
					fatal = true
					continue
				}
				slog.Error("fetch error",
					slog.String("topic", fe.Topic),
					slog.Int("partition", int(fe.Partition)),
					slog.Any("error", fe.Err))
			}
			if fatal {
				continue
			}
			time.Sleep(time.Second)
			continue
		}

		fetches.EachRecord(func(record *kgo.Record) {
			select {
			case c.sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			c.wg.Add(1)
			go func(record *kgo.Record) {
				defer c.wg.Done()
				defer func() { <-c.sem }()
				if err := c.processRecord(ctx, record); err != nil {
					slog.Error("failed to process record",
						slog.Int64("offset", record.Offset),
						slog.Int("partition", int(record.Partition)),
						slog.Any("error", err))
				}
			}(record)
		})
	}
}

// processRecord handles one record: unmarshal, correlate logs, guard against
// re-delivery, then run the handler.
func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) error {
	tracer := otel.Tracer("queue.consumer")
	ctx, span := tracer.Start(ctx, "ProcessExecuteTask")
	defer span.End()

	var payload domain.ExecuteTaskPayload
	if err := json.Unmarshal(record.Value, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if payload.RequestID != "" {
		ctx = observability.ContextWithRequestID(ctx, payload.RequestID)
	}
	ctx = observability.ContextWithTaskID(ctx, payload.TaskID)
	lg := observability.LoggerFromContext(ctx).With(
		slog.String("agent_id", payload.AgentID),
		slog.String("office_id", payload.OfficeID),
	)
	if payload.RequestID != "" {
		lg = lg.With(slog.String("request_id", payload.RequestID))
	}
	ctx = observability.ContextWithLogger(ctx, lg)

	// A record can arrive again after a rebalance. Tasks already finished
	// must not run twice.
	if c.tasks != nil {
		if t, err := c.tasks.Get(ctx, payload.TaskID); err == nil {
			if t.Status == domain.TaskDone || t.Status == domain.TaskFailed {
				lg.Info("skipping re-delivered task in terminal state", slog.String("status", string(t.Status)))
				return nil
			}
		}
	}

	lg.Info("processing execute task")
	if err := c.handler.HandleExecute(ctx, payload); err != nil {
		lg.Error("execute task failed", slog.Any("error", err))
		return err
	}
	lg.Info("execute task completed")
	return nil
}

// Close closes the consumer session.
func (c *Consumer) Close() error {
	if c.session != nil {
		c.session.Close()
	}
	return nil
}
