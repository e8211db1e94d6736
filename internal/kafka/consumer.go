package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/nguyentranbao-ct/shopping-search/internal/config"
	"github.com/nguyentranbao-ct/shopping-search/pkg/logger"
	log "github.com/nguyentranbao-ct/shopping-search/pkg/logger/logctx"
	"github.com/nguyentranbao-ct/shopping-search/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Consumer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// messageReader is the subset of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaConsumer struct {
	reader         messageReader
	topic          string
	groupID        string
	metrics        *prometheus.HistogramVec
	consumeTimeout time.Duration
	handler        MessageHandler
	workerPool     *workerpool.WorkerPool
	done           chan struct{}
	running        sync.WaitGroup
}

func NewConsumer(cfg config.KafkaConfig, handler MessageHandler) (Consumer, error) {
	if !cfg.Enabled {
		return &noopConsumer{}, nil
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		StartOffset: kafka.LastOffset,
	})
	return newConsumer(reader, cfg, handler)
}

func newConsumer(reader messageReader, cfg config.KafkaConfig, handler MessageHandler) (*kafkaConsumer, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_consumed", "status", "topic", "group")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}

	workers := max(cfg.Workers, 1)
	return &kafkaConsumer{
		reader:         reader,
		topic:          cfg.Topic,
		groupID:        cfg.GroupID,
		metrics:        metrics,
		consumeTimeout: 30 * time.Second,
		handler:        handler,
		workerPool:     workerpool.New(workers),
		done:           make(chan struct{}),
	}, nil
}

// Start blocks until ctx is cancelled or Stop is called. Offsets are
// committed once a message has been handled, whatever the outcome.
func (c *kafkaConsumer) Start(ctx context.Context) error {
	c.running.Add(1)
	defer c.running.Done()
	log.Infof(ctx, "starting kafka consumer for topic: %s", c.topic)

	for ctx.Err() == nil {
		select {
		case <-c.done:
			return nil
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// io.EOF means the reader was closed by Stop
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorw(ctx, "error fetching message", "error", err)
			continue
		}

		c.workerPool.Submit(func() {
			c.processMessage(ctx, msg)
			if err := c.reader.CommitMessages(context.WithoutCancel(ctx), msg); err != nil {
				log.Errorw(ctx, "failed to commit message", "error", err, "offset", msg.Offset)
			}
		})
	}
	return nil
}

// Stop expects the context given to Start to be cancelled already, so the
// fetch loop can exit before the worker pool drains.
func (c *kafkaConsumer) Stop(ctx context.Context) error {
	log.Infof(ctx, "stopping kafka consumer")
	close(c.done)

	exited := make(chan struct{})
	go func() {
		c.running.Wait()
		close(exited)
	}()
	select {
	case <-exited:
	case <-ctx.Done():
		return errors.Join(ctx.Err(), c.reader.Close())
	}

	c.workerPool.StopWait()
	return c.reader.Close()
}

func (c *kafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) {
	ctx = log.WithFields(ctx, "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	lagMs := time.Since(msg.Time).Milliseconds()

	duration, err := c.handle(ctx, msg)

	code := getCode(err)
	content := "message handled"
	if err != nil {
		content = err.Error()
	}

	log.Logw(ctx, getLogLevel(code), content,
		"code", code,
		"duration_ms", duration.Milliseconds(),
		"lag_ms", lagMs,
		"key", string(msg.Key),
		"value", json.RawMessage(msg.Value),
	)

	c.metrics.
		WithLabelValues(code.String(), msg.Topic, c.groupID).
		Observe(duration.Seconds())
}

func (c *kafkaConsumer) handle(msgCtx context.Context, msg kafka.Message) (duration time.Duration, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PANIC RECOVER: %+v", r)
		}
		duration = time.Since(start)
	}()

	ctx, cancel := context.WithTimeout(msgCtx, c.consumeTimeout)
	defer cancel()

	return 0, c.handler.HandleMessage(ctx, msg)
}

func getCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Unknown
}

func getLogLevel(code codes.Code) logger.Level {
	switch code {
	case codes.OK:
		return logger.InfoLevel
	case codes.Canceled,
		codes.InvalidArgument,
		codes.NotFound,
		codes.AlreadyExists,
		codes.PermissionDenied,
		codes.Unauthenticated,
		codes.ResourceExhausted,
		codes.FailedPrecondition,
		codes.Aborted,
		codes.Unimplemented,
		codes.OutOfRange:
		return logger.WarnLevel
	default:
		return logger.ErrorLevel
	}
}

// noopConsumer stands in when kafka is disabled.
type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "kafka consumer is disabled")
	return nil
}

func (n *noopConsumer) Stop(ctx context.Context) error {
	return nil
}
