package observability

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/match-stats-scheduler/internal/config"
	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

const (
	betterStackQueueSize     = 512
	betterStackBatchSize     = 50
	betterStackFlushInterval = time.Second
)

// InitBetterStackLogger tees records at or above BETTERSTACK_MIN_LEVEL to the
// Better Stack ingest endpoint, which is where failed schedule and collection
// runs raise alerts. The returned flush func must run before a worker exits.
func InitBetterStackLogger(cfg config.Config, component string, base *logging.Logger) (*logging.Logger, func(context.Context) error, error) {
	if base == nil {
		base = logging.NewJSON(cfg.LogLevel)
	}
	if !cfg.BetterStackEnabled {
		return base.With("component", component), func(context.Context) error { return nil }, nil
	}

	endpoint := betterStackURL(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	shipper := newBetterStackShipper(endpoint, cfg.BetterStackToken, cfg.BetterStackTimeout)
	enc := zapcore.NewJSONEncoder(logging.EncoderConfig())
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), cfg.LogLevel),
		zapcore.NewCore(enc.Clone(), shipper, cfg.BetterStackMinLevel),
	)

	logger := logging.FromZap(zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("service", cfg.ServiceName),
			zap.String("component", component),
			zap.String("environment", cfg.AppEnv),
		),
	))
	logger.Info("betterstack log shipping enabled", "endpoint", endpoint, "min_level", cfg.BetterStackMinLevel.String())

	flush := func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("flush betterstack batches: %w", err)
		}
		if err := logger.Sync(); err != nil && !ignorableSyncError(err) {
			return err
		}
		return nil
	}
	return logger, flush, nil
}

func betterStackURL(raw string) string {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return ""
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		return value
	default:
		return "https://" + value
	}
}

// betterStackShipper is a zapcore.WriteSyncer that queues encoded records and
// posts them as JSON arrays from a single goroutine.
type betterStackShipper struct {
	http     *resty.Client
	endpoint string
	records  chan []byte

	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	done    chan struct{}
	dropped atomic.Uint64
}

func newBetterStackShipper(endpoint, token string, timeout time.Duration) *betterStackShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if token = strings.TrimSpace(token); token != "" {
		client.SetAuthToken(token)
	}

	s := &betterStackShipper{
		http:     client,
		endpoint: endpoint,
		records:  make(chan []byte, betterStackQueueSize),
		done:     make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *betterStackShipper) Write(p []byte) (int, error) {
	record := bytes.TrimSpace(p)
	if len(record) == 0 {
		return len(p), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return len(p), nil
	}

	// zap reuses p once Write returns
	select {
	case s.records <- append([]byte(nil), record...):
	default:
		if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
			fmt.Fprintf(os.Stderr, "betterstack queue full, dropped=%d\n", n)
		}
	}
	return len(p), nil
}

func (s *betterStackShipper) Sync() error { return nil }

func (s *betterStackShipper) loop() {
	defer close(s.done)

	ticker := time.NewTicker(betterStackFlushInterval)
	defer ticker.Stop()

	batch := make([][]byte, 0, betterStackBatchSize)
	for {
		select {
		case record, ok := <-s.records:
			if !ok {
				s.post(batch)
				return
			}
			batch = append(batch, record)
			if len(batch) >= betterStackBatchSize {
				s.post(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			s.post(batch)
			batch = batch[:0]
		}
	}
}

func (s *betterStackShipper) post(batch [][]byte) {
	if len(batch) == 0 {
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_ = buf.WriteByte('[')
	for i, record := range batch {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.Write(record)
	}
	_ = buf.WriteByte(']')

	res, err := s.http.R().SetBody(buf.Bytes()).Post(s.endpoint)
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "betterstack post %d records failed: %v\n", len(batch), err)
	case res.IsError():
		fmt.Fprintf(os.Stderr, "betterstack post %d records got status=%d\n", len(batch), res.StatusCode())
	}
}

// Close stops accepting records and waits until queued batches are posted.
func (s *betterStackShipper) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.records)
		s.mu.Unlock()
	})

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func ignorableSyncError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
