// Package s3token provides a change token for an object stored in S3.
//
// ObjectWatcher polls the object's ETag through HeadObject and spends a
// token generation whenever the ETag moves. It follows the same producer
// shape as filetoken.Watcher, so its Token method plugs straight into
// changetoken.OnChange:
//
//	client := s3.NewFromConfig(cfg)
//	w := s3token.NewObjectWatcher(client, "my-bucket", "conf/app.yaml")
//	go w.Start(ctx)
//
//	sub := changetoken.OnChangeFunc(w.Token, reloadConfig)
//	defer sub.Close()
package s3token

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	changetoken "github.com/commonsensesoftware/go-changetoken"
)

// HeadObjectAPI is the slice of the S3 client the watcher needs. *s3.Client
// satisfies it; tests substitute a stub.
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Option configures an ObjectWatcher.
type Option func(*ObjectWatcher)

// WithInterval sets the polling interval (default: 30s).
func WithInterval(interval time.Duration) Option {
	return func(w *ObjectWatcher) {
		w.interval = interval
	}
}

// WithLogger sets the logger used for polling failures (default: slog.Default).
func WithLogger(logger *slog.Logger) Option {
	return func(w *ObjectWatcher) {
		w.logger = logger
	}
}

// ObjectWatcher polls one S3 object and produces a fresh change token per
// detected revision. Polling failures are logged and retried on the next
// tick; they never fire the token.
type ObjectWatcher struct {
	client   HeadObjectAPI
	bucket   string
	key      string
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	current *changetoken.SingleToken
	etag    string
	primed  bool
}

// NewObjectWatcher creates a watcher for the given bucket and key.
func NewObjectWatcher(client HeadObjectAPI, bucket, key string, opts ...Option) *ObjectWatcher {
	w := &ObjectWatcher{
		client:   client,
		bucket:   bucket,
		key:      key,
		interval: 30 * time.Second,
		logger:   slog.Default(),
		current:  changetoken.NewSingleToken(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Token returns the change token for the current revision. It fires once,
// when the object's ETag next moves, from the polling goroutine.
func (w *ObjectWatcher) Token() changetoken.Token {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Start polls until the context is cancelled. The first successful poll
// records the baseline ETag without firing.
func (w *ObjectWatcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll fetches the object's ETag and spends the current generation when it
// differs from the recorded one.
func (w *ObjectWatcher) poll(ctx context.Context) {
	out, err := w.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
	})
	if err != nil {
		w.logger.Warn("head object failed",
			"bucket", w.bucket,
			"key", w.key,
			"error", err)
		return
	}

	etag := aws.ToString(out.ETag)

	w.mu.Lock()
	if !w.primed {
		w.primed = true
		w.etag = etag
		w.mu.Unlock()
		return
	}
	if etag == w.etag {
		w.mu.Unlock()
		return
	}
	w.etag = etag
	spent := w.current
	w.current = changetoken.NewSingleToken()
	w.mu.Unlock()

	spent.Notify()
}
