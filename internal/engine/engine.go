// Package engine implements the Celerix secure store: a mutex-guarded façade
// over a platform item store.
//
// Every public method of Engine is one critical section. The primitives they
// compose live on core and never lock, so AtomicUpdate can read and write
// under a single acquisition without re-entering the façade.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/celerix-dev/celerix-keystore/internal/codec"
	"github.com/celerix-dev/celerix-keystore/internal/policy"
	"github.com/celerix-dev/celerix-keystore/pkg/keychain"
)

// DefaultScope is used when no scope identifier is configured.
const DefaultScope = "com.celerix.keystore"

var tracer = otel.Tracer("github.com/celerix-dev/celerix-keystore/internal/engine")

// ErrNilUpdate is returned by AtomicUpdate when fn is nil.
var ErrNilUpdate = errors.New("engine: nil update function")

// Engine is the secure store for one scope. Two engines over the same scope
// and item store do not exclude each other; the composition root must hand
// out a single instance per scope.
type Engine struct {
	mu   sync.Mutex
	core core
}

var _ keychain.SecureStore = (*Engine)(nil)

// Option configures an Engine.
type Option func(*options)

type options struct {
	scope   string
	codec   codec.Codec
	factory policy.DescriptorFactory
	log     *slog.Logger
}

// WithScope sets the scope identifier partitioning this engine's records.
func WithScope(scope string) Option {
	return func(o *options) { o.scope = scope }
}

// WithCodec sets the payload codec. JSON is used otherwise.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithDescriptorFactory sets how access-control descriptors are built.
// When unset, the item store is used if it implements DescriptorFactory.
func WithDescriptorFactory(f policy.DescriptorFactory) Option {
	return func(o *options) { o.factory = f }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// New creates an engine over items.
func New(items keychain.ItemStore, opts ...Option) *Engine {
	o := options{scope: DefaultScope, codec: codec.Default, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.factory == nil {
		if f, ok := items.(policy.DescriptorFactory); ok {
			o.factory = f
		}
	}

	logger := o.log.With("component", "keystore", "scope", o.scope)
	return &Engine{
		core: core{
			scope: o.scope,
			items: items,
			policy: policy.New(o.factory,
				policy.WithLogger(logger),
				policy.WithFallbackHook(policyFallbacks.Inc)),
			codec: o.codec,
			log:   logger,
		},
	}
}

// Scope returns the scope identifier.
func (e *Engine) Scope() string { return e.core.scope }

// --- Public Interface (serialized) ---

// Save encodes value and replaces the record at key.
func (e *Engine) Save(ctx context.Context, key string, value any, requireChallenge bool) (err error) {
	ctx, span := e.start(ctx, "keychain.Save", key, attribute.Bool("keychain.require_challenge", requireChallenge))
	defer e.finish(span, "save", time.Now(), &err, nil)

	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := e.core.encode(value)
	if err != nil {
		return err
	}
	return e.core.save(ctx, key, data, requireChallenge)
}

// Read decodes the record at key into dst. It reports false with a nil error
// when nothing is stored or when the user declined the challenge.
//
// Reading a gated entry blocks until the credential challenge completes.
func (e *Engine) Read(ctx context.Context, key, prompt string, dst any) (found bool, err error) {
	outcome := outcomeOK
	ctx, span := e.start(ctx, "keychain.Read", key)
	defer e.finish(span, "read", time.Now(), &err, &outcome)

	e.mu.Lock()
	defer e.mu.Unlock()

	data, status, err := e.core.readData(ctx, key, prompt)
	if err != nil {
		return false, err
	}
	switch status {
	case keychain.StatusItemNotFound:
		outcome = outcomeAbsent
		return false, nil
	case keychain.StatusUserCanceled:
		outcome = outcomeDeclined
		challengeDeclined.Inc()
		e.core.log.Debug("credential challenge declined", "account", key)
		return false, nil
	}

	if err := e.core.decode(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the record at key.
func (e *Engine) Delete(ctx context.Context, key string) (err error) {
	ctx, span := e.start(ctx, "keychain.Delete", key)
	defer e.finish(span, "delete", time.Now(), &err, nil)

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.core.delete(ctx, key)
}

// Contains reports whether a record exists at key without prompting.
func (e *Engine) Contains(ctx context.Context, key string) bool {
	outcome := outcomeOK
	ctx, span := e.start(ctx, "keychain.Contains", key)
	defer e.finish(span, "contains", time.Now(), nil, &outcome)

	e.mu.Lock()
	defer e.mu.Unlock()

	ok := e.core.exists(ctx, key)
	if !ok {
		outcome = outcomeAbsent
	}
	return ok
}

// ClearAll deletes every registry key. Keys outside the registry survive.
func (e *Engine) ClearAll(ctx context.Context) {
	ctx, span := e.start(ctx, "keychain.ClearAll", "")
	defer e.finish(span, "clear_all", time.Now(), nil, nil)

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, key := range keychain.AllKeys() {
		if err := e.core.delete(ctx, string(key)); err != nil {
			e.core.log.Debug("clear all: delete failed", "account", key, "error", err)
		}
	}
}

// AtomicUpdate reads the record at key, passes it to fn and stores the
// result, all under one acquisition of the engine lock. A nil result deletes
// the key. Records written here are never gated.
//
// fn runs while the lock is held: calling any Engine method from it deadlocks.
func (e *Engine) AtomicUpdate(ctx context.Context, key string, fn keychain.UpdateFunc) (err error) {
	if fn == nil {
		return ErrNilUpdate
	}
	ctx, span := e.start(ctx, "keychain.AtomicUpdate", key)
	defer e.finish(span, "atomic_update", time.Now(), &err, nil)

	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. Read through the core (no additional lock)
	data, status, err := e.core.readData(ctx, key, "")
	if err != nil {
		return err
	}

	// 2. Compute the next value
	next, err := fn(current{c: &e.core, data: data, found: status == keychain.StatusSuccess})
	if err != nil {
		return err
	}

	// 3. Write through the core
	if codec.IsNil(next) {
		return e.core.delete(ctx, key)
	}
	encoded, err := e.core.encode(next)
	if err != nil {
		return err
	}
	return e.core.save(ctx, key, encoded, false)
}

// --- Instrumentation ---

func (e *Engine) start(ctx context.Context, name, key string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("keychain.scope", e.core.scope))
	if key != "" {
		attrs = append(attrs, attribute.String("keychain.account", key))
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (e *Engine) finish(span trace.Span, op string, start time.Time, errp *error, outcomep *string) {
	var err error
	if errp != nil {
		err = *errp
	}
	outcome := outcomeOf(err)
	if outcomep != nil && err == nil {
		outcome = *outcomep
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.core.log.Debug("keystore operation failed", "op", op, "error", err)
	}
	span.End()
	observe(op, outcome, start)
}
