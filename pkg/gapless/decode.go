package gapless

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"github.com/go-drift/switcher/pkg/errors"
	"github.com/go-drift/switcher/pkg/platform"
)

// DefaultCacheSize bounds the number of decoded frames a DecodeSource keeps.
const DefaultCacheSize = 64

// Fetcher returns the encoded bytes for a content id.
type Fetcher func(ctx context.Context, contentID string) ([]byte, error)

// DecodeOption configures a DecodeSource.
type DecodeOption func(*DecodeSource)

// WithCacheSize bounds the decoded-frame cache. Sizes below one disable it.
func WithCacheSize(n int) DecodeOption {
	return func(s *DecodeSource) { s.cacheSize = n }
}

// WithDispatch sets how events are handed to the UI thread.
func WithDispatch(fn func(func())) DecodeOption {
	return func(s *DecodeSource) { s.dispatch = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) DecodeOption {
	return func(s *DecodeSource) { s.logger = logger }
}

// DecodeSource is a Source that fetches and decodes still images. Concurrent
// requests for the same id share one fetch.
type DecodeSource struct {
	fetch     Fetcher
	dispatch  func(func())
	logger    *slog.Logger
	cacheSize int

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu    sync.Mutex
	cache map[string]image.Image
	order []string
	subs  map[*atomic.Bool]struct{}
}

// NewDecodeSource returns a source backed by fetch.
func NewDecodeSource(fetch Fetcher, opts ...DecodeOption) *DecodeSource {
	ctx, cancel := context.WithCancel(context.Background())
	s := &DecodeSource{
		fetch:     fetch,
		cacheSize: DefaultCacheSize,
		ctx:       ctx,
		cancel:    cancel,
		cache:     make(map[string]image.Image),
		subs:      make(map[*atomic.Bool]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = errors.DiscardLogger()
	}
	if s.dispatch == nil {
		s.dispatch = func(fn func()) {
			if !platform.Dispatch(fn) {
				s.logger.Warn("no dispatch registered, dropping decode event")
			}
		}
	}
	return s
}

// Cached returns a decoded frame without waiting.
func (s *DecodeSource) Cached(contentID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.cache[contentID]
	if !ok {
		return nil, false
	}
	return img, true
}

// Subscribe starts loading contentID unless it is cached. fn receives
// FrameAbsent first and then FrameReady or LoadFailed, always through the
// dispatch function. A cached id delivers nothing.
func (s *DecodeSource) Subscribe(contentID string, fn func(Event)) func() {
	if _, ok := s.Cached(contentID); ok {
		return func() {}
	}
	cancelled := &atomic.Bool{}
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return func() {}
	}
	s.subs[cancelled] = struct{}{}
	s.mu.Unlock()

	deliver := func(ev Event) {
		s.dispatch(func() {
			if cancelled.Load() {
				return
			}
			fn(ev)
		})
	}
	deliver(Event{ContentID: contentID, Kind: FrameAbsent})

	ch := s.group.DoChan(contentID, func() (any, error) {
		return s.load(contentID)
	})
	go func() {
		select {
		case res := <-ch:
			if cancelled.Load() {
				return
			}
			if res.Err != nil {
				deliver(Event{ContentID: contentID, Kind: LoadFailed, Err: res.Err})
				return
			}
			deliver(Event{ContentID: contentID, Kind: FrameReady, Frame: res.Val})
		case <-s.ctx.Done():
		}
	}()

	return func() {
		cancelled.Store(true)
		s.mu.Lock()
		delete(s.subs, cancelled)
		s.mu.Unlock()
	}
}

// Close cancels in-flight loads and silences every subscriber.
func (s *DecodeSource) Close() {
	s.cancel()
	s.mu.Lock()
	for c := range s.subs {
		c.Store(true)
	}
	s.subs = make(map[*atomic.Bool]struct{})
	s.mu.Unlock()
}

func (s *DecodeSource) load(contentID string) (image.Image, error) {
	data, err := s.fetch(s.ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	s.logger.Debug("decoded frame", "content", contentID, "format", format, "bounds", img.Bounds())
	s.store(contentID, img)
	return img, nil
}

func (s *DecodeSource) store(contentID string, img image.Image) {
	if s.cacheSize < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[contentID]; !ok {
		s.order = append(s.order, contentID)
	}
	s.cache[contentID] = img
	for len(s.order) > s.cacheSize {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.cache, oldest)
	}
}
