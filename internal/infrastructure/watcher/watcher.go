package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/johnquangdev/video-summarizer/pkg/validator"
)

// EventHandler is called once for every new video file
type EventHandler func(ctx context.Context, path string) error

// Claimer suppresses duplicate events for the same file
type Claimer interface {
	Claim(key string, ttl time.Duration) bool
}

const claimTTL = 10 * time.Minute

// Watcher submits video files dropped into a directory
type Watcher struct {
	dir       string
	handler   EventHandler
	claimer   Claimer
	logger    *zap.Logger
	fsw       *fsnotify.Watcher
	settle    time.Duration
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New creates a watcher on dir. At most maxConcurrent handlers run at once.
func New(dir string, handler EventHandler, claimer Claimer, maxConcurrent int, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &Watcher{
		dir:       dir,
		handler:   handler,
		claimer:   claimer,
		logger:    logger,
		fsw:       fsw,
		settle:    500 * time.Millisecond,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}

// Start blocks, dispatching new files until ctx is cancelled
func (w *Watcher) Start(ctx context.Context) error {
	if w.logger != nil {
		w.logger.Info("👀 Folder intake started",
			zap.String("dir", w.dir),
			zap.Int("max_concurrent", cap(w.semaphore)),
		)
	}

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			if w.logger != nil {
				w.logger.Info("🛑 Folder intake stopped")
			}
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) || !isCandidate(event.Name) {
				continue
			}
			if w.claimer != nil && !w.claimer.Claim(event.Name, claimTTL) {
				continue
			}

			select {
			case w.semaphore <- struct{}{}:
			case <-ctx.Done():
				continue
			}

			w.wg.Add(1)
			go func(path string) {
				defer w.wg.Done()
				defer func() { <-w.semaphore }()

				// the writer may still be copying the file in
				select {
				case <-time.After(w.settle):
				case <-ctx.Done():
					return
				}

				if w.logger != nil {
					w.logger.Info("🎬 New video detected", zap.String("path", path))
				}
				if err := w.handler(ctx, path); err != nil && w.logger != nil {
					w.logger.Error("❌ Failed to submit video",
						zap.String("path", path),
						zap.Error(err),
					)
				}
			}(event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if w.logger != nil {
				w.logger.Error("❌ Watcher error", zap.Error(err))
			}
		}
	}
}

// Stop closes the underlying fsnotify watcher
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

// isCandidate accepts videos but skips our own outputs and temp files
func isCandidate(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "summary_") {
		return false
	}
	return validator.IsAllowedVideo(name)
}
