package sprite

import (
	"context"
	"fmt"
	"image"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Preloader loads poses in the background. Get never blocks: a pose that has
// not finished loading is simply reported as missing.
type Preloader struct {
	mu     sync.RWMutex
	images map[Pose]image.Image
	done   chan struct{}
	err    error
}

// Preload starts loading poses from src and returns immediately.
func Preload(ctx context.Context, src Source, logger *zap.Logger, poses ...Pose) *Preloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Preloader{
		images: make(map[Pose]image.Image, len(poses)),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		// One failed pose never cancels the others.
		var g errgroup.Group
		for _, pose := range poses {
			pose := pose
			g.Go(func() error {
				img, err := src.Load(ctx, pose)
				if err != nil {
					logger.Warn("sprite load failed", zap.String("pose", string(pose)), zap.Error(err))
					p.mu.Lock()
					p.err = multierr.Append(p.err, fmt.Errorf("sprite %s: %w", pose, err))
					p.mu.Unlock()
					return nil
				}
				p.mu.Lock()
				p.images[pose] = img
				p.mu.Unlock()
				logger.Debug("sprite loaded", zap.String("pose", string(pose)))
				return nil
			})
		}
		_ = g.Wait()
	}()

	return p
}

// Get returns the pose image if it has loaded.
func (p *Preloader) Get(pose Pose) (image.Image, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	img, ok := p.images[pose]
	return img, ok
}

// Wait blocks until every load has finished and returns every failure.
func (p *Preloader) Wait() error {
	<-p.done
	return p.err
}

// Done is closed once loading has finished.
func (p *Preloader) Done() <-chan struct{} {
	return p.done
}
