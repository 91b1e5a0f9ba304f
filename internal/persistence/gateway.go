package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/carpeta/organizer/internal/models"
	"github.com/carpeta/organizer/pkg/logger"
	"github.com/carpeta/organizer/pkg/metrics"
	"golang.org/x/time/rate"
)

// Source tells where a loaded snapshot came from.
type Source string

const (
	SourceNone   Source = "none"
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// GatewayOptions tunes the remote side of the gateway. The zero value means:
// 10s per attempt, no retry, no throttling.
type GatewayOptions struct {
	RemoteTimeout time.Duration
	// RemoteRetries is the number of extra attempts after a failed remote save.
	RemoteRetries int
	RetryBackoff  time.Duration
	// RemoteLimiter throttles remote saves when set; a save that cannot get a
	// token within RemoteTimeout is dropped.
	RemoteLimiter *rate.Limiter
}

// Gateway writes snapshots locally then remotely, and loads them back with
// remote-first precedence. Either backend may be nil.
type Gateway struct {
	local  LocalBackend
	remote RemoteBackend
	opts   GatewayOptions
	wg     sync.WaitGroup
}

func NewGateway(local LocalBackend, remote RemoteBackend, opts GatewayOptions) *Gateway {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = 10 * time.Second
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 200 * time.Millisecond
	}
	return &Gateway{local: local, remote: remote, opts: opts}
}

// Save writes the local backend synchronously, then starts the remote write
// in the background. Failures of either are logged and counted, never
// returned. snap must not be mutated by the caller afterwards.
func (g *Gateway) Save(ctx context.Context, snap *models.Snapshot) {
	if g.local != nil {
		if err := g.local.SaveLocal(ctx, snap); err != nil {
			metrics.PersistenceSaves.WithLabelValues("local", "error").Inc()
			logger.Warnf("local save failed: %v", err)
		} else {
			metrics.PersistenceSaves.WithLabelValues("local", "ok").Inc()
		}
	}
	if g.remote == nil {
		return
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.saveRemote(context.WithoutCancel(ctx), snap)
	}()
}

func (g *Gateway) saveRemote(parent context.Context, snap *models.Snapshot) {
	backoff := g.opts.RetryBackoff
	var err error
	for attempt := 0; attempt <= g.opts.RemoteRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}
		err = g.attemptRemote(parent, snap)
		if err == nil {
			metrics.PersistenceSaves.WithLabelValues("remote", "ok").Inc()
			return
		}
		logger.Debugf("remote save attempt %d/%d failed: %v", attempt+1, g.opts.RemoteRetries+1, err)
	}
	metrics.PersistenceSaves.WithLabelValues("remote", "error").Inc()
	logger.Warnf("remote save failed, keeping local copy: %v", err)
}

func (g *Gateway) attemptRemote(parent context.Context, snap *models.Snapshot) error {
	ctx, cancel := context.WithTimeout(parent, g.opts.RemoteTimeout)
	defer cancel()
	if g.opts.RemoteLimiter != nil {
		if err := g.opts.RemoteLimiter.Wait(ctx); err != nil {
			return ioErr("remote", "save", err)
		}
	}
	return g.remote.SaveRemote(ctx, snap)
}

// Wait blocks until every remote save started so far has finished.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

// Load tries the remote backend, then the local one. Errors and empty results
// fall through to the next source; (nil, SourceNone) means nothing is stored
// anywhere.
func (g *Gateway) Load(ctx context.Context) (*models.Snapshot, Source) {
	if g.remote != nil {
		snap, err := g.remote.LoadRemote(ctx)
		switch {
		case err != nil:
			logger.Warnf("remote load failed, trying local store: %v", err)
		case snap.Empty():
			logger.Debugf("remote holds no workspace, trying local store")
		default:
			metrics.PersistenceLoads.WithLabelValues(string(SourceRemote)).Inc()
			return snap, SourceRemote
		}
	}
	if g.local != nil {
		snap, err := g.local.LoadLocal(ctx)
		switch {
		case err != nil:
			logger.Warnf("local load failed: %v", err)
		case !snap.Empty():
			metrics.PersistenceLoads.WithLabelValues(string(SourceLocal)).Inc()
			return snap, SourceLocal
		}
	}
	metrics.PersistenceLoads.WithLabelValues(string(SourceNone)).Inc()
	return nil, SourceNone
}
