package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/ThrowBot_Go/internal/config"
	"github.com/osse101/ThrowBot_Go/internal/cooldown"
	"github.com/osse101/ThrowBot_Go/internal/dispatch"
	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/engine"
	"github.com/osse101/ThrowBot_Go/internal/gate"
	"github.com/osse101/ThrowBot_Go/internal/outcome"
	"github.com/osse101/ThrowBot_Go/internal/roles"
	"github.com/osse101/ThrowBot_Go/internal/scheduler"
	"github.com/osse101/ThrowBot_Go/internal/sse"
	"github.com/osse101/ThrowBot_Go/internal/streamerbot"
	"github.com/osse101/ThrowBot_Go/internal/worker"
)

// Pipeline holds the long-lived event processing components. Gate and
// dispatcher share one cooldown state.
type Pipeline struct {
	Cooldowns  *cooldown.State
	Directory  *roles.Directory
	Hub        *sse.Hub
	Dispatcher *dispatch.Dispatcher
	Engine     *engine.Engine
	Scheduler  *scheduler.Scheduler
	Source     *streamerbot.Client
	Workers    *worker.Pool

	cancel     context.CancelFunc
	engineDone chan struct{}
}

// InitializePipeline wires matcher, gate, resolver, dispatcher and scheduler
// around the engine. Nothing runs until Start.
func InitializePipeline(cfg *config.Config, repos *Repositories) *Pipeline {
	broadcaster := domain.UserRef{
		ID:          cfg.BroadcasterID,
		Login:       cfg.BroadcasterLogin,
		DisplayName: cfg.BroadcasterDisplay,
	}
	directory := roles.NewDirectory(repos.Roles, broadcaster, cfg.RoleCacheSize, cfg.RoleCacheTTL)

	cooldowns := cooldown.NewState()
	hub := sse.NewHub()
	resolver := outcome.NewResolver(repos.Assets)
	workers := worker.NewPool(cfg.RecorderWorkers, cfg.RecorderQueue)

	dispatcher := dispatch.New(resolver, hub, cooldowns,
		dispatch.WithLimit(cfg.DispatchLimit),
		dispatch.WithRecorder(worker.NewRecorder(workers, repos.Executions)),
	)
	eng := engine.New(repos.Rules, gate.New(cooldowns, directory), dispatcher, resolver, hub, cfg.EventBuffer)
	sched := scheduler.New(eng, scheduler.WithLoader(repos.Rules))
	source := streamerbot.NewClient(cfg.StreamerbotURL, cfg.StreamerbotPassword, cfg.EventBuffer)

	slog.Info(LogMsgPipelineInitialized,
		"dispatch_limit", cfg.DispatchLimit,
		"event_buffer", cfg.EventBuffer,
		"broadcaster", broadcaster.Login)

	return &Pipeline{
		Cooldowns:  cooldowns,
		Directory:  directory,
		Hub:        hub,
		Dispatcher: dispatcher,
		Engine:     eng,
		Scheduler:  sched,
		Source:     source,
		Workers:    workers,
		engineDone: make(chan struct{}),
	}
}

// Start launches the history writers, the hub, the event source, the
// scheduler and the ingestion loop.
func (p *Pipeline) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.Workers.Start()
	p.Hub.Start()
	p.Source.Start(ctx)
	p.Scheduler.Start(ctx)

	go func() {
		defer close(p.engineDone)
		p.Engine.Run(ctx, p.Source.Events())
	}()
}

// stopIngestion stops producers first so nothing new reaches the dispatcher,
// then stops the engine loop.
func (p *Pipeline) stopIngestion(ctx context.Context) {
	p.Source.Stop()
	p.Scheduler.Stop()

	if p.cancel != nil {
		p.cancel()
		select {
		case <-p.engineDone:
		case <-ctx.Done():
			slog.Warn(LogMsgEngineStopTimeout)
		}
	}
}
