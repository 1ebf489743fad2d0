// Package api composes the HTTP API from its modules
package api

import (
	"time"

	"zkcommit/internal/modkit"
	"zkcommit/internal/modkit/httpkit"
	"zkcommit/internal/modkit/module"
	"zkcommit/internal/modkit/swaggerkit"
	"zkcommit/internal/platform/config"
	"zkcommit/internal/platform/logger"
	phttp "zkcommit/internal/platform/net/http"

	metamod "zkcommit/internal/services/api/meta/module"
	workflowmod "zkcommit/internal/services/workflow/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Deps           modkit.Deps
	Workflow       workflowmod.Options
	EnableSwagger  bool
	EnableProfiler bool
	CORSOrigins    []string
	// RequestTimeout bounds each API request; proof generation needs minutes
	RequestTimeout time.Duration
}

// Mount mounts the API onto r and returns the workflow ports so the caller
// can run the session sweeper
func Mount(r phttp.Router, opt Options) workflowmod.Ports {
	deps := opt.Deps
	if deps.Cfg == (config.Conf{}) {
		deps.Cfg = opt.Config
	}

	// workflow first so meta can report live sessions
	wf := workflowmod.New(deps, opt.Workflow)
	wfPorts := module.MustPortsOf[workflowmod.Ports](wf)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Sessions: wfPorts.Sessions})),
		wf,
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins: opt.CORSOrigins,
		Timeout: opt.RequestTimeout,
		Slow:    30 * time.Second,
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		log := logger.Named("api")
		for _, m := range mods {
			m.MountRoutes(api)
			log.Debug().Str("module", m.Name()).Msg("module mounted")
		}
	})
	return wfPorts
}
