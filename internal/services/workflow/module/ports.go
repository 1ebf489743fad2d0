package module

import (
	"context"

	"zkcommit/internal/services/workflow/service"
)

// SessionPort is the session registry other modules may use
type SessionPort interface {
	Create(commitURL string) *service.Controller
	Get(id string) (*service.Controller, error)
	Delete(id string) bool
	Len() int
}

// SweeperPort runs the idle session sweep until ctx is done
type SweeperPort interface {
	Run(ctx context.Context) error
}

// Ports holds the ports exposed by the workflow module
type Ports struct {
	Sessions SessionPort
	Sweeper  SweeperPort
}

// Ports returns the module ports (Sessions, Sweeper)
func (m *Module) Ports() any { return m.ports }
