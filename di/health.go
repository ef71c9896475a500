package di

import (
	"context"
	"strconv"

	"github.com/kbukum/wirekit/observability"
)

// CheckHealth reports the container as down after any construction or
// post-init failure, degraded while a declared dependency is unresolved,
// and up otherwise.
func (c *Container) CheckHealth(_ context.Context) observability.Health {
	failures := len(c.recorder.Filter(DiagFailure))
	unresolved := len(c.recorder.Filter(DiagMissing)) + len(c.recorder.Filter(DiagMismatch))

	h := observability.Health{
		Name:   "di",
		Status: observability.HealthStatusUp,
		Details: map[string]string{
			"container_id": c.id,
			"strategy":     c.Strategy().String(),
			"instances":    strconv.Itoa(c.registry.Len()),
			"controllers":  strconv.Itoa(len(c.registry.Controllers())),
			"failures":     strconv.Itoa(failures),
			"unresolved":   strconv.Itoa(unresolved),
		},
	}
	switch {
	case failures > 0:
		h.Status = observability.HealthStatusDown
		h.Message = "wiring failures recorded"
	case unresolved > 0:
		h.Status = observability.HealthStatusDegraded
		h.Message = "unresolved dependencies"
	}
	return h
}
