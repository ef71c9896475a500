package endpoint

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/wirekit/di"
	apperrors "github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/observability"
)

// Container is the read-only view of a container the handlers need. It is
// also an observability.HealthChecker.
type Container interface {
	ID() string
	Strategy() di.Strategy
	Keys() []string
	Get(key string) (any, bool)
	Lookup(name string) (any, bool)
	Controllers() []any
	Classes() []*di.Class
	ControllerClasses() []*di.Class
	Diagnostics() []di.Diagnostic
	DiagnosticsOf(kind di.DiagnosticKind) []di.Diagnostic
	CheckHealth(ctx context.Context) observability.Health
}

// ServiceView describes one registered instance.
type ServiceView struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

// ClassView describes a class still awaiting construction.
type ClassView struct {
	Key  string `json:"key"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// Services lists the registered instances in registration order.
func Services(ctr Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		keys := ctr.Keys()
		views := make([]ServiceView, 0, len(keys))
		for _, key := range keys {
			instance, _ := ctr.Get(key)
			views = append(views, ServiceView{Key: key, Type: di.TargetName(instance)})
		}
		RespondList(c, views)
	}
}

// Service describes one instance, found by key or by type name.
func Service(ctr Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("key")
		instance, ok := ctr.Lookup(name)
		if !ok {
			RespondWithError(c, apperrors.NotFound("service", name))
			return
		}
		RespondOK(c, gin.H{
			"key":         name,
			"type":        di.TargetName(instance),
			"diagnostics": diagnosticsFor(ctr, di.TargetName(instance)),
		})
	}
}

// Controllers lists the constructed controllers.
func Controllers(ctr Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		controllers := ctr.Controllers()
		views := make([]ServiceView, 0, len(controllers))
		for _, ctrl := range controllers {
			name := di.TargetName(ctrl)
			views = append(views, ServiceView{Key: di.InstanceName(name), Type: name})
		}
		RespondList(c, views)
	}
}

// Classes lists the classes registered for AutoWire but not yet constructed.
func Classes(ctr Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		classes := append(ctr.Classes(), ctr.ControllerClasses()...)
		views := make([]ClassView, 0, len(classes))
		for _, class := range classes {
			views = append(views, ClassView{Key: class.Key(), Kind: class.Kind.String(), Name: class.Name})
		}
		RespondList(c, views)
	}
}

// Diagnostics lists recorded diagnostics, optionally filtered by ?kind= and
// ?target=.
func Diagnostics(ctr Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entries []di.Diagnostic
		if kind := c.Query("kind"); kind != "" {
			entries = ctr.DiagnosticsOf(di.DiagnosticKind(kind))
		} else {
			entries = ctr.Diagnostics()
		}

		if target := c.Query("target"); target != "" {
			filtered := entries[:0:0]
			for _, d := range entries {
				if d.Target == target {
					filtered = append(filtered, d)
				}
			}
			entries = filtered
		}
		RespondList(c, entries)
	}
}

// Metrics returns a handler that reports runtime and container counters.
func Metrics(ctr Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(http.StatusOK, gin.H{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"alloc_mb":       m.Alloc / 1024 / 1024,
				"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
				"sys_mb":         m.Sys / 1024 / 1024,
				"gc_runs":        m.NumGC,
			},
			"container": gin.H{
				"id":          ctr.ID(),
				"strategy":    ctr.Strategy().String(),
				"instances":   len(ctr.Keys()),
				"controllers": len(ctr.Controllers()),
				"missing":     len(ctr.DiagnosticsOf(di.DiagMissing)),
				"failures":    len(ctr.DiagnosticsOf(di.DiagFailure)),
			},
		})
	}
}

func diagnosticsFor(ctr Container, target string) []di.Diagnostic {
	out := []di.Diagnostic{}
	for _, d := range ctr.Diagnostics() {
		if d.Target == target {
			out = append(out, d)
		}
	}
	return out
}
