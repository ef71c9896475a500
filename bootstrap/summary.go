package bootstrap

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/wirekit/di"
	"github.com/kbukum/wirekit/observability"
)

// ServiceInfo describes one registered instance and what was injected into it.
type ServiceInfo struct {
	Key          string
	Type         string
	Dependencies []string
}

// IssueInfo is an unresolved or mismatched dependency, or a wiring failure.
type IssueInfo struct {
	Kind   string
	Target string
	Detail string
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	strategy        string
	startupDuration time.Duration
	namespaces      []string
	skipped         []string
	services        []ServiceInfo
	controllers     []ServiceInfo
	issues          []IssueInfo
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version, strategy string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		strategy:    strategy,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Services returns the collected services.
func (s *Summary) Services() []ServiceInfo { return s.services }

// Controllers returns the collected controllers.
func (s *Summary) Controllers() []ServiceInfo { return s.controllers }

// Issues returns the collected issues.
func (s *Summary) Issues() []IssueInfo { return s.issues }

// Collect snapshots the container's registry and diagnostics. result may be
// nil for eager apps.
func (s *Summary) Collect(c *di.Container, result *di.ScanResult) {
	deps := make(map[string][]string)
	for _, d := range c.DiagnosticsOf(di.DiagInjected) {
		deps[d.Target] = append(deps[d.Target], d.Key)
	}

	s.services = s.services[:0]
	for _, key := range c.Keys() {
		instance, _ := c.Get(key)
		name := di.TargetName(instance)
		s.services = append(s.services, ServiceInfo{Key: key, Type: name, Dependencies: deps[name]})
	}

	s.controllers = s.controllers[:0]
	for _, ctrl := range c.Controllers() {
		name := di.TargetName(ctrl)
		s.controllers = append(s.controllers, ServiceInfo{Key: di.InstanceName(name), Type: name, Dependencies: deps[name]})
	}

	s.issues = s.issues[:0]
	for _, d := range c.DiagnosticsOf(di.DiagMissing) {
		s.issues = append(s.issues, IssueInfo{Kind: "missing", Target: d.Target + "." + d.Member, Detail: d.Key})
	}
	for _, d := range c.DiagnosticsOf(di.DiagMismatch) {
		s.issues = append(s.issues, IssueInfo{Kind: "mismatch", Target: d.Target + "." + d.Member, Detail: d.Key})
	}

	s.namespaces, s.skipped = nil, nil
	if result != nil {
		s.namespaces = result.Namespaces
		s.skipped = result.Skipped
		for _, f := range result.Failures {
			s.issues = append(s.issues, IssueInfo{Kind: "failure", Target: f.Class, Detail: f.Err.Error()})
		}
	}
}

// Display prints the bootstrap summary including the container's live health.
func (s *Summary) Display(w io.Writer, health observability.Health) {
	// Header
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s v%s started in %.2fs (%s)\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds(), s.strategy)

	// Namespaces
	if len(s.namespaces) > 0 || len(s.skipped) > 0 {
		fmt.Fprintf(w, "🗂️  Namespaces\n")
		total := len(s.namespaces) + len(s.skipped)
		for i, ns := range s.namespaces {
			fmt.Fprintf(w, "   %s 📦 %s\n", treePrefix(i, total), ns)
		}
		for i, ns := range s.skipped {
			fmt.Fprintf(w, "   %s ⏭️  %s (skipped)\n", treePrefix(len(s.namespaces)+i, total), ns)
		}
		fmt.Fprintf(w, "\n")
	}

	s.displayInstances(w, "⚙️  Services", "⚙️", s.services)
	s.displayInstances(w, "🎯 Controllers", "🎯", s.controllers)

	if len(s.services) == 0 && len(s.controllers) == 0 {
		fmt.Fprintf(w, "   └── No services registered\n\n")
	}

	// Issues
	if len(s.issues) > 0 {
		fmt.Fprintf(w, "⚠️  Issues (%d)\n", len(s.issues))
		for i, issue := range s.issues {
			fmt.Fprintf(w, "   %s %s %s: %s\n", treePrefix(i, len(s.issues)), issueIcon(issue.Kind), issue.Target, issue.Detail)
		}
		fmt.Fprintf(w, "\n")
	}

	// Live health check
	msg := ""
	if health.Message != "" {
		msg = fmt.Sprintf(" (%s)", health.Message)
	}
	fmt.Fprintf(w, "🏥 Health: %s %s%s\n\n", healthStatusIcon(health.Status), strings.ToLower(string(health.Status)), msg)
}

func (s *Summary) displayInstances(w io.Writer, title, icon string, items []ServiceInfo) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintf(w, "%s (%d)\n", title, len(items))
	for i, item := range items {
		last := i == len(items)-1
		fmt.Fprintf(w, "   %s %s %s [%s]\n", treePrefix(i, len(items)), icon, item.Key, item.Type)
		for j, dep := range item.Dependencies {
			depPrefix := "│   "
			if last {
				depPrefix = "    "
			}
			fmt.Fprintf(w, "   %s%s 🔗 %s\n", depPrefix, treePrefix(j, len(item.Dependencies)), dep)
		}
	}
	fmt.Fprintf(w, "\n")
}

func treePrefix(i, total int) string {
	if i == total-1 {
		return "└──"
	}
	return "├──"
}

func issueIcon(kind string) string {
	switch kind {
	case "missing":
		return "❓"
	case "mismatch":
		return "⚠️"
	default:
		return "❌"
	}
}

func healthStatusIcon(status observability.HealthStatus) string {
	switch status {
	case observability.HealthStatusUp:
		return "✅"
	case observability.HealthStatusDegraded:
		return "⚠️"
	case observability.HealthStatusDown:
		return "❌"
	default:
		return "❓"
	}
}
