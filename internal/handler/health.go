package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/segyhp/amortization-engine/pkg/response"
)

// Pinger is a dependency the readiness check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	cache   Pinger
	timeout time.Duration
}

func NewHealthHandler(db Pinger, cache Pinger, timeout time.Duration) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		timeout: timeout,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready performs readiness check including database and redis connectivity
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	// Both dependencies are probed to completion; Wait reports the first failure
	var dbErr, cacheErr error
	var g errgroup.Group
	g.Go(func() error {
		dbErr = h.ping(r.Context(), h.db)
		return dbErr
	})
	g.Go(func() error {
		cacheErr = h.ping(r.Context(), h.cache)
		return cacheErr
	})
	err := g.Wait()

	recordCheck(&status, "database", dbErr)
	recordCheck(&status, "redis", cacheErr)

	if err != nil {
		log.Printf("Readiness check failed: %v", err)
		response.ServiceUnavailable(w, "Service not ready", status)
		return
	}

	response.Success(w, status)
}

func (h *HealthHandler) ping(ctx context.Context, dependency Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return dependency.Ping(ctx)
}

func recordCheck(status *HealthStatus, name string, err error) {
	if err != nil {
		status.Status = "error"
		status.Checks[name] = "failed: " + err.Error()
		return
	}
	status.Checks[name] = "ok"
}
