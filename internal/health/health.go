package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gustycube/neoview/internal/logging"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check is the result of one component check.
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
}

// DatasetInfo identifies the dataset currently being served.
type DatasetInfo struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Records   int       `json:"records"`
	FetchedAt time.Time `json:"fetched_at"`
}

// DatasetFunc reports the current dataset. ok is false before the first load.
type DatasetFunc func() (info DatasetInfo, ok bool)

// Response is the body of /health.
type Response struct {
	Status    Status            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    []Check           `json:"checks"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Readiness is the body of /ready.
type Readiness struct {
	Ready     bool              `json:"ready"`
	Timestamp time.Time         `json:"timestamp"`
	Dataset   *DatasetInfo      `json:"dataset,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// Handler serves the health, readiness and liveness endpoints.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	metadata map[string]string
	dataset  DatasetFunc
	logger   *logging.Logger
	ready    bool
}

func NewHandler(logger *logging.Logger) *Handler {
	return &Handler{
		checkers: make(map[string]Checker),
		metadata: make(map[string]string),
		logger:   logger,
	}
}

// RegisterChecker adds a health checker
func (h *Handler) RegisterChecker(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// SetMetadata sets a static metadata value reported by /health and /ready.
func (h *Handler) SetMetadata(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metadata[key] = value
}

// SetDataset registers the source of the dataset_id metadata and the
// dataset block in /ready.
func (h *Handler) SetDataset(fn DatasetFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dataset = fn
}

// SetReady marks the service as ready
func (h *Handler) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready != ready {
		h.logger.Infow("readiness changed", "ready", ready)
	}
	h.ready = ready
}

// IsReady returns the readiness status
func (h *Handler) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

// state copies everything a response needs under the read lock.
func (h *Handler) state() (ready bool, metadata map[string]string, ds *DatasetInfo) {
	h.mu.RLock()
	ready = h.ready
	fn := h.dataset
	metadata = make(map[string]string, len(h.metadata)+1)
	for k, v := range h.metadata {
		metadata[k] = v
	}
	h.mu.RUnlock()

	if fn != nil {
		if info, ok := fn(); ok {
			ds = &info
			metadata["dataset_id"] = info.ID
		}
	}
	return ready, metadata, ds
}

// HealthHandler runs every registered check. Any unhealthy check makes the
// response 503; degraded checks still return 200.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.mu.RLock()
	names := make([]string, 0, len(h.checkers))
	checkers := make(map[string]Checker, len(h.checkers))
	for name, c := range h.checkers {
		names = append(names, name)
		checkers[name] = c
	}
	h.mu.RUnlock()
	sort.Strings(names)

	_, metadata, _ := h.state()
	resp := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make([]Check, 0, len(names)),
		Metadata:  metadata,
	}
	for _, name := range names {
		check := checkers[name].Check(ctx)
		check.Name = name
		resp.Checks = append(resp.Checks, check)
		resp.Status = worse(resp.Status, check.Status)
	}

	code := http.StatusOK
	if resp.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// ReadinessHandler reports 200 once the service is marked ready, along with
// the dataset it is serving.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ready, metadata, ds := h.state()
	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, Readiness{
		Ready:     ready,
		Timestamp: time.Now(),
		Dataset:   ds,
		Metadata:  metadata,
	})
}

// LivenessHandler always returns 200 while the process is serving.
func (h *Handler) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"alive":     true,
		"timestamp": time.Now(),
	})
}

func worse(a, b Status) Status {
	rank := map[Status]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// RedisChecker checks the shared payload cache. An unreachable server is
// degraded, not unhealthy: the in-memory cache keeps working.
type RedisChecker struct {
	addr string
	ping func(ctx context.Context) error
}

func NewRedisChecker(addr string, ping func(ctx context.Context) error) *RedisChecker {
	return &RedisChecker{addr: addr, ping: ping}
}

func (c *RedisChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Status: StatusHealthy, Message: "redis not configured"}
	if c.ping != nil {
		if err := c.ping(ctx); err != nil {
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("redis %s unreachable: %v", c.addr, err)
		} else {
			check.Message = "redis " + c.addr + " ok"
		}
	}
	check.LastChecked = time.Now()
	check.Duration = time.Since(start) / time.Millisecond
	return check
}

// DatasetChecker reports whether a dataset is loaded and how old it is.
type DatasetChecker struct {
	dataset DatasetFunc
	maxAge  time.Duration
}

// NewDatasetChecker creates a dataset health checker. A dataset older than
// maxAge is reported as degraded; zero disables the age check.
func NewDatasetChecker(dataset DatasetFunc, maxAge time.Duration) *DatasetChecker {
	return &DatasetChecker{dataset: dataset, maxAge: maxAge}
}

func (c *DatasetChecker) Check(ctx context.Context) Check {
	start := time.Now()
	info, ok := c.dataset()

	check := Check{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("dataset %s loaded with %d records", info.ID, info.Records),
	}
	switch {
	case !ok:
		check.Status = StatusUnhealthy
		check.Message = "no dataset loaded"
	case c.maxAge > 0 && time.Since(info.FetchedAt) > c.maxAge:
		check.Status = StatusDegraded
		check.Message = fmt.Sprintf("dataset %s is stale (fetched %s)", info.ID, info.FetchedAt.UTC().Format(time.RFC3339))
	}
	check.LastChecked = time.Now()
	check.Duration = time.Since(start) / time.Millisecond
	return check
}
