package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jeongseonghan/optic-link/internal/config"
	"github.com/jeongseonghan/optic-link/internal/sim"
)

type jobState string

const (
	jobRunning  jobState = "running"
	jobFinished jobState = "finished"
	jobFailed   jobState = "failed"
)

type job struct {
	ID       string      `json:"id"`
	Scenario string      `json:"scenario"`
	State    jobState    `json:"state"`
	Error    string      `json:"error,omitempty"`
	Points   []sim.Point `json:"points,omitempty"`
}

// snapshot copies the job for encoding outside the lock. Caller holds h.mu.
func (j *job) snapshot() job {
	cp := *j
	cp.Points = append([]sim.Point(nil), j.Points...)
	return cp
}

// Handlers exposes scenario listing, sweep jobs and live streaming.
type Handlers struct {
	scenarios *config.File
	hub       *Hub

	mu     sync.Mutex
	jobs   map[string]*job
	nextID int
}

// NewHandlers creates handlers over a parsed scenario file.
func NewHandlers(scenarios *config.File) *Handlers {
	return &Handlers{
		scenarios: scenarios,
		hub:       NewHub(),
		jobs:      make(map[string]*job),
	}
}

// HandleWebSocket upgrades the connection and subscribes it to sweep
// progress.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade", "err", err)
		return
	}
	h.hub.AddClient(conn)

	go func() {
		defer h.hub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleScenarios lists available scenario names.
func (h *Handlers) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{"scenarios": h.scenarios.Names()})
}

// HandleSweep starts a sweep job for the named scenario and returns its id.
func (h *Handlers) HandleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Scenario string `json:"scenario"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("parse request: %v", err), http.StatusBadRequest)
		return
	}

	sc, err := h.scenarios.Scenario(req.Scenario)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.mu.Lock()
	h.nextID++
	id := fmt.Sprintf("job-%d", h.nextID)
	j := &job{ID: id, Scenario: sc.Name, State: jobRunning}
	h.jobs[id] = j
	snap := j.snapshot()
	h.mu.Unlock()

	go h.runJob(j, sc)

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, snap)
}

// HandleJob returns the state and collected points of a job.
func (h *Handlers) HandleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	h.mu.Lock()
	j, ok := h.jobs[id]
	var snap job
	if ok {
		snap = j.snapshot()
	}
	h.mu.Unlock()
	if !ok {
		http.Error(w, "unknown job", http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

func (h *Handlers) runJob(j *job, sc config.Scenario) {
	log.Info("sweep started", "job", j.ID, "scenario", sc.Name)
	h.hub.BroadcastStatus(j.ID, sc.Name, string(jobRunning), "")

	points, err := sim.Run(sc, func(p sim.Point) {
		h.mu.Lock()
		j.Points = append(j.Points, p)
		h.mu.Unlock()
		h.hub.BroadcastPoint(j.ID, p)
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		j.State = jobFailed
		j.Error = err.Error()
		log.Error("sweep failed", "job", j.ID, "err", err)
		h.hub.BroadcastStatus(j.ID, sc.Name, string(jobFailed), err.Error())
		return
	}
	j.Points = points
	j.State = jobFinished
	log.Info("sweep finished", "job", j.ID, "points", len(points))
	h.hub.BroadcastStatus(j.ID, sc.Name, string(jobFinished), "")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("write response", "err", err)
	}
}
