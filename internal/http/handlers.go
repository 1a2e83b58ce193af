package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/klipworks/klipflow/internal/blueprint"
	"github.com/klipworks/klipflow/internal/clipboard"
	"github.com/klipworks/klipflow/internal/generation"
	"github.com/klipworks/klipflow/internal/logging"
	"github.com/klipworks/klipflow/internal/monitoring"
	"github.com/klipworks/klipflow/internal/service"
	"github.com/klipworks/klipflow/internal/session"
	"github.com/klipworks/klipflow/internal/shared/utils"
)

// ServiceVersion is reported by the root and health endpoints.
const ServiceVersion = "0.3.0"

// Handlers contains all HTTP handlers. Store and bridge may be nil when the
// daemon runs without a history database or clipboard bridge.
type Handlers struct {
	runner  *service.Runner
	store   *session.Store
	archive *generation.Archive
	bridge  *clipboard.Client
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewHandlers creates a new handler set.
func NewHandlers(
	runner *service.Runner,
	store *session.Store,
	archive *generation.Archive,
	bridge *clipboard.Client,
	metrics *monitoring.Metrics,
	log *logging.Logger,
) *Handlers {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handlers{
		runner:  runner,
		store:   store,
		archive: archive,
		bridge:  bridge,
		metrics: metrics,
		log:     log,
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "klipflow daemon",
		"version": ServiceVersion,
	})
}

// Health reports subsystem status.
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	storeStatus := gin.H{"enabled": false}
	if h.store != nil {
		storeStatus = gin.H{"enabled": true, "reachable": h.store.Ping(ctx) == nil}
	}

	bridgeStatus := gin.H{"enabled": false}
	if h.bridge != nil {
		bridgeStatus = gin.H{"enabled": true, "reachable": h.bridge.Health(ctx) == nil}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"version":    ServiceVersion,
		"store":      storeStatus,
		"bridge":     bridgeStatus,
		"blueprints": len(h.archive.Tracker().Components()),
	})
}

// ListEntries returns clipboard history, newest first.
func (h *Handlers) ListEntries(c *gin.Context) {
	if h.store == nil {
		unavailable(c, "history store disabled")
		return
	}

	entries, err := h.store.Entries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// GetEntry returns one history entry by UUID.
func (h *Handlers) GetEntry(c *gin.Context) {
	if h.store == nil {
		unavailable(c, "history store disabled")
		return
	}

	uuid := c.Param("uuid")
	if err := utils.ValidateID(uuid, "uuid", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	entry, err := h.store.Entry(c.Request.Context(), uuid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// CreateEntry inserts a new history entry.
func (h *Handlers) CreateEntry(c *gin.Context) {
	if h.store == nil {
		unavailable(c, "history store disabled")
		return
	}

	var req struct {
		Text      string   `json:"text" binding:"required"`
		Mimetypes []string `json:"mimetypes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	entry := session.NewEntry(req.Text, req.Mimetypes)
	if err := h.store.Insert(c.Request.Context(), entry); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ToggleStar flips an entry's starred flag.
func (h *Handlers) ToggleStar(c *gin.Context) {
	if h.store == nil {
		unavailable(c, "history store disabled")
		return
	}

	uuid := c.Param("uuid")
	if err := utils.ValidateID(uuid, "uuid", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	starred, err := h.store.ToggleStar(c.Request.Context(), uuid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uuid":    uuid,
		"starred": starred,
	})
}

// TouchEntry stamps an entry's last-used time.
func (h *Handlers) TouchEntry(c *gin.Context) {
	if h.store == nil {
		unavailable(c, "history store disabled")
		return
	}

	uuid := c.Param("uuid")
	if err := utils.ValidateID(uuid, "uuid", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	usedAt := float64(time.Now().UnixNano()) / 1e9
	if err := h.store.Touch(c.Request.Context(), uuid, usedAt); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uuid":    uuid,
		"used_at": usedAt,
	})
}

// Prediction analyzes recent history and predicts the active workflow.
func (h *Handlers) Prediction(c *gin.Context) {
	if h.store == nil {
		unavailable(c, "history store disabled")
		return
	}

	recent := session.DefaultRecentCount
	if recentStr := c.Query("recent"); recentStr != "" {
		n, err := strconv.Atoi(recentStr)
		if err != nil || n < 1 {
			badRequest(c, "recent must be a positive integer")
			return
		}
		recent = n
	}

	entries, err := h.store.Entries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	analyzer := session.NewAnalyzer()
	analyzer.Ingest(entries)

	c.JSON(http.StatusOK, analyzer.PredictWorkflow(recent))
}

// Clusters groups history entries into time bursts.
func (h *Handlers) Clusters(c *gin.Context) {
	if h.store == nil {
		unavailable(c, "history store disabled")
		return
	}

	threshold := session.DefaultClusterThreshold
	if thresholdStr := c.Query("threshold"); thresholdStr != "" {
		v, err := strconv.ParseFloat(thresholdStr, 64)
		if err != nil || v <= 0 {
			badRequest(c, "threshold must be a positive number of seconds")
			return
		}
		threshold = v
	}

	entries, err := h.store.Entries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	analyzer := session.NewAnalyzer()
	analyzer.Ingest(entries)
	clusters := analyzer.ClusterByTime(threshold)

	c.JSON(http.StatusOK, gin.H{
		"threshold_seconds": threshold,
		"clusters":          clusters,
		"count":             len(clusters),
	})
}

// ExecuteWorkflow runs a blueprint and returns the final state and trace.
// The blueprint comes either inline or from the archive's latest generation.
func (h *Handlers) ExecuteWorkflow(c *gin.Context) {
	var req struct {
		Blueprint string         `json:"blueprint"`
		Name      string         `json:"name"`
		State     map[string]any `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if (req.Blueprint == "") == (req.Name == "") {
		badRequest(c, "exactly one of blueprint or name is required")
		return
	}
	if len(req.Blueprint) > utils.MaxBlueprintSize {
		badRequest(c, "blueprint too large")
		return
	}
	if err := utils.ValidateState(req.State); err != nil {
		badRequest(c, err.Error())
		return
	}

	text := req.Blueprint
	if req.Name != "" {
		if err := utils.ValidateID(req.Name, "name", true); err != nil {
			badRequest(c, err.Error())
			return
		}
		archived, _, err := h.archive.Latest(req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		text = archived
	}

	doc, err := blueprint.Load(text)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.runner.Run(doc, req.State, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Stats reports run counters and uptime.
func (h *Handlers) Stats(c *gin.Context) {
	snapshot := h.metrics.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds": h.metrics.UptimeSeconds(),
		"requests":       snapshot.TotalRequests,
		"errors":         snapshot.TotalErrors,
		"runs_executed":  snapshot.RunsExecuted,
		"runs_failed":    snapshot.RunsFailed,
	})
}

// ListBlueprints lists tracked blueprints with their current generations.
func (h *Handlers) ListBlueprints(c *gin.Context) {
	tracker := h.archive.Tracker()

	type item struct {
		Name              string `json:"name"`
		CurrentGeneration int    `json:"current_generation"`
	}

	names := tracker.Components()
	items := make([]item, 0, len(names))
	for _, name := range names {
		gen, _ := tracker.CurrentGeneration(name)
		items = append(items, item{Name: name, CurrentGeneration: gen})
	}

	c.JSON(http.StatusOK, gin.H{
		"blueprints": items,
		"count":      len(items),
	})
}

// GetBlueprint returns the full generational report for one blueprint.
func (h *Handlers) GetBlueprint(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateID(name, "name", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	tracker := h.archive.Tracker()
	if _, ok := tracker.CurrentGeneration(name); !ok {
		notFound(c, "blueprint not tracked")
		return
	}

	c.JSON(http.StatusOK, tracker.Report(name))
}

// RegisterBlueprint stores a new blueprint's first generation.
func (h *Handlers) RegisterBlueprint(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateID(name, "name", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	var req struct {
		Content     string `json:"content" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if len(req.Content) > utils.MaxBlueprintSize {
		badRequest(c, "blueprint too large")
		return
	}

	if _, ok := h.archive.Tracker().CurrentGeneration(name); ok {
		conflict(c, "blueprint already registered")
		return
	}

	if err := h.archive.Register(name, req.Content, 1, req.Description); err != nil {
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.IncBlueprintsArchived()
	}

	c.JSON(http.StatusCreated, gin.H{
		"name":       name,
		"generation": 1,
	})
}

// EvolveBlueprint stores the next generation of a blueprint.
func (h *Handlers) EvolveBlueprint(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateID(name, "name", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	var req struct {
		Content string         `json:"content" binding:"required"`
		Changes map[string]any `json:"changes"`
		Metrics map[string]any `json:"metrics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if len(req.Content) > utils.MaxBlueprintSize {
		badRequest(c, "blueprint too large")
		return
	}
	if req.Changes == nil {
		req.Changes = map[string]any{"source": "api"}
	}

	if err := h.archive.Evolve(name, req.Content, req.Changes, req.Metrics); err != nil {
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.IncBlueprintsArchived()
		if gen, ok := h.archive.Tracker().CurrentGeneration(name); ok {
			h.metrics.SetGenerationsCurrent(gen)
		}
	}

	gen, _ := h.archive.Tracker().CurrentGeneration(name)
	c.JSON(http.StatusOK, gin.H{
		"name":       name,
		"generation": gen,
	})
}

// LatestBlueprint returns the newest stored blueprint text.
func (h *Handlers) LatestBlueprint(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateID(name, "name", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	content, gen, err := h.archive.Latest(name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       name,
		"generation": gen,
		"content":    content,
	})
}

// ListGenerations returns the stored generation numbers of a blueprint.
func (h *Handlers) ListGenerations(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateID(name, "name", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	if _, ok := h.archive.Tracker().CurrentGeneration(name); !ok {
		notFound(c, "blueprint not tracked")
		return
	}

	generations, err := h.archive.Generations(name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":        name,
		"generations": generations,
	})
}

// GetGeneration returns one stored generation's blueprint text.
func (h *Handlers) GetGeneration(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateID(name, "name", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	gen, err := strconv.Atoi(c.Param("gen"))
	if err != nil || gen < 1 {
		badRequest(c, "generation must be a positive integer")
		return
	}

	content, err := h.archive.Version(name, gen)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       name,
		"generation": gen,
		"content":    content,
	})
}

// CompareGenerations diffs two stored generations.
func (h *Handlers) CompareGenerations(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateID(name, "name", true); err != nil {
		badRequest(c, err.Error())
		return
	}

	from, err := strconv.Atoi(c.Query("from"))
	if err != nil || from < 1 {
		badRequest(c, "from must be a positive integer")
		return
	}
	to, err := strconv.Atoi(c.Query("to"))
	if err != nil || to < 1 {
		badRequest(c, "to must be a positive integer")
		return
	}

	comparison, err := h.archive.Compare(name, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// ClipboardCurrent proxies the bridge's current clipboard item.
func (h *Handlers) ClipboardCurrent(c *gin.Context) {
	if h.bridge == nil {
		unavailable(c, "clipboard bridge disabled")
		return
	}

	item, err := h.bridge.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
