package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/azure-innovate/procheck/analyzer"
	"github.com/azure-innovate/procheck/auditlog"
	"github.com/azure-innovate/procheck/orchestrator"
	"github.com/azure-innovate/procheck/session"
	"github.com/azure-innovate/procheck/sop"
	"github.com/azure-innovate/procheck/storage"
	"github.com/azure-innovate/procheck/summary"
	"github.com/azure-innovate/procheck/types"
)

// Scoring receives threshold updates so later scans score against them
type Scoring interface {
	SetThresholds(types.ThresholdSettings)
}

// Handler serves the dashboard API
type Handler struct {
	store    storage.Storage
	orch     *orchestrator.Orchestrator
	recorder *auditlog.Recorder
	sessions *session.Manager
	summary  *summary.Service
	scoring  Scoring
}

// NewHandler wires the API handler to its collaborators
func NewHandler(store storage.Storage, orch *orchestrator.Orchestrator, recorder *auditlog.Recorder, sessions *session.Manager, summarySvc *summary.Service, scoring Scoring) *Handler {
	return &Handler{
		store:    store,
		orch:     orch,
		recorder: recorder,
		sessions: sessions,
		summary:  summarySvc,
		scoring:  scoring,
	}
}

type onboardRequest struct {
	Name           string `json:"name"`
	SubscriptionID string `json:"subscriptionId"`
	ClientID       string `json:"clientId,omitempty"`
	DirectoryID    string `json:"tenantId,omitempty"`
	Location       string `json:"location"`
}

type loginRequest struct {
	Role  types.UserRole `json:"role"`
	Email string         `json:"email"`
}

type scanResponse struct {
	TenantID string `json:"tenantId"`
	Scanning bool   `json:"scanning"`
}

type syncResponse struct {
	Triggered int  `json:"triggered"`
	Batch     bool `json:"batch"`
}

type inventoryResponse struct {
	Resources []types.ResourceIssue  `json:"resources"`
	Stats     analyzer.ResourceStats `json:"stats"`
	Types     []string               `json:"types"`
}

// ListTenants returns the tenant collection, optionally filtered by the
// dashboard's search/status/location/onboarding query parameters
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.store.GetTenants(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}

	q := r.URL.Query()
	filter := types.TenantFilter{
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		Location:   q.Get("location"),
		Onboarding: q.Get("onboarding"),
	}
	respondJSON(w, r, http.StatusOK, analyzer.FilterTenants(tenants, filter))
}

// OnboardTenant registers a new tenant in Pending state with an empty
// checklist; its first scan fills the checklist in
func (h *Handler) OnboardTenant(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" || req.SubscriptionID == "" {
		respondError(w, r, http.StatusBadRequest, errors.New("name and subscriptionId are required"))
		return
	}

	ctx := r.Context()
	tenant := types.Tenant{
		ID:               uuid.NewString(),
		Name:             req.Name,
		SubscriptionID:   req.SubscriptionID,
		ClientID:         req.ClientID,
		DirectoryID:      req.DirectoryID,
		Location:         req.Location,
		Status:           types.StatusUnknown,
		Checklist:        []types.ChecklistItem{},
		OnboardingStatus: types.OnboardingPending,
	}

	if err := h.store.AddTenant(ctx, tenant); err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}

	h.logEvent(r, types.LogEntry{
		Type:       types.LogTenant,
		Severity:   types.SeverityInfo,
		User:       h.actor(ctx),
		Message:    "Tenant onboarded: " + tenant.Name,
		TargetID:   tenant.ID,
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
	})
	respondJSON(w, r, http.StatusCreated, tenant)
}

// GetTenant returns one tenant by id
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, ok, err := h.store.GetTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		respondError(w, r, http.StatusNotFound, errors.New("tenant not found"))
		return
	}
	respondJSON(w, r, http.StatusOK, tenant)
}

// UpdateTenant patches mutable tenant fields. Checklist and status are
// owned by the scan engine and cannot be written here.
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string                 `json:"name,omitempty"`
		Location         string                 `json:"location,omitempty"`
		OnboardingStatus types.OnboardingStatus `json:"onboardingStatus,omitempty"`
		EngineerNotes    *string                `json:"engineerNotes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}

	id := chi.URLParam(r, "id")
	ctx := r.Context()

	_, ok, err := h.store.GetTenant(ctx, id)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		respondError(w, r, http.StatusNotFound, errors.New("tenant not found"))
		return
	}

	err = h.store.UpdateTenant(ctx, id, func(t *types.Tenant) {
		if req.Name != "" {
			t.Name = req.Name
		}
		if req.Location != "" {
			t.Location = req.Location
		}
		if req.OnboardingStatus != "" {
			t.OnboardingStatus = req.OnboardingStatus
		}
		if req.EngineerNotes != nil {
			t.EngineerNotes = *req.EngineerNotes
		}
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}

	tenant, _, err := h.store.GetTenant(ctx, id)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, r, http.StatusOK, tenant)
}

// DeleteTenant removes a tenant from the portfolio
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	removed, ok, err := h.store.RemoveTenant(ctx, id)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		respondError(w, r, http.StatusNotFound, errors.New("tenant not found"))
		return
	}

	h.logEvent(r, types.LogEntry{
		Type:       types.LogTenant,
		Severity:   types.SeverityWarning,
		User:       h.actor(ctx),
		Message:    "Tenant removed from portfolio: " + removed.Name,
		TargetID:   removed.ID,
		TenantID:   removed.ID,
		TenantName: removed.Name,
	})
	w.WriteHeader(http.StatusNoContent)
}

// ScanTenant triggers one tenant's audit scan
func (h *Handler) ScanTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.orch.ScanTenant(r.Context(), id, h.actor(r.Context())); err != nil {
		respondError(w, r, http.StatusNotFound, err)
		return
	}
	respondJSON(w, r, http.StatusAccepted, scanResponse{TenantID: id, Scanning: true})
}

// Sync triggers the staggered global audit sync
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	count, err := h.orch.BatchScan(r.Context(), h.actor(r.Context()))
	switch {
	case errors.Is(err, orchestrator.ErrBatchInProgress):
		respondError(w, r, http.StatusConflict, err)
		return
	case errors.Is(err, orchestrator.ErrNoTenants):
		respondError(w, r, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, r, http.StatusAccepted, syncResponse{Triggered: count, Batch: true})
}

// Stats returns the portfolio dashboard statistics
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.store.GetTenants(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, r, http.StatusOK, analyzer.ComputeStats(tenants))
}

// ListResources returns the global resource inventory with readiness
// stats, filtered by the inventory view's search/type parameters
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.store.GetTenants(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}

	all := analyzer.PortfolioResources(tenants)
	filtered := analyzer.FilterResources(all, r.URL.Query().Get("search"), r.URL.Query().Get("type"))
	respondJSON(w, r, http.StatusOK, inventoryResponse{
		Resources: filtered,
		Stats:     analyzer.ComputeResourceStats(all),
		Types:     analyzer.ResourceTypes(all),
	})
}

// TenantResources returns one tenant's resources, deduplicated by name
func (h *Handler) TenantResources(w http.ResponseWriter, r *http.Request) {
	tenant, ok, err := h.store.GetTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		respondError(w, r, http.StatusNotFound, errors.New("tenant not found"))
		return
	}
	respondJSON(w, r, http.StatusOK, analyzer.TenantResources(*tenant))
}

// TenantSummary returns the generative health narrative for a tenant
func (h *Handler) TenantSummary(w http.ResponseWriter, r *http.Request) {
	tenant, ok, err := h.store.GetTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		respondError(w, r, http.StatusNotFound, errors.New("tenant not found"))
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{
		"tenantId": tenant.ID,
		"summary":  h.summary.HealthSummary(r.Context(), *tenant),
	})
}

// ListLogs returns the audit trail, newest first, optionally filtered by
// severity or type
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.recorder.List(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, r, http.StatusOK, auditlog.Filter(logs, r.URL.Query().Get("filter")))
}

// GetSettings returns the saved thresholds, falling back to the defaults
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	if settings == nil {
		defaults := sop.DefaultThresholds()
		settings = &defaults
	}
	respondJSON(w, r, http.StatusOK, settings)
}

// SaveSettings replaces the threshold settings wholesale
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings types.ThresholdSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := h.store.SaveSettings(r.Context(), settings); err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	if h.scoring != nil {
		h.scoring.SetThresholds(settings)
	}
	respondJSON(w, r, http.StatusOK, settings)
}

// ListEngineers returns the engineer roster
func (h *Handler) ListEngineers(w http.ResponseWriter, r *http.Request) {
	engineers, err := h.store.GetEngineers(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, r, http.StatusOK, engineers)
}

// Login grants a session for the submitted role and email
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Role == "" || req.Email == "" {
		respondError(w, r, http.StatusBadRequest, errors.New("role and email are required"))
		return
	}

	user, err := h.sessions.Login(r.Context(), req.Role, req.Email)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

// Logout clears the current session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CurrentSession returns the active session user, or 404 when logged out
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessions.Current(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	if user == nil {
		respondError(w, r, http.StatusNotFound, errors.New("no active session"))
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

type sopResponse struct {
	Requirements []sop.Requirement       `json:"requirements"`
	Failures     []sop.Failure           `json:"failures"`
	Defaults     types.ThresholdSettings `json:"defaults"`
}

// SOP returns the requirement catalog, the failure taxonomy and the
// default thresholds as reference data for the dashboard
func (h *Handler) SOP(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, sopResponse{
		Requirements: sop.Requirements,
		Failures:     sop.Failures(),
		Defaults:     sop.DefaultThresholds(),
	})
}

type uxFlagsResponse struct {
	GuideSeen     bool     `json:"guideSeen"`
	TutorialsSeen []string `json:"tutorialsSeen"`
}

// UXFlags returns the first-run guide and tutorial dismissal flags
func (h *Handler) UXFlags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	guideSeen, err := h.sessions.GuideSeen(ctx)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	tutorials, err := h.sessions.TutorialsSeen(ctx)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, r, http.StatusOK, uxFlagsResponse{GuideSeen: guideSeen, TutorialsSeen: tutorials})
}

// DismissGuide records the onboarding guide dismissal
func (h *Handler) DismissGuide(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DismissGuide(r.Context()); err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DismissTutorial marks one page's tutorial as dismissed
func (h *Handler) DismissTutorial(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DismissTutorial(r.Context(), chi.URLParam(r, "page")); err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// actor resolves the acting user name from the stored session
func (h *Handler) actor(ctx context.Context) string {
	user, err := h.sessions.Current(ctx)
	if err != nil || user == nil {
		return "System"
	}
	return user.Name
}

func (h *Handler) logEvent(r *http.Request, entry types.LogEntry) {
	if _, err := h.recorder.Append(r.Context(), entry); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to append audit log entry")
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, code int, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Int("status", code).Msg("request failed")
	respondJSON(w, r, code, map[string]string{"error": err.Error()})
}
