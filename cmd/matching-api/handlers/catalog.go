package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lumiere-aesthetics/matching-engine/internal/normalize"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
	"github.com/lumiere-aesthetics/matching-engine/internal/recommend"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
)

// CatalogHandler serves taxonomy lookups, recommendations and normalization.
// None of these need a session.
type CatalogHandler struct {
	logger      *observability.Logger
	registry    *taxonomy.Registry
	normalizer  *normalize.Normalizer
	recommender *recommend.Recommender
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(logger *observability.Logger, reg *taxonomy.Registry, n *normalize.Normalizer, rec *recommend.Recommender) *CatalogHandler {
	return &CatalogHandler{logger: logger, registry: reg, normalizer: n, recommender: rec}
}

// ListDTO wraps a name list.
type ListDTO struct {
	Items []string `json:"items"`
}

// SuggestionDTO describes one suggestion.
type SuggestionDTO struct {
	Name   string   `json:"name"`
	Area   string   `json:"area,omitempty"`
	Issues []string `json:"issues"`
}

// ConcernDTO describes one concern.
type ConcernDTO struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Areas    []string `json:"areas"`
}

// IssueDTO describes one issue.
type IssueDTO struct {
	Name       string       `json:"name"`
	Area       string       `json:"area,omitempty"`
	Areas      []string     `json:"areas"`
	Categories []string     `json:"categories"`
	Concerns   []ConcernDTO `json:"concerns"`
	Treatments []string     `json:"treatments"`
}

// TreatmentDTO describes one treatment category.
type TreatmentDTO struct {
	Name     string         `json:"name"`
	Products []string       `json:"products"`
	Meta     *taxonomy.Meta `json:"meta,omitempty"`
	Goals    []string       `json:"goals"`
	Regions  []string       `json:"regions"`
	Fallback bool           `json:"fallback"`
}

// NormalizeDTO carries raw or canonical treatment names.
type NormalizeDTO struct {
	Treatments []string `json:"treatments"`
}

// PrefillDTO is the body of POST /prefill.
type PrefillDTO struct {
	Finding   string `json:"finding,omitempty"`
	Treatment string `json:"treatment,omitempty"`
	Context   string `json:"context,omitempty"`
}

// ListSuggestions handles GET /taxonomy/suggestions.
func (h *CatalogHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListDTO{Items: h.registry.Suggestions()})
}

// ListIssues handles GET /taxonomy/issues.
func (h *CatalogHandler) ListIssues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListDTO{Items: h.registry.Issues()})
}

// ListAreas handles GET /taxonomy/areas.
func (h *CatalogHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas := h.registry.Areas()
	items := make([]string, 0, len(areas))
	for _, a := range areas {
		items = append(items, string(a))
	}
	writeJSON(w, http.StatusOK, ListDTO{Items: items})
}

// ListTreatments handles GET /taxonomy/treatments.
func (h *CatalogHandler) ListTreatments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListDTO{Items: h.registry.Treatments()})
}

// GetSuggestion handles GET /taxonomy/suggestions/{name}.
func (h *CatalogHandler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	area, ok := h.registry.AreaForSuggestion(name)
	if !ok {
		writeError(w, http.StatusNotFound, "suggestion not found", name)
		return
	}
	writeJSON(w, http.StatusOK, SuggestionDTO{
		Name:   name,
		Area:   string(area),
		Issues: h.registry.IssuesForSuggestion(name),
	})
}

// GetIssue handles GET /taxonomy/issues/{name}.
func (h *CatalogHandler) GetIssue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	concerns := h.registry.ConcernsForIssue(name)
	if len(concerns) == 0 {
		writeError(w, http.StatusNotFound, "issue not found", name)
		return
	}

	dto := IssueDTO{
		Name:       name,
		Areas:      areaStrings(h.registry.AreasForIssue(name)),
		Categories: []string{},
		Concerns:   make([]ConcernDTO, 0, len(concerns)),
		Treatments: h.registry.TreatmentsForIssue(name),
	}
	if area, ok := h.registry.AreaForIssue(name); ok {
		dto.Area = string(area)
	}
	for _, c := range h.registry.CategoriesForIssue(name) {
		dto.Categories = append(dto.Categories, string(c))
	}
	for _, c := range concerns {
		dto.Concerns = append(dto.Concerns, ConcernDTO{Name: c.Name, Category: string(c.Category), Areas: areaStrings(c.Areas)})
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetTreatment handles GET /taxonomy/treatments/{name}. Unknown names still
// resolve, with fallback goals and no products.
func (h *CatalogHandler) GetTreatment(w http.ResponseWriter, r *http.Request) {
	name := h.normalizer.NormalizeTreatment(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, http.StatusNotFound, "treatment is excluded", chi.URLParam(r, "name"))
		return
	}

	gr := h.recommender.GoalsAndRegionsForTreatment(name)
	dto := TreatmentDTO{
		Name:     name,
		Products: h.registry.ProductsForTreatment(name),
		Goals:    gr.Goals,
		Regions:  gr.Regions,
		Fallback: gr.Fallback,
	}
	if meta, ok := h.registry.MetaForTreatment(name); ok {
		dto.Meta = &meta
	}
	writeJSON(w, http.StatusOK, dto)
}

// Normalize handles POST /treatments/normalize.
func (h *CatalogHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	var req NormalizeDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, NormalizeDTO{Treatments: h.normalizer.NormalizeAll(req.Treatments)})
}

// FindingGoal handles GET /recommendations/findings/{finding}.
func (h *CatalogHandler) FindingGoal(w http.ResponseWriter, r *http.Request) {
	finding := chi.URLParam(r, "finding")
	goal, ok := h.recommender.GoalRegionTreatmentsForFinding(finding)
	if !ok {
		writeError(w, http.StatusNotFound, "no recommendation for finding", finding)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// Products handles GET /recommendations/treatments/{treatment}/products?context=.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	products := h.recommender.RecommendedProducts(chi.URLParam(r, "treatment"), r.URL.Query().Get("context"))
	writeJSON(w, http.StatusOK, ListDTO{Items: products})
}

// Prefill handles POST /prefill for findings and treatments.
func (h *CatalogHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	var req PrefillDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	switch {
	case req.Finding != "":
		writeJSON(w, http.StatusOK, h.recommender.PrefillFromFinding(req.Finding))
	case req.Treatment != "":
		writeJSON(w, http.StatusOK, h.recommender.PrefillFromTreatment(req.Treatment, req.Context))
	default:
		writeError(w, http.StatusBadRequest, "finding or treatment is required", "")
	}
}

func areaStrings(areas []taxonomy.Area) []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		out = append(out, string(a))
	}
	return out
}
