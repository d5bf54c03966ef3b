// Package rpc provides the Connect service for the matching engine.
package rpc

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/matching"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
	"github.com/lumiere-aesthetics/matching-engine/internal/recommend"
	"github.com/lumiere-aesthetics/matching-engine/internal/scoring"
)

// ServiceName is the fully-qualified Connect service name.
const ServiceName = "matching.v1.MatchingService"

// Procedure paths.
const (
	OpenSessionProcedure  = "/" + ServiceName + "/OpenSession"
	CloseSessionProcedure = "/" + ServiceName + "/CloseSession"
	BrowseProcedure       = "/" + ServiceName + "/Browse"
	PrefillProcedure      = "/" + ServiceName + "/Prefill"
	RecommendProcedure    = "/" + ServiceName + "/Recommend"
	NormalizeProcedure    = "/" + ServiceName + "/Normalize"
)

// MatchingService implements the Connect matching service.
type MatchingService struct {
	logger *observability.Logger
	svc    *matching.Service
}

// NewMatchingService creates a new matching service.
func NewMatchingService(logger *observability.Logger, svc *matching.Service) *MatchingService {
	return &MatchingService{logger: logger.WithComponent("rpc"), svc: svc}
}

// OpenSessionRequest opens a browse session.
type OpenSessionRequest struct {
	Kind string `json:"kind,omitempty"`
}

// SessionResponse describes an open session.
type SessionResponse struct {
	SessionID  string `json:"session_id"`
	Kind       string `json:"kind"`
	Candidates int    `json:"candidates"`
	Skipped    int    `json:"skipped"`
	ExpiresAt  string `json:"expires_at"`
}

// CloseSessionRequest closes a session.
type CloseSessionRequest struct {
	SessionID string `json:"session_id"`
}

// CloseSessionResponse is empty.
type CloseSessionResponse struct{}

// Criteria is the wire form of the selection criteria.
type Criteria struct {
	Interest  string `json:"interest,omitempty"`
	Issue     string `json:"issue,omitempty"`
	Region    string `json:"region,omitempty"`
	Treatment string `json:"treatment,omitempty"`
}

// BrowseRequest evaluates criteria against a session.
type BrowseRequest struct {
	SessionID string   `json:"session_id"`
	Criteria  Criteria `json:"criteria"`
}

// Candidate is the wire form of a candidate item.
type Candidate struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	DisplayName  string   `json:"display_name"`
	Treatments   []string `json:"treatments"`
	AreaNames    []string `json:"area_names"`
	Surgical     bool     `json:"surgical,omitempty"`
	Caption      string   `json:"caption,omitempty"`
	PhotoURL     string   `json:"photo_url,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
}

// Match is a ranked candidate.
type Match struct {
	Candidate Candidate `json:"candidate"`
	Score     int       `json:"score"`
	Match     string    `json:"match,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// BrowseResponse carries the visible list, options and ranking.
type BrowseResponse struct {
	Criteria         Criteria    `json:"criteria"`
	Visible          []Candidate `json:"visible"`
	TreatmentOptions []string    `json:"treatment_options"`
	RegionOptions    []string    `json:"region_options"`
	Results          []Match     `json:"results"`
	ExactCount       int         `json:"exact_count"`
	CloseCount       int         `json:"close_count"`
	Cached           bool        `json:"cached"`
}

// PrefillRequest builds a plan prefill. Exactly one source is used, in order:
// a session candidate, a finding, then a treatment.
type PrefillRequest struct {
	SessionID      string   `json:"session_id,omitempty"`
	CandidateID    string   `json:"candidate_id,omitempty"`
	Criteria       Criteria `json:"criteria"`
	ExplicitRegion string   `json:"explicit_region,omitempty"`
	Finding        string   `json:"finding,omitempty"`
	Treatment      string   `json:"treatment,omitempty"`
	Context        string   `json:"context,omitempty"`
}

// PrefillResponse wraps a prefill.
type PrefillResponse struct {
	Prefill recommend.Prefill `json:"prefill"`
}

// RecommendRequest asks for finding bundles, goals or products.
type RecommendRequest struct {
	Finding   string `json:"finding,omitempty"`
	Treatment string `json:"treatment,omitempty"`
	Context   string `json:"context,omitempty"`
}

// RecommendResponse holds whatever the request could answer.
type RecommendResponse struct {
	Goal       string   `json:"goal,omitempty"`
	Region     string   `json:"region,omitempty"`
	Treatments []string `json:"treatments,omitempty"`
	Goals      []string `json:"goals,omitempty"`
	Regions    []string `json:"regions,omitempty"`
	Fallback   bool     `json:"fallback,omitempty"`
	Products   []string `json:"products,omitempty"`
}

// NormalizeRequest lists raw treatment tags.
type NormalizeRequest struct {
	Treatments []string `json:"treatments"`
}

// NormalizeResponse lists canonical names, excluded tags dropped.
type NormalizeResponse struct {
	Treatments []string `json:"treatments"`
}

// NewHandler returns the mount path and handler for the service.
func NewHandler(s *MatchingService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(OpenSessionProcedure, connect.NewUnaryHandler(OpenSessionProcedure, s.OpenSession, opts...))
	mux.Handle(CloseSessionProcedure, connect.NewUnaryHandler(CloseSessionProcedure, s.CloseSession, opts...))
	mux.Handle(BrowseProcedure, connect.NewUnaryHandler(BrowseProcedure, s.Browse, opts...))
	mux.Handle(PrefillProcedure, connect.NewUnaryHandler(PrefillProcedure, s.Prefill, opts...))
	mux.Handle(RecommendProcedure, connect.NewUnaryHandler(RecommendProcedure, s.Recommend, opts...))
	mux.Handle(NormalizeProcedure, connect.NewUnaryHandler(NormalizeProcedure, s.Normalize, opts...))
	return "/" + ServiceName + "/", mux
}

// OpenSession handles session creation.
func (s *MatchingService) OpenSession(ctx context.Context, req *connect.Request[OpenSessionRequest]) (*connect.Response[SessionResponse], error) {
	sess, err := s.svc.OpenSession(ctx, candidate.ParseKind(req.Msg.Kind))
	if err != nil {
		s.logger.WithContext(ctx).Error().Err(err).Msg("Open session failed")
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	return connect.NewResponse(toSessionResponse(sess)), nil
}

// CloseSession handles session teardown.
func (s *MatchingService) CloseSession(ctx context.Context, req *connect.Request[CloseSessionRequest]) (*connect.Response[CloseSessionResponse], error) {
	if req.Msg.SessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session_id is required"))
	}
	if err := s.svc.CloseSession(ctx, req.Msg.SessionID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CloseSessionResponse{}), nil
}

// Browse handles criteria evaluation.
func (s *MatchingService) Browse(ctx context.Context, req *connect.Request[BrowseRequest]) (*connect.Response[BrowseResponse], error) {
	if req.Msg.SessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session_id is required"))
	}

	res, err := s.svc.Browse(ctx, req.Msg.SessionID, fromWireCriteria(req.Msg.Criteria))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toBrowseResponse(res)), nil
}

// Prefill handles plan prefill requests.
func (s *MatchingService) Prefill(ctx context.Context, req *connect.Request[PrefillRequest]) (*connect.Response[PrefillResponse], error) {
	msg := req.Msg
	rec := s.svc.Recommender()

	var p recommend.Prefill
	switch {
	case msg.SessionID != "" || msg.CandidateID != "":
		if msg.SessionID == "" || msg.CandidateID == "" {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session_id and candidate_id go together"))
		}
		sess, err := s.svc.Session(ctx, msg.SessionID)
		if err != nil {
			return nil, toConnectError(err)
		}
		p, err = sess.Prefill(msg.CandidateID, fromWireCriteria(msg.Criteria), msg.ExplicitRegion)
		if err != nil {
			return nil, toConnectError(err)
		}
	case msg.Finding != "":
		p = rec.PrefillFromFinding(msg.Finding)
	case msg.Treatment != "":
		p = rec.PrefillFromTreatment(msg.Treatment, msg.Context)
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("one of candidate_id, finding or treatment is required"))
	}

	return connect.NewResponse(&PrefillResponse{Prefill: p}), nil
}

// Recommend handles finding, goal and product lookups.
func (s *MatchingService) Recommend(_ context.Context, req *connect.Request[RecommendRequest]) (*connect.Response[RecommendResponse], error) {
	msg := req.Msg
	if msg.Finding == "" && msg.Treatment == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("finding or treatment is required"))
	}

	rec := s.svc.Recommender()
	resp := &RecommendResponse{}
	if msg.Finding != "" {
		if goal, ok := rec.GoalRegionTreatmentsForFinding(msg.Finding); ok {
			resp.Goal = goal.Goal
			resp.Region = string(goal.Region)
			resp.Treatments = goal.Treatments
		}
	}
	if msg.Treatment != "" {
		gr := rec.GoalsAndRegionsForTreatment(msg.Treatment)
		resp.Goals, resp.Regions, resp.Fallback = gr.Goals, gr.Regions, gr.Fallback
		resp.Products = rec.RecommendedProducts(msg.Treatment, msg.Context)
	}
	return connect.NewResponse(resp), nil
}

// Normalize maps raw treatment tags onto canonical names.
func (s *MatchingService) Normalize(_ context.Context, req *connect.Request[NormalizeRequest]) (*connect.Response[NormalizeResponse], error) {
	return connect.NewResponse(&NormalizeResponse{
		Treatments: s.svc.Normalizer().NormalizeAll(req.Msg.Treatments),
	}), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, matching.ErrSessionNotFound), errors.Is(err, matching.ErrItemNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func fromWireCriteria(c Criteria) criteria.Criteria {
	return criteria.Criteria{Interest: c.Interest, Issue: c.Issue, Region: c.Region, Treatment: c.Treatment}
}

func toWireCriteria(c criteria.Criteria) Criteria {
	return Criteria{Interest: c.Interest, Issue: c.Issue, Region: c.Region, Treatment: c.Treatment}
}

func toSessionResponse(sess *matching.Session) *SessionResponse {
	return &SessionResponse{
		SessionID:  sess.ID,
		Kind:       string(sess.Kind),
		Candidates: sess.Size(),
		Skipped:    sess.Skipped,
		ExpiresAt:  sess.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toCandidate(it candidate.Item) Candidate {
	return Candidate{
		ID:           it.ID,
		Kind:         string(it.Kind),
		DisplayName:  it.DisplayName,
		Treatments:   it.Treatments,
		AreaNames:    it.AreaNames,
		Surgical:     it.Surgical,
		Caption:      it.Caption,
		PhotoURL:     it.PhotoURL,
		ThumbnailURL: it.ThumbnailURL,
	}
}

func toBrowseResponse(res *matching.BrowseResult) *BrowseResponse {
	resp := &BrowseResponse{
		Criteria:         toWireCriteria(res.Criteria),
		Visible:          make([]Candidate, 0, len(res.Visible)),
		TreatmentOptions: res.Options.Treatments,
		RegionOptions:    res.Options.Regions,
		Results:          make([]Match, 0, len(res.Ranking.Results)),
		ExactCount:       len(res.Ranking.Exact),
		CloseCount:       len(res.Ranking.Close),
		Cached:           res.Cached,
	}
	for _, it := range res.Visible {
		resp.Visible = append(resp.Visible, toCandidate(it))
	}
	for _, r := range res.Ranking.Results {
		resp.Results = append(resp.Results, toMatch(r))
	}
	return resp
}

func toMatch(r scoring.Result) Match {
	return Match{Candidate: toCandidate(r.Item), Score: r.Score, Match: string(r.Match), Reason: r.Reason}
}
