// Package client provides the public Go SDK for the matching engine.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
)

const servicePath = "/matching.v1.MatchingService/"

// ErrNotFound is returned when a session or candidate does not exist.
var ErrNotFound = errors.New("not found")

// Config holds client configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is the public SDK client. It speaks the Connect protocol with JSON
// bodies, so it works through plain HTTP/1.1 proxies.
type Client struct {
	openSession  *connect.Client[OpenSessionRequest, Session]
	closeSession *connect.Client[CloseSessionRequest, struct{}]
	browse       *connect.Client[BrowseRequest, BrowseResponse]
	prefill      *connect.Client[PrefillRequest, PrefillResponse]
	recommend    *connect.Client[RecommendRequest, Recommendation]
	normalize    *connect.Client[NormalizeRequest, NormalizeResponse]
}

// New creates a client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8090"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	base := strings.TrimRight(cfg.BaseURL, "/") + servicePath
	opts := []connect.ClientOption{connect.WithCodec(jsonCodec{})}

	return &Client{
		openSession:  connect.NewClient[OpenSessionRequest, Session](httpClient, base+"OpenSession", opts...),
		closeSession: connect.NewClient[CloseSessionRequest, struct{}](httpClient, base+"CloseSession", opts...),
		browse:       connect.NewClient[BrowseRequest, BrowseResponse](httpClient, base+"Browse", opts...),
		prefill:      connect.NewClient[PrefillRequest, PrefillResponse](httpClient, base+"Prefill", opts...),
		recommend:    connect.NewClient[RecommendRequest, Recommendation](httpClient, base+"Recommend", opts...),
		normalize:    connect.NewClient[NormalizeRequest, NormalizeResponse](httpClient, base+"Normalize", opts...),
	}
}

// OpenSessionRequest opens a browse session.
type OpenSessionRequest struct {
	Kind string `json:"kind,omitempty"`
}

// Session describes an open browse session.
type Session struct {
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

// Criteria selects candidates. Empty fields place no restriction.
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

// Candidate is one photo or suggestion card.
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

// PrefillRequest builds a plan prefill from a session candidate, a finding
// or a treatment, checked in that order.
type PrefillRequest struct {
	SessionID      string   `json:"session_id,omitempty"`
	CandidateID    string   `json:"candidate_id,omitempty"`
	Criteria       Criteria `json:"criteria"`
	ExplicitRegion string   `json:"explicit_region,omitempty"`
	Finding        string   `json:"finding,omitempty"`
	Treatment      string   `json:"treatment,omitempty"`
	Context        string   `json:"context,omitempty"`
}

// Prefill seeds a new plan entry.
type Prefill struct {
	Interest         string   `json:"interest"`
	Region           string   `json:"region"`
	Treatment        string   `json:"treatment"`
	TreatmentProduct string   `json:"treatmentProduct,omitempty"`
	Findings         []string `json:"findings,omitempty"`
	Timeline         string   `json:"timeline,omitempty"`
	Quantity         string   `json:"quantity,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

// PrefillResponse wraps a prefill.
type PrefillResponse struct {
	Prefill Prefill `json:"prefill"`
}

// RecommendRequest asks for a finding bundle, treatment goals or products.
type RecommendRequest struct {
	Finding   string `json:"finding,omitempty"`
	Treatment string `json:"treatment,omitempty"`
	Context   string `json:"context,omitempty"`
}

// Recommendation holds whatever the request could answer.
type Recommendation struct {
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

// NormalizeResponse lists canonical treatment names.
type NormalizeResponse struct {
	Treatments []string `json:"treatments"`
}

// OpenSession snapshots the candidates of kind ("photo" when empty).
func (c *Client) OpenSession(ctx context.Context, kind string) (*Session, error) {
	return unary(ctx, c.openSession, &OpenSessionRequest{Kind: kind})
}

// CloseSession releases a session.
func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	_, err := unary(ctx, c.closeSession, &CloseSessionRequest{SessionID: sessionID})
	return err
}

// Browse evaluates criteria against a session.
func (c *Client) Browse(ctx context.Context, sessionID string, criteria Criteria) (*BrowseResponse, error) {
	return unary(ctx, c.browse, &BrowseRequest{SessionID: sessionID, Criteria: criteria})
}

// Prefill builds a plan prefill.
func (c *Client) Prefill(ctx context.Context, req PrefillRequest) (*Prefill, error) {
	resp, err := unary(ctx, c.prefill, &req)
	if err != nil {
		return nil, err
	}
	return &resp.Prefill, nil
}

// Recommend answers a recommendation query.
func (c *Client) Recommend(ctx context.Context, req RecommendRequest) (*Recommendation, error) {
	return unary(ctx, c.recommend, &req)
}

// Normalize maps raw treatment tags onto canonical names.
func (c *Client) Normalize(ctx context.Context, treatments ...string) ([]string, error) {
	resp, err := unary(ctx, c.normalize, &NormalizeRequest{Treatments: treatments})
	if err != nil {
		return nil, err
	}
	return resp.Treatments, nil
}

func unary[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], msg *Req) (*Res, error) {
	resp, err := c.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		if connect.CodeOf(err) == connect.CodeNotFound {
			return nil, errors.Join(ErrNotFound, err)
		}
		return nil, err
	}
	return resp.Msg, nil
}

type jsonCodec struct{}

func (jsonCodec) Name() string                    { return "json" }
func (jsonCodec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
