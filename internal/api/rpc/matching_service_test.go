package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/matching"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStore []candidate.RawRecord

func (s staticStore) ListByKind(context.Context, candidate.Kind) ([]candidate.RawRecord, error) {
	return s, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := staticStore{
		{"id": "lips-filler", "name": "Balance Lips Case", "treatments": "Fillers", "areas": "Lips"},
		{"id": "lips-tox", "name": "Lip Flip", "treatments": "Botox", "areas": "Lips"},
		{"id": "skin-laser", "name": "Sun Damage Reset", "treatments": "heat/energy", "areas": "Skin All"},
	}
	svc := matching.NewService(store, nil, observability.NopLogger(), matching.Config{SessionTTL: time.Minute, DeriveRegion: true})

	mux := http.NewServeMux()
	path, handler := NewHandler(NewMatchingService(observability.NopLogger(), svc))
	mux.Handle(path, handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func call[Req, Res any](t *testing.T, srv *httptest.Server, procedure string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](srv.Client(), srv.URL+procedure, connect.WithCodec(JSONCodec{}))
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func TestMatchingService_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	sess, err := call[OpenSessionRequest, SessionResponse](t, srv, OpenSessionProcedure, &OpenSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "photo", sess.Kind)
	assert.Equal(t, 3, sess.Candidates)

	browse, err := call[BrowseRequest, BrowseResponse](t, srv, BrowseProcedure, &BrowseRequest{
		SessionID: sess.SessionID,
		Criteria:  Criteria{Interest: "Balance Lips", Treatment: "Filler"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lips", browse.Criteria.Region)
	require.Len(t, browse.Visible, 1)
	assert.Equal(t, "lips-filler", browse.Visible[0].ID)
	assert.Equal(t, []string{"Filler", "Neurotoxin"}, browse.TreatmentOptions)
	require.Len(t, browse.Results, 1)
	assert.NotEmpty(t, browse.Results[0].Reason)

	prefill, err := call[PrefillRequest, PrefillResponse](t, srv, PrefillProcedure, &PrefillRequest{
		SessionID:   sess.SessionID,
		CandidateID: "lips-tox",
	})
	require.NoError(t, err)
	assert.Equal(t, "Neurotoxin", prefill.Prefill.Treatment)
	assert.Equal(t, "Lips", prefill.Prefill.Region)

	_, err = call[CloseSessionRequest, CloseSessionResponse](t, srv, CloseSessionProcedure, &CloseSessionRequest{SessionID: sess.SessionID})
	require.NoError(t, err)

	_, err = call[BrowseRequest, BrowseResponse](t, srv, BrowseProcedure, &BrowseRequest{SessionID: sess.SessionID})
	require.Error(t, err)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestMatchingService_InvalidArguments(t *testing.T) {
	srv := newTestServer(t)

	_, err := call[BrowseRequest, BrowseResponse](t, srv, BrowseProcedure, &BrowseRequest{})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[RecommendRequest, RecommendResponse](t, srv, RecommendProcedure, &RecommendRequest{})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[PrefillRequest, PrefillResponse](t, srv, PrefillProcedure, &PrefillRequest{CandidateID: "x"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[CloseSessionRequest, CloseSessionResponse](t, srv, CloseSessionProcedure, &CloseSessionRequest{SessionID: "missing"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestMatchingService_Recommend(t *testing.T) {
	srv := newTestServer(t)

	resp, err := call[RecommendRequest, RecommendResponse](t, srv, RecommendProcedure, &RecommendRequest{Finding: "Thin Lips"})
	require.NoError(t, err)
	assert.Equal(t, "Balance Lips", resp.Goal)
	assert.Equal(t, "Lips", resp.Region)
	assert.Equal(t, []string{"Filler", "Neurotoxin"}, resp.Treatments)

	resp, err = call[RecommendRequest, RecommendResponse](t, srv, RecommendProcedure, &RecommendRequest{
		Treatment: "kybella",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Define Jawline", "Enhance Chin"}, resp.Goals)
	assert.False(t, resp.Fallback)

	resp, err = call[RecommendRequest, RecommendResponse](t, srv, RecommendProcedure, &RecommendRequest{
		Treatment: "Filler", Context: "more volume in cheek",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hyaluronic acid (HA) – cheek", "Calcium hydroxylapatite (CaHA)"}, resp.Products)
}

func TestMatchingService_PrefillWithoutSession(t *testing.T) {
	srv := newTestServer(t)

	resp, err := call[PrefillRequest, PrefillResponse](t, srv, PrefillProcedure, &PrefillRequest{Finding: "Other finding"})
	require.NoError(t, err)
	assert.Equal(t, "Treatment", resp.Prefill.Treatment)

	resp, err = call[PrefillRequest, PrefillResponse](t, srv, PrefillProcedure, &PrefillRequest{Treatment: "Fillers", Context: "cheek"})
	require.NoError(t, err)
	assert.Equal(t, "Filler", resp.Prefill.Treatment)
}

func TestMatchingService_Normalize(t *testing.T) {
	srv := newTestServer(t)

	resp, err := call[NormalizeRequest, NormalizeResponse](t, srv, NormalizeProcedure, &NormalizeRequest{
		Treatments: []string{"Botox", "tox", "Facelift", " aquagold "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Neurotoxin", "aquagold"}, resp.Treatments)

	resp, err = call[NormalizeRequest, NormalizeResponse](t, srv, NormalizeProcedure, &NormalizeRequest{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Treatments)
}
