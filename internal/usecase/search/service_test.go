package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/cprsearch/internal/domain"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/request"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
)

// --- Mocks ---

type mockGateway struct {
	resp   result.Response
	err    error
	called bool
	got    *request.Parameters
}

func (m *mockGateway) Search(_ context.Context, p *request.Parameters) (result.Response, error) {
	m.called = true
	m.got = p
	return m.resp, m.err
}

// --- Tests ---

func TestSearch_DelegatesToGateway(t *testing.T) {
	gw := &mockGateway{resp: result.Response{
		TotalHits: 2,
		Families:  []result.Family{{ID: "fam", Hits: []result.Hit{result.Document{}, result.Passage{}}}},
	}}
	svc := New(gw)

	params := &request.Parameters{QueryString: "drought"}
	resp, err := svc.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.got != params {
		t.Error("gateway did not receive the caller's parameters")
	}
	if resp.TotalHits != 2 || resp.HitCount() != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestSearch_NilParameters(t *testing.T) {
	gw := &mockGateway{}
	if _, err := New(gw).Search(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.got == nil {
		t.Error("expected empty parameters, got nil")
	}
}

func TestSearch_GatewayError(t *testing.T) {
	cause := errors.New("connection reset")
	gw := &mockGateway{err: domain.NewQueryError(0, cause)}

	_, err := New(gw).Search(context.Background(), &request.Parameters{})
	if !errors.Is(err, domain.ErrQuery) {
		t.Errorf("expected ErrQuery, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause in chain, got %v", err)
	}
}

func TestGetByID_AlwaysNotSupported(t *testing.T) {
	gw := &mockGateway{}
	svc := New(gw)

	for _, id := range []string{"", "CCLW.document.1.0", "anything"} {
		hit, err := svc.GetByID(context.Background(), id)
		if !errors.Is(err, domain.ErrNotSupported) {
			t.Errorf("GetByID(%q) error = %v, want ErrNotSupported", id, err)
		}
		if hit != nil {
			t.Errorf("GetByID(%q) hit = %v, want nil", id, hit)
		}
	}
	if gw.called {
		t.Error("GetByID must not call the API")
	}
}
