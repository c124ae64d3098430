package socketrpc

import (
	"encoding/json"
	"testing"

	"github.com/tinytelemetry/variantscope/internal/model"
)

// stubQuerier returns fixed values for dispatch unit testing.
type stubQuerier struct{}

func (q *stubQuerier) ListCountries() ([]string, error) { return []string{"Chad"}, nil }
func (q *stubQuerier) ListVariants() ([]string, error)  { return []string{"20B"}, nil }
func (q *stubQuerier) VariantsInCountry(country string) ([]string, error) {
	return []string{"20B"}, nil
}
func (q *stubQuerier) TopVariants(country string, metric model.Metric, limit int) ([]model.VariantRecord, error) {
	return []model.VariantRecord{{Country: country, Variant: "20B"}}, nil
}
func (q *stubQuerier) CountryRecords(country string) ([]model.VariantRecord, error) {
	return []model.VariantRecord{{Country: country, Variant: "20B"}}, nil
}
func (q *stubQuerier) Summary() (model.DatasetSummary, error) {
	return model.DatasetSummary{Records: 1, Countries: 1, Variants: 1}, nil
}

func newTestDispatcher() *Server {
	return &Server{store: &stubQuerier{}}
}

func TestDispatch_AllMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		method string
		params string
	}{
		{"ListCountries", `{}`},
		{"ListVariants", `{}`},
		{"VariantsInCountry", `{"Country":"Chad"}`},
		{"TopVariants", `{"Country":"Chad","Metric":"total_deaths","Limit":10}`},
		{"CountryRecords", `{"Country":"Chad"}`},
		{"Summary", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			req := Request{
				JSONRPC: "2.0",
				ID:      1,
				Method:  tt.method,
				Params:  json.RawMessage(tt.params),
			}
			resp := srv.dispatch(req)
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) error: %s", tt.method, resp.Error.Message)
			}
			if resp.Result == nil {
				t.Fatalf("dispatch(%s) returned nil result", tt.method)
			}
			if resp.JSONRPC != "2.0" {
				t.Errorf("JSONRPC = %q, want 2.0", resp.JSONRPC)
			}
			if resp.ID != 1 {
				t.Errorf("ID = %d, want 1", resp.ID)
			}
		})
	}
}

func TestDispatch_MethodNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "NonExistentMethod",
		Params:  json.RawMessage(`{}`),
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("error code = %d, want -32601", resp.Error.Code)
	}
}

func TestDispatch_InvalidParams(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		method string
		params string
	}{
		{"VariantsInCountry", `not json`},
		{"CountryRecords", ``},
		{"TopVariants", `{"Country":"Chad","Metric":"r0","Limit":10}`},
	}
	for _, tt := range tests {
		resp := srv.dispatch(Request{
			JSONRPC: "2.0",
			ID:      2,
			Method:  tt.method,
			Params:  json.RawMessage(tt.params),
		})
		if resp.Error == nil {
			t.Fatalf("%s(%s): expected error", tt.method, tt.params)
		}
		if resp.Error.Code != -32602 {
			t.Errorf("%s: error code = %d, want -32602 (invalid params)", tt.method, resp.Error.Code)
		}
	}
}

func TestDispatch_EmptyParamsOnNoArgMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	for _, method := range []string{"ListCountries", "ListVariants", "Summary"} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()
			resp := srv.dispatch(Request{
				JSONRPC: "2.0",
				ID:      1,
				Method:  method,
				Params:  nil,
			})
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) with nil params: %s", method, resp.Error.Message)
			}
		})
	}
}

func TestDispatch_PreservesRequestID(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	for _, id := range []int{0, 1, 42, 9999} {
		resp := srv.dispatch(Request{
			JSONRPC: "2.0",
			ID:      id,
			Method:  "ListCountries",
			Params:  json.RawMessage(`{}`),
		})
		if resp.ID != id {
			t.Errorf("request ID %d: response ID = %d", id, resp.ID)
		}
	}
}
