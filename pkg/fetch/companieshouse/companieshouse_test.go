package companieshouse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/search/companies":
			w.Write([]byte(`{"items":[{"company_number":"01234567","title":"ACME LTD"}]}`))
		case "/company/01234567":
			w.Write([]byte(`{"company_name":"ACME LTD","company_status":"active","type":"ltd"}`))
		case "/company/01234567/officers":
			w.Write([]byte(`{"items":[{"name":"DOE, Jane"},{"name":"SMITH, John"},{"officer_role":"secretary"}]}`))
		case "/company/01234567/persons-with-significant-control":
			w.Write([]byte(`{"items":[{"name":"Holdings Plc"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSearchCompany_FullChain(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	client := NewClient(ClientParams{BaseURL: srv.URL, APIKey: "test-key"})
	record, err := client.SearchCompany(context.Background(), "Acme Ltd")
	if err != nil {
		t.Fatalf("SearchCompany failed: %v", err)
	}

	if record.CompanyNumber != "01234567" {
		t.Fatalf("company number = %q, want %q", record.CompanyNumber, "01234567")
	}
	wantOfficers := []string{"DOE, Jane", "SMITH, John"}
	if !reflect.DeepEqual(record.Officers, wantOfficers) {
		t.Fatalf("officers = %v, want %v", record.Officers, wantOfficers)
	}
	wantPSC := []string{"Holdings Plc"}
	if !reflect.DeepEqual(record.PSC, wantPSC) {
		t.Fatalf("PSC = %v, want %v", record.PSC, wantPSC)
	}
	if got := gjson.GetBytes(record.CompanyData, "company_status").String(); got != "active" {
		t.Fatalf("company profile not kept verbatim, status = %q", got)
	}
}

func TestSearchCompany_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientParams{BaseURL: srv.URL, APIKey: "test-key"})
	if _, err := client.SearchCompany(context.Background(), "Nonexistent"); err == nil {
		t.Fatal("expected error for empty search")
	}
}

func TestSearchCompany_OfficersFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/companies":
			w.Write([]byte(`{"items":[{"company_number":"99999999"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(ClientParams{BaseURL: srv.URL, APIKey: "test-key"})
	record, err := client.SearchCompany(context.Background(), "Acme Ltd")
	if err != nil {
		t.Fatalf("SearchCompany failed: %v", err)
	}
	if len(record.Officers) != 0 {
		t.Fatalf("officers = %v, want empty", record.Officers)
	}
	if record.Officers == nil {
		t.Fatal("officers should be an empty slice, not nil")
	}
}

func TestSearchCompany_RequiresAPIKey(t *testing.T) {
	client := NewClient(ClientParams{BaseURL: "http://localhost:0"})
	if _, err := client.SearchCompany(context.Background(), "Acme Ltd"); err == nil {
		t.Fatal("expected error without API key")
	}
}
