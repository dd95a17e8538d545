// ABOUTME: Tests for the compute client against an httptest service.
// ABOUTME: Covers query encoding, request IDs, NaN sanitizing, HTTP error bodies, and validation failures.
package compute

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2389-research/tauplane/plane"
)

func generalRequest(points int) plane.PlotRequest {
	return plane.PlotRequest{
		Range:         5,
		Points:        points,
		Plane:         plane.PlaneZ,
		Function:      plane.FunctionSpec{Expr: "z^2"},
		LiminalRadius: 2,
	}
}

func TestFetchEncodesQueryAndRequestID(t *testing.T) {
	var gotQuery, gotID, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tau_x":[0,1],"tau_y":[0,1],"magnitude":[[1,2],[3,4]],"phase":[[0,0],[0,0]],"type":"general_func","analysis":{}}`)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL+"/").Fetch(context.Background(), generalRequest(2))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotPath != PlotDataPath {
		t.Errorf("path = %q, want %q", gotPath, PlotDataPath)
	}
	for _, want := range []string{"plot_type=general_func", "plane=z_plane", "tau_min=-5", "tau_max=5", "analyze=true", "function=z%5E2"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
	if len(gotID) != 36 {
		t.Errorf("X-Request-ID = %q, want a uuid", gotID)
	}
	if resp.Shape() != plane.ShapeGeneral {
		t.Errorf("shape = %v, want general_func", resp.Shape())
	}
}

func TestFetchSanitizesNonFiniteLiterals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tau_x":[-1,1],"tau_y":[-1,1],"magnitude":[[NaN,Infinity],[-Infinity,2]],"phase":[[0,0],[0,0]],"type":"general_func","function":"NaN","analysis":{}}`)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Fetch(context.Background(), generalRequest(2))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	for _, v := range []float64{resp.Magnitude[0][0], resp.Magnitude[0][1], resp.Magnitude[1][0]} {
		if !math.IsNaN(v) {
			t.Errorf("non-finite literal decoded as %v, want NaN", v)
		}
	}
	if resp.Magnitude[1][1] != 2 {
		t.Errorf("finite entry = %v, want 2", resp.Magnitude[1][1])
	}
	if resp.Function != "NaN" {
		t.Errorf("string value rewritten: %q", resp.Function)
	}
}

func TestSanitizeNonFiniteLeavesStringsAlone(t *testing.T) {
	in := `{"a":"say \"NaN\" Infinity","b":[NaN,-Infinity]}`
	want := `{"a":"say \"NaN\" Infinity","b":[null,null]}`
	if got := string(SanitizeNonFinite([]byte(in))); got != want {
		t.Errorf("SanitizeNonFinite = %s, want %s", got, want)
	}
}

func TestFetchHTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"service message", http.StatusBadRequest, `{"error":"Function evaluation error: division by zero"}`, "Function evaluation error: division by zero"},
		{"no body", http.StatusInternalServerError, ``, "HTTP error! status: 500"},
		{"non-json body", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP error! status: 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Fetch(context.Background(), generalRequest(2))
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("error = %v, want *HTTPError", err)
			}
			if httpErr.StatusCode != tt.status || httpErr.Message != tt.wantMsg {
				t.Errorf("got status=%d message=%q", httpErr.StatusCode, httpErr.Message)
			}
			var base *FetchError
			if !errors.As(err, &base) {
				t.Error("HTTPError should match *FetchError")
			}
		})
	}
}

func TestFetchRejectsInvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{"not json", `{"tau_x":`, &DecodeError{}},
		{"wrong resolution", `{"tau_x":[0],"tau_y":[0],"magnitude":[[0]],"phase":[[0]],"type":"general_func"}`, &InvalidResponseError{}},
		{"mixed shape", `{"tau_x":[0,1],"tau_y":[0,1],"magnitude":[[0,0],[0,0]],"phase":[[0,0],[0,0]],"type":"general_func","zeros":{"x":[],"y":[]},"analysis":{}}`, &InvalidResponseError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Fetch(context.Background(), generalRequest(2))
			switch tt.want.(type) {
			case *DecodeError:
				var de *DecodeError
				if !errors.As(err, &de) {
					t.Errorf("error = %v, want *DecodeError", err)
				}
			case *InvalidResponseError:
				var ie *InvalidResponseError
				if !errors.As(err, &ie) {
					t.Errorf("error = %v, want *InvalidResponseError", err)
				}
			}
		})
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Fetch(context.Background(), generalRequest(2))
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
}

func TestFetchZetaQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"tau_x":[0,1],"tau_y":[0,1],"magnitude":[[0,0],[0,0]],"phase":[[0,0],[0,0]],"type":"zeta","critical_line":{"x":[0.5,0.5],"y":[0,1]},"zeros":{"x":[0.5],"y":[14.13]}}`)
	}))
	defer srv.Close()

	req := plane.PlotRequest{Range: 3, Points: 2, Plane: plane.PlaneTau, Function: plane.FunctionSpec{Zeta: true}, NumZeros: 5, CriticalLineExtent: 50, LiminalRadius: 1}
	resp, err := NewClient(srv.URL).Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.Shape() != plane.ShapeZeta || resp.Zeros.Len() != 1 {
		t.Errorf("shape = %v zeros = %d", resp.Shape(), resp.Zeros.Len())
	}
	for _, want := range []string{"plot_type=zeta", "num_zeros=5", "t_max_crit=50"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
	if strings.Contains(gotQuery, "function=") {
		t.Errorf("zeta query should not carry a function: %q", gotQuery)
	}
}
