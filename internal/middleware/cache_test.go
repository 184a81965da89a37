package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func requestMaterial(e *echo.Echo, target string) string {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	// Parameterized route, as mounted for the single-record fetch.
	c.SetPath("/v1/records/:id")
	return keyMaterial(c)
}

func TestCacheKeyDistinguishesPathParams(t *testing.T) {
	e := echo.New()

	// Two records behind the same route template must never share a cache
	// entry; the edit form pre-fill depends on getting that record's values.
	if requestMaterial(e, "/v1/records/1") == requestMaterial(e, "/v1/records/2") {
		t.Fatalf("different record ids share cache key material")
	}
	if requestMaterial(e, "/v1/records/1") != requestMaterial(e, "/v1/records/1") {
		t.Fatalf("repeated fetch of the same record must hit the same key")
	}
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	e := echo.New()
	a := requestMaterial(e, "/v1/records/1?page=1")
	b := requestMaterial(e, "/v1/records/1?page=2")
	if a == b {
		t.Fatalf("query string not part of the cache key")
	}
}

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"records":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatalf("decode rejected a valid payload")
	}
	if status != http.StatusOK || gotHdr.Get("Content-Type") != "application/json" || string(gotBody) != string(body) {
		t.Fatalf("payload round trip mismatch: %d %v %q", status, gotHdr, gotBody)
	}

	if _, _, _, ok := decodePayload([]byte{1, 2, 3}); ok {
		t.Fatalf("decode accepted a truncated payload")
	}
}
