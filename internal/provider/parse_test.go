package provider

import (
	"encoding/json"
	"testing"
)

func TestParseRate(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"json number", float64(1500), 1500},
		{"int", 250, 250},
		{"plain string", "1500", 1500},
		{"dot thousands", "10.200", 10200},
		{"double dot thousands", "1.234.567", 1234567},
		{"decimal comma", "10,5", 10.5},
		{"decimal dot short tail", "10.25", 10.25},
		{"currency prefix", "Rp 1.500", 1500},
		{"spaces", "  42  ", 42},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"mixed separators no 3-digit tail", "1.22.33", 12233},
		{"bool", true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseRate(tc.in); got != tc.want {
				t.Fatalf("ParseRate(%v) = %v; want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		name string
		in   any
		def  int64
		want int64
	}{
		{"nil uses default", nil, 1, 1},
		{"json number", float64(500), 1, 500},
		{"plain string", "100", 1, 100},
		{"dot separated", "10.000", 1, 10000},
		{"comma separated", "1,000", 1, 1000},
		{"garbage uses default", "banyak", 999999, 999999},
		{"empty uses default", "  ", 7, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseQuantity(tc.in, tc.def); got != tc.want {
				t.Fatalf("ParseQuantity(%v, %d) = %d; want %d", tc.in, tc.def, got, tc.want)
			}
		})
	}
}

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad fixture %q: %v", raw, err)
	}
	return v
}

func TestExtractList_Shapes(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantLen int
		wantOK  bool
	}{
		{"raw array", `[{"id":1},{"id":2}]`, 2, true},
		{"under data", `{"data":[{"id":1}]}`, 1, true},
		{"under services", `{"services":[{"id":1},{"id":2},{"id":3}]}`, 3, true},
		{"under result", `{"result":[]}`, 0, true},
		{"under response", `{"response":[{"id":9}]}`, 1, true},
		{"single object promoted", `{"data":{"id":1}}`, 1, true},
		{"no known wrapper", `{"items":[{"id":1}]}`, 0, false},
		{"scalar", `"nope"`, 0, false},
		{"wrapper holds scalar", `{"data":"nope"}`, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, ok := extractList(decode(t, tc.raw))
			if ok != tc.wantOK {
				t.Fatalf("ok = %v; want %v", ok, tc.wantOK)
			}
			if ok && len(items) != tc.wantLen {
				t.Fatalf("len = %d; want %d", len(items), tc.wantLen)
			}
		})
	}
}

func TestExtractOrderID(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"top-level id", `{"id":"777"}`, "777", true},
		{"top-level numeric id", `{"id":12345}`, "12345", true},
		{"top-level order", `{"order":"ab-1"}`, "ab-1", true},
		{"top-level order_id", `{"order_id":42}`, "42", true},
		{"nested under data", `{"status":true,"data":{"id":"900"}}`, "900", true},
		{"nested order_id", `{"data":{"order_id":"901"}}`, "901", true},
		{"top level wins over nested", `{"id":"1","data":{"id":"2"}}`, "1", true},
		{"no id anywhere", `{"status":true,"msg":"ok"}`, "", false},
		{"empty id skipped", `{"id":"  ","data":{"order":"3"}}`, "3", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, ok := asObject(decode(t, tc.raw))
			if !ok {
				t.Fatalf("fixture is not an object")
			}
			id, ok := extractOrderID(obj)
			if ok != tc.wantOK || id != tc.want {
				t.Fatalf("extractOrderID = (%q, %v); want (%q, %v)", id, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestFailureEnvelopeAndMessage(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		failure bool
		msg     string
	}{
		{"bool false", `{"status":false,"msg":"Saldo tidak cukup"}`, true, "Saldo tidak cukup"},
		{"bool true", `{"status":true}`, false, ""},
		{"string error", `{"status":"error","message":"invalid service"}`, true, "invalid service"},
		{"string gagal", `{"status":"gagal","pesan":"layanan tidak aktif"}`, true, "layanan tidak aktif"},
		{"string success", `{"status":"success"}`, false, ""},
		{"no status key", `{"data":{"id":1}}`, false, ""},
		{"error key message", `{"status":"failed","error":"bad key"}`, true, "bad key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, _ := asObject(decode(t, tc.raw))
			if got := isFailureEnvelope(obj); got != tc.failure {
				t.Fatalf("isFailureEnvelope = %v; want %v", got, tc.failure)
			}
			if tc.failure {
				if got := rejectionMessage(obj); got != tc.msg {
					t.Fatalf("rejectionMessage = %q; want %q", got, tc.msg)
				}
			}
		})
	}
}

func TestNormalizeService(t *testing.T) {
	t.Run("indonesian field names", func(t *testing.T) {
		raw, _ := asObject(decode(t, `{
			"sid": 101,
			"kategori": "Instagram",
			"layanan": "IG Likes Indo",
			"min": "100",
			"max": "10.000",
			"harga": "10.200"
		}`))
		svc, ok := normalizeService(raw)
		if !ok {
			t.Fatalf("expected service")
		}
		if svc.ID != "101" || svc.Category != "Instagram" || svc.Name != "IG Likes Indo" {
			t.Fatalf("identity fields wrong: %+v", svc)
		}
		if svc.MinQuantity != 100 || svc.MaxQuantity != 10000 {
			t.Fatalf("min/max wrong: %+v", svc)
		}
		if svc.RatePer1000 != 10200 {
			t.Fatalf("rate = %v; want 10200", svc.RatePer1000)
		}
	})

	t.Run("english field names", func(t *testing.T) {
		raw, _ := asObject(decode(t, `{
			"service": "tt-55",
			"category": "TikTok",
			"name": "TT Views",
			"price": 950.5
		}`))
		svc, ok := normalizeService(raw)
		if !ok {
			t.Fatalf("expected service")
		}
		if svc.ID != "tt-55" || svc.Name != "TT Views" || svc.RatePer1000 != 950.5 {
			t.Fatalf("unexpected service: %+v", svc)
		}
		// Unstated bounds fall back to the panel-wide defaults.
		if svc.MinQuantity != 1 || svc.MaxQuantity != 999999 {
			t.Fatalf("default bounds wrong: %+v", svc)
		}
	})

	t.Run("missing id drops entry", func(t *testing.T) {
		raw, _ := asObject(decode(t, `{"layanan":"mystery","harga":1}`))
		if _, ok := normalizeService(raw); ok {
			t.Fatalf("entry without id must be dropped")
		}
	})
}

func TestPickInt64_AbsentIsNil(t *testing.T) {
	obj, _ := asObject(decode(t, `{"remains":"1.000","status":"Partial"}`))
	if n, ok := pickInt64(obj, "remains"); !ok || n == nil || *n != 1000 {
		t.Fatalf("remains = %v, %v; want 1000, true", n, ok)
	}
	if n, ok := pickInt64(obj, "start_count"); ok || n != nil {
		t.Fatalf("absent field must report missing, got %v, %v", n, ok)
	}
}

func TestTruncateRaw(t *testing.T) {
	long := make([]byte, maxRawSnippet+100)
	for i := range long {
		long[i] = 'x'
	}
	if got := truncateRaw(long); len(got) != maxRawSnippet {
		t.Fatalf("len = %d; want %d", len(got), maxRawSnippet)
	}
	if got := truncateRaw([]byte("short")); got != "short" {
		t.Fatalf("short body must pass through, got %q", got)
	}
}
