// Package provider – response decoding helpers
//
// The panel's JSON is loosely specified: numbers arrive as numbers or as
// Indonesian-formatted strings ("10.200" meaning 10200, "10,5" meaning 10.5),
// field names differ between deployments, and payloads sit either at the top
// level or under a wrapper key. The helpers in this file normalize all of
// that into plain Go values so the rest of the gateway can stay readable.
package provider

import (
	"strconv"
	"strings"

	"github.com/rezahp/go-smm-backend/internal/domain"
)

// listWrapperKeys are the envelope keys under which a service list has been
// observed, in priority order.
var listWrapperKeys = []string{"data", "services", "result", "response"}

// orderIDKeys are the candidate keys for a provider order id, tried first at
// the top level and then under "data".
var orderIDKeys = []string{"id", "order", "order_id"}

// ParseRate converts a panel rate value into a float. Accepted inputs:
//
//   - JSON numbers, passed through unchanged
//   - "10.200"  -> 10200  (dot as thousands separator: last group of 3)
//   - "1.234.567" -> 1234567
//   - "10,5"    -> 10.5   (decimal comma)
//   - "Rp 1.500" -> 1500  (non-numeric characters stripped)
//
// Anything unparseable yields 0.
func ParseRate(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		return parseRateString(t)
	default:
		return 0
	}
}

func parseRateString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	parts := strings.Split(cleaned, ".")
	if len(parts) > 1 && len(parts[len(parts)-1]) == 3 {
		// "10.200" style: dots are thousands separators.
		joined := strings.Join(parts, "")
		f, err := strconv.ParseFloat(joined, 64)
		if err != nil {
			return 0
		}
		return f
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		// More than one dot and no 3-digit tail ("1.22.33"): treat every dot
		// as a separator rather than failing the whole catalog entry.
		joined := strings.Join(parts, "")
		if f2, err2 := strconv.ParseFloat(joined, 64); err2 == nil {
			return f2
		}
		return 0
	}
	return f
}

// ParseQuantity converts a panel min/max value into an int64, stripping "."
// and "," separators first. Unparseable input yields def.
func ParseQuantity(v any, def int64) int64 {
	var s string
	switch t := v.(type) {
	case nil:
		return def
	case float64:
		return int64(t)
	case int:
		return int64(t)
	case int64:
		return t
	case string:
		s = t
	default:
		return def
	}
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// asObject reports v as a JSON object.
func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// asList reports v as a JSON array.
func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// pickString returns the first non-empty string value among keys. Numeric
// values are stringified; booleans and absent keys are skipped.
func pickString(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s, true
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		}
	}
	return "", false
}

// pickInt64 returns the first value among keys convertible to an int64,
// tolerating separator-formatted strings. Absent or unparseable fields are
// reported as missing, never as zero.
func pickInt64(m map[string]any, keys ...string) (*int64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			n := int64(t)
			return &n, true
		case string:
			s := strings.TrimSpace(t)
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", "")
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n, true
			}
		}
	}
	return nil, false
}

// extractList accepts either a raw JSON array or an object wrapping one
// under a known key. A single object under a wrapper key is promoted to a
// one-element list, matching observed panel behavior.
func extractList(body any) ([]any, bool) {
	if l, ok := asList(body); ok {
		return l, true
	}
	obj, ok := asObject(body)
	if !ok {
		return nil, false
	}
	for _, k := range listWrapperKeys {
		v, present := obj[k]
		if !present {
			continue
		}
		if l, ok := asList(v); ok {
			return l, true
		}
		if inner, ok := asObject(v); ok {
			return []any{inner}, true
		}
	}
	return nil, false
}

// extractOrderID walks the candidate keys (top level, then under "data") and
// returns the first usable order id.
func extractOrderID(obj map[string]any) (string, bool) {
	if id, ok := pickString(obj, orderIDKeys...); ok {
		return id, true
	}
	if data, ok := asObject(obj["data"]); ok {
		if id, ok := pickString(data, orderIDKeys...); ok {
			return id, true
		}
	}
	return "", false
}

// isFailureEnvelope reports whether obj carries an explicit failure marker:
// a boolean status=false or a string status naming an error state.
func isFailureEnvelope(obj map[string]any) bool {
	v, ok := obj["status"]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return !t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "error" || s == "gagal" || s == "false" || s == "failed"
	}
	return false
}

// rejectionMessage pulls the panel's own error wording out of a failure
// envelope, if any.
func rejectionMessage(obj map[string]any) string {
	msg, _ := pickString(obj, "msg", "message", "error", "pesan")
	return msg
}

// normalizeService maps one raw catalog entry onto the domain model. Entries
// without a usable id are dropped (they cannot be ordered).
func normalizeService(raw map[string]any) (domain.Service, bool) {
	id, ok := pickString(raw, "sid", "id", "service")
	if !ok {
		return domain.Service{}, false
	}
	name, _ := pickString(raw, "layanan", "name", "nama")
	category, _ := pickString(raw, "kategori", "category")
	svc := domain.Service{
		ID:          id,
		Category:    category,
		Name:        name,
		MinQuantity: ParseQuantity(raw["min"], 1),
		MaxQuantity: ParseQuantity(raw["max"], 999999),
		RatePer1000: ParseRate(firstPresent(raw, "harga", "price", "rate")),
	}
	return svc, true
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
