// Package provider implements the gateway to the remote SMM panel.
//
// The panel speaks form-encoded POST with a JSON body in response, but the
// protocol is only loosely specified: authentication and action field names
// differ between deployments, success and failure envelopes vary, and
// numeric values arrive in Indonesian formatting. This package normalizes
// all of that behind four typed calls (catalog, submission, status query,
// account profile) and a fixed retry policy, so callers never see the wire
// vocabulary.
//
// Read-only calls may replay alternate request variants when the primary
// shape is not understood; order submission never does, because replaying a
// purchase under a different action name could create it twice.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"

	"github.com/rezahp/go-smm-backend/internal/domain"
)

// Gateway action labels used in metrics and error text.
const (
	actionList    = "list_services"
	actionSubmit  = "submit_order"
	actionStatus  = "order_status"
	actionProfile = "profile"
)

// Transport defaults, applied when the corresponding Client field is zero.
const (
	defaultMaxAttempts   = 4
	defaultRetryInterval = 500 * time.Millisecond
	defaultTimeout       = 25 * time.Second
)

// Client is a stateless gateway to one panel deployment. The zero value is
// not usable; populate at least APIURL and APIKey.
type Client struct {
	Name       string // provider identifier recorded on order rows
	APIURL     string // catalog/order/status endpoint
	ProfileURL string // account profile endpoint
	APIKey     string

	// Optional transport tuning
	MaxAttempts          uint          // total attempts per HTTP call (default 4)
	RetryInitialInterval time.Duration // first backoff delay (default 500ms)
	HTTPClient           *http.Client  // default: shared client with 25s timeout
}

// StatusInfo is the normalized answer to an order status query. Fields the
// panel did not include are nil, never zero.
type StatusInfo struct {
	Status     string
	Remains    *int64
	StartCount *int64
}

// Profile is the panel-side account summary for the configured API key.
type Profile struct {
	Username string
	Balance  float64
	Raw      map[string]any
}

// listVariant is one observed request shape for fetching the catalog.
type listVariant struct {
	name     string
	keyField string
	action   string
}

// listVariants in priority order. The first entry is the primary shape;
// any other answering increments provider_fallback_total.
var listVariants = []listVariant{
	{name: "api_key+layanan", keyField: "api_key", action: "layanan"},
	{name: "api_key+services", keyField: "api_key", action: "services"},
	{name: "key+services", keyField: "key", action: "services"},
}

var defaultHTTPClient = &http.Client{Timeout: defaultTimeout}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return defaultHTTPClient
}

func (c *Client) maxAttempts() uint {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return defaultMaxAttempts
}

func (c *Client) retryInterval() time.Duration {
	if c.RetryInitialInterval > 0 {
		return c.RetryInitialInterval
	}
	return defaultRetryInterval
}

// ListServices fetches the sellable catalog. Request variants are tried in
// order; the first yielding a non-empty service list wins. A variant whose
// body cannot be read as a list is skipped, not retried. If every variant
// fails to produce a list the call reports *ProtocolError carrying the last
// raw body.
func (c *Client) ListServices(ctx context.Context) (services []domain.Service, err error) {
	start := time.Now()
	defer func() { observeCall(actionList, start, err) }()

	var lastRaw []byte
	sawValidList := false
	for i, v := range listVariants {
		form := url.Values{}
		form.Set(v.keyField, c.APIKey)
		form.Set("action", v.action)

		res, herr := c.postForm(ctx, actionList, c.APIURL, form)
		if herr != nil {
			// All variants hit the same host; once the retry budget is spent
			// on transport the remaining variants would fail identically.
			err = herr
			return nil, err
		}
		lastRaw = res.body

		var body any
		if jerr := json.Unmarshal(res.body, &body); jerr != nil {
			continue
		}
		items, ok := extractList(body)
		if !ok {
			continue
		}
		sawValidList = true
		if len(items) == 0 {
			continue
		}

		if i > 0 {
			panelFallback.WithLabelValues(actionList, v.name).Inc()
			log.Warn().
				Str("action", actionList).
				Str("variant", v.name).
				Msg("provider answered on fallback request variant")
		}

		out := make([]domain.Service, 0, len(items))
		for _, it := range items {
			raw, ok := asObject(it)
			if !ok {
				continue
			}
			if svc, ok := normalizeService(raw); ok {
				out = append(out, svc)
			}
		}
		services = out
		return services, nil
	}

	if sawValidList {
		// The panel answered with a well-formed but empty catalog.
		return []domain.Service{}, nil
	}
	err = &ProtocolError{Action: actionList, Raw: truncateRaw(lastRaw)}
	return nil, err
}

// SubmitOrder places a purchase and returns the panel's order id.
//
// Only the primary action name is ever sent. The verdict is one of four:
// the id (success), *RejectionError (panel said no), *AmbiguousResponseError
// (panel answered an object without any recognizable id), or
// *TransportError/*ProtocolError for the respective failure classes.
func (c *Client) SubmitOrder(ctx context.Context, serviceID, target string, quantity int64) (providerOrderID string, err error) {
	start := time.Now()
	defer func() { observeCall(actionSubmit, start, err) }()

	form := url.Values{}
	form.Set("api_key", c.APIKey)
	form.Set("action", "pemesanan")
	form.Set("layanan", serviceID)
	form.Set("target", target)
	form.Set("jumlah", strconv.FormatInt(quantity, 10))

	res, herr := c.postForm(ctx, actionSubmit, c.APIURL, form)
	if herr != nil {
		err = herr
		return "", err
	}

	obj, perr := decodeObject(actionSubmit, res)
	if perr != nil {
		err = perr
		return "", err
	}
	if res.status >= 400 || isFailureEnvelope(obj) {
		err = &RejectionError{Action: actionSubmit, Message: rejectionMessage(obj)}
		return "", err
	}
	id, ok := extractOrderID(obj)
	if !ok {
		err = &AmbiguousResponseError{Action: actionSubmit, Raw: truncateRaw(res.body)}
		return "", err
	}
	return id, nil
}

// OrderStatus queries the panel for the state of a previously submitted
// order. Absent fields come back nil.
func (c *Client) OrderStatus(ctx context.Context, providerOrderID string) (info *StatusInfo, err error) {
	start := time.Now()
	defer func() { observeCall(actionStatus, start, err) }()

	form := url.Values{}
	form.Set("api_key", c.APIKey)
	form.Set("action", "status")
	form.Set("id", providerOrderID)

	res, herr := c.postForm(ctx, actionStatus, c.APIURL, form)
	if herr != nil {
		err = herr
		return nil, err
	}

	obj, perr := decodeObject(actionStatus, res)
	if perr != nil {
		err = perr
		return nil, err
	}
	if res.status >= 400 || isFailureEnvelope(obj) {
		err = &RejectionError{Action: actionStatus, Message: rejectionMessage(obj)}
		return nil, err
	}

	detail := obj
	if d, ok := asObject(obj["data"]); ok {
		detail = d
	}
	info = &StatusInfo{}
	info.Status, _ = pickString(detail, "status")
	info.Remains, _ = pickInt64(detail, "remains")
	info.StartCount, _ = pickInt64(detail, "start_count")
	return info, nil
}

// Profile fetches the panel-side account summary for the configured key.
func (c *Client) Profile(ctx context.Context) (p *Profile, err error) {
	start := time.Now()
	defer func() { observeCall(actionProfile, start, err) }()

	form := url.Values{}
	form.Set("api_key", c.APIKey)
	form.Set("action", "profile")

	res, herr := c.postForm(ctx, actionProfile, c.ProfileURL, form)
	if herr != nil {
		err = herr
		return nil, err
	}

	obj, perr := decodeObject(actionProfile, res)
	if perr != nil {
		err = perr
		return nil, err
	}
	if res.status >= 400 || isFailureEnvelope(obj) {
		err = &RejectionError{Action: actionProfile, Message: rejectionMessage(obj)}
		return nil, err
	}

	detail := obj
	if d, ok := asObject(obj["data"]); ok {
		detail = d
	}
	p = &Profile{Raw: detail}
	p.Username, _ = pickString(detail, "username", "user", "nama")
	p.Balance = ParseRate(firstPresent(detail, "balance", "saldo"))
	return p, nil
}

// wireResponse is one completed HTTP exchange after retries.
type wireResponse struct {
	status int
	body   []byte
}

// decodeObject parses a wire body as a JSON object or reports *ProtocolError.
func decodeObject(action string, res *wireResponse) (map[string]any, *ProtocolError) {
	var body any
	if err := json.Unmarshal(res.body, &body); err != nil {
		return nil, &ProtocolError{Action: action, Raw: truncateRaw(res.body)}
	}
	obj, ok := asObject(body)
	if !ok {
		return nil, &ProtocolError{Action: action, Raw: truncateRaw(res.body)}
	}
	return obj, nil
}

// postForm performs one form-encoded POST with exponential-backoff retries.
// Connection errors, timeouts, body read failures and 5xx responses are
// retried up to the attempt budget; any other completed exchange is returned
// to the caller for classification. Exhaustion surfaces as *TransportError.
func (c *Client) postForm(ctx context.Context, action, endpoint string, form url.Values) (*wireResponse, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.retryInterval()

	res, err := backoff.Retry(ctx, func() (*wireResponse, error) {
		req, rerr := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if rerr != nil {
			return nil, backoff.Permanent(rerr)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, derr := c.httpClient().Do(req)
		if derr != nil {
			return nil, derr
		}
		defer resp.Body.Close()

		b, berr := io.ReadAll(resp.Body)
		if berr != nil {
			return nil, berr
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("panel returned HTTP %d", resp.StatusCode)
		}
		return &wireResponse{status: resp.StatusCode, body: b}, nil
	}, backoff.WithBackOff(expo), backoff.WithMaxTries(c.maxAttempts()))
	if err != nil {
		return nil, &TransportError{Action: action, Err: err}
	}
	return res, nil
}
