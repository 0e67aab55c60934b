package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Resolver answers whether a cadastral number resolves. Resolution is
// best-effort: implementations report false instead of failing, so
// history recording never depends on the resolver being healthy.
type Resolver interface {
	Resolve(ctx context.Context, cadastralNumber, authHeader string) bool
}

// HTTPResolver calls the external resolution endpoint.
type HTTPResolver struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPResolver(config *Config, logger *zap.Logger) *HTTPResolver {
	return &HTTPResolver{
		baseURL: config.ResolverURL,
		timeout: config.ResolverTimeout,
		client:  &http.Client{},
		logger:  logger,
	}
}

type resolverResponse struct {
	Result bool `json:"result"`
}

// Resolve issues a single GET {base}/result?cadastral_number=... with
// the caller's Authorization header forwarded. One attempt, bounded by
// the configured timeout; expiry or any transport fault is logged and
// reported as false.
func (h *HTTPResolver) Resolve(ctx context.Context, cadastralNumber, authHeader string) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/result", nil)
	if err != nil {
		h.logger.Error("error building resolver request", zap.Error(err), zap.String(ZAP_RESOLVER_URL, h.baseURL))
		return false
	}
	req.URL.RawQuery = url.Values{"cadastral_number": {cadastralNumber}}.Encode()
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("resolver unavailable, treating as no result",
			zap.Error(err), zap.String(ZAP_CADASTRAL_NUMBER, cadastralNumber))
		return false
	}
	defer resp.Body.Close()

	var body resolverResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		h.logger.Warn("unreadable resolver response, treating as no result",
			zap.Error(err), zap.String(ZAP_CADASTRAL_NUMBER, cadastralNumber))
		return false
	}
	return body.Result
}

// ResultHandler is the stub resolution endpoint: a uniformly random
// boolean after a random delay of up to StubMaxDelay. It exists to
// exercise the timeout path of HTTPResolver.
func (s *Server) ResultHandler(w http.ResponseWriter, r *http.Request) {
	result := rand.Intn(2) == 1

	if s.config.StubMaxDelay > 0 {
		delay := time.Second + time.Duration(rand.Int63n(int64(s.config.StubMaxDelay)))
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	WriteJSON(w, http.StatusOK, resolverResponse{Result: result})
}
