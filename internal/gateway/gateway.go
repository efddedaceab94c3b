// Package gateway contains the clients for the remote collaborators this
// application depends on: the Pokédex service (auth, catalog, bookmarks,
// teams) and the public PokeAPI reference source.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/watisdis/pokedex-cli/internal/session"
	"github.com/watisdis/pokedex-cli/pkg/apierr"
	"github.com/watisdis/pokedex-cli/pkg/httpclient"
	"github.com/watisdis/pokedex-cli/pkg/logger"
	"github.com/watisdis/pokedex-cli/pkg/metrics"
)

// errorBody is the error envelope the Pokédex service returns.
type errorBody struct {
	Message string `json:"message"`
}

// call performs one JSON round trip against the remote service, mapping
// transport failures and error statuses into the apierr taxonomy. The bearer
// token is read from the store immediately before sending, never cached.
func call(ctx context.Context, client httpclient.Client, tokens session.TokenStore,
	gw, operation, method, url string, body, out any) error {

	start := time.Now()
	status := "ok"
	defer func() {
		metrics.ObserveRemoteCall(gw, operation, status, start)
		logger.LogAPICall(gw, operation, status, time.Since(start).Seconds())
	}()

	var payload *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			status = "error"
			return fmt.Errorf("encode %s request: %w", operation, err)
		}
		payload = bytes.NewReader(b)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		status = "error"
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tokens != nil {
		if tok, ok := tokens.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		status = "error"
		return apierr.NetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		status = "error"
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb) //nolint:errcheck // body may be empty or non-JSON
		return apierr.FromStatus(resp.StatusCode, eb.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			status = "error"
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
	}
	return nil
}
