package transport

import (
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/storycheck/pkg/errors"
	"github.com/agentstation/storycheck/pkg/logging"
)

// maxErrorBody bounds how much of an error response ends up in messages.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into the target structure. Non-2xx
// responses become an *errors.APIError for service.
func DecodeResponse(resp *http.Response, service string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger := logging.Default()
			if resp.Request != nil {
				logger = logging.FromContext(resp.Request.Context())
			}
			logger.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := errors.NewAPIError(service, resp.StatusCode, errorMessage(resp, body))
		if resp.Request != nil && resp.Request.URL != nil {
			apiErr.Endpoint = resp.Request.URL.Redacted()
		}
		return apiErr
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}

// errorMessage prefers the errorMessages array Jira sends with 4xx replies
// and falls back to the status text or a trimmed body.
func errorMessage(resp *http.Response, body []byte) string {
	var payload struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	if json.Unmarshal(body, &payload) == nil {
		msgs := append([]string{}, payload.ErrorMessages...)
		for _, field := range slices.Sorted(maps.Keys(payload.Errors)) {
			msgs = append(msgs, field+": "+payload.Errors[field])
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" || strings.HasPrefix(text, "<") {
		return http.StatusText(resp.StatusCode)
	}
	if len(text) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
