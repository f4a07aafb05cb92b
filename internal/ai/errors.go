package ai

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/jobreach/internal/model"
)

const maxErrorBodyLen = 512

func newHTTPError(resp *http.Response, body []byte) *model.HTTPError {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorBodyLen {
		snippet = snippet[:maxErrorBodyLen]
	}
	return &model.HTTPError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Err:        fmt.Errorf("%s", snippet),
	}
}

func newSchemaError(err error) *model.SchemaError {
	return &model.SchemaError{Source: "groq", Err: err}
}
