package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemEndpoints(t *testing.T) {
	engine := newTestRouter(NewSystemHandler())

	t.Run("health reports ok", func(t *testing.T) {
		w := performRequest(engine, http.MethodGet, "/api/v1/system/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		body := resp.Data.(map[string]any)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("info reports version and uptime", func(t *testing.T) {
		w := performRequest(engine, http.MethodGet, "/api/v1/system/info", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		body := resp.Data.(map[string]any)
		assert.NotEmpty(t, body["goVersion"])
	})
}
