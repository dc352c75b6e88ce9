package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ok", func(c *gin.Context) { Success(c, http.StatusOK, gin.H{"hello": "world"}) })
	router.GET("/fail", func(c *gin.Context) { Fail(c, http.StatusBadRequest, "bad", "worse") })

	t.Run("reuses a valid incoming id", func(t *testing.T) {
		const id = "0f8fad5b-d9cb-469f-a165-70867728950e"
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(HeaderRequestID, id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, id, resp.Metadata.RequestID)
		assert.Equal(t, id, w.Header().Get(HeaderRequestID))
		assert.Equal(t, APIVersion, resp.Metadata.Version)
		assert.Equal(t, []string{}, resp.Errors)
	})

	t.Run("replaces a malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/fail", nil)
		req.Header.Set(HeaderRequestID, "<script>")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEqual(t, "<script>", resp.Metadata.RequestID)
		assert.Equal(t, []string{"bad", "worse"}, resp.Errors)
		assert.Nil(t, resp.Data)
	})
}
