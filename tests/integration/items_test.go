package integration

import (
	"io"
	"net/http"
	"testing"

	"github.com/acorvin/shelf/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItems_CRUDRoundTrip(t *testing.T) {
	ts := freshServer(t)

	token, err := ts.RegisterAndLogin("crud@example.com", "secret123")
	require.NoError(t, err)

	// Create
	resp, err := ts.RequestWithAuth("POST", "/items/", token, map[string]string{
		"title":       "groceries",
		"description": "milk and eggs",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created handlers.ItemResponse
	require.NoError(t, ParseJSONResponse(resp, &created))
	assert.Equal(t, "groceries", created.Title)
	assert.Equal(t, "milk and eggs", *created.Description)

	// Get returns the same data
	resp, err = ts.RequestWithAuth("GET", "/items/"+created.ID, token, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched handlers.ItemResponse
	require.NoError(t, ParseJSONResponse(resp, &fetched))
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, *created.Description, *fetched.Description)

	// Partial update: title changes, description untouched
	resp, err = ts.RequestWithAuth("PUT", "/items/"+created.ID, token, map[string]string{
		"title": "errands",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated handlers.ItemResponse
	require.NoError(t, ParseJSONResponse(resp, &updated))
	assert.Equal(t, "errands", updated.Title)
	assert.Equal(t, "milk and eggs", *updated.Description)

	// Delete, then Get is 404
	resp, err = ts.RequestWithAuth("DELETE", "/items/"+created.ID, token, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = ts.RequestWithAuth("GET", "/items/"+created.ID, token, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_CrossOwnerLooksLikeNotFound(t *testing.T) {
	ts := freshServer(t)

	ownerToken, err := ts.RegisterAndLogin("owner@example.com", "secret123")
	require.NoError(t, err)
	otherToken, err := ts.RegisterAndLogin("other@example.com", "secret123")
	require.NoError(t, err)

	resp, err := ts.RequestWithAuth("POST", "/items/", ownerToken, map[string]string{"title": "private"})
	require.NoError(t, err)
	var created handlers.ItemResponse
	require.NoError(t, ParseJSONResponse(resp, &created))

	resp, err = ts.RequestWithAuth("GET", "/items/"+created.ID, otherToken, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_MalformedIDLooksLikeNotFound(t *testing.T) {
	ts := freshServer(t)

	token, err := ts.RegisterAndLogin("malformed@example.com", "secret123")
	require.NoError(t, err)

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		var body interface{}
		if method == "PUT" {
			body = map[string]string{"title": "x"}
		}
		resp, err := ts.RequestWithAuth(method, "/items/not-a-uuid", token, body)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s with malformed id", method)
	}
}

func TestItems_RequireAuthentication(t *testing.T) {
	ts := freshServer(t)

	resp, err := ts.Request("GET", "/items/", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = ts.RequestWithAuth("GET", "/items/", "not-a-token", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestItems_IdempotentCreate(t *testing.T) {
	ts := freshServer(t)

	token, err := ts.RegisterAndLogin("idem@example.com", "secret123")
	require.NoError(t, err)

	headers := map[string]string{
		"Authorization":   "Bearer " + token,
		"Idempotency-Key": "create-once-123",
	}
	body := map[string]string{"title": "only one"}

	resp, err := ts.Request("POST", "/items/", body, headers)
	require.NoError(t, err)
	firstBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Retry with the same key replays the stored response byte for byte
	resp, err = ts.Request("POST", "/items/", body, headers)
	require.NoError(t, err)
	secondBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, firstBody, secondBody)

	// Side effect happened at most once
	resp, err = ts.RequestWithAuth("GET", "/items/", token, nil)
	require.NoError(t, err)
	var items []handlers.ItemResponse
	require.NoError(t, ParseJSONResponse(resp, &items))
	assert.Len(t, items, 1)
}

func TestResponses_CarrySecurityAndRequestIDHeaders(t *testing.T) {
	ts := freshServer(t)

	resp, err := ts.Request("GET", "/", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestCORS_PreflightFromConfiguredOrigin(t *testing.T) {
	ts := freshServer(t)

	headers := map[string]string{
		"Origin":                         testCORSOrigin,
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "Idempotency-Key",
	}
	resp, err := ts.Request("OPTIONS", "/items/", nil, headers)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testCORSOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}
