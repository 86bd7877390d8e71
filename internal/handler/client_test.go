package handler

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelancehq/freelance-tracker/internal/repository"
)

func createClient(t *testing.T, h *ClientHandler, ownerID uint64, body string) repository.Client {
	t.Helper()
	c, rec := newJSONCtx(t, http.MethodPost, "/clients", body, ownerID)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var out repository.Client
	decodeBody(t, rec, &out)
	return out
}

func TestClientCreateRoundTrip(t *testing.T) {
	h := NewClientHandler(newFakeClientStore())

	created := createClient(t, h, 1,
		`{"name":"Acme","email":"billing@acme.test","company":"Acme Corp","hourlyRate":95.5,"notes":"net 30"}`)
	assert.NotZero(t, created.ID)
	assert.Equal(t, uint64(1), created.OwnerID)
	assert.Equal(t, "Acme", created.Name)
	require.NotNil(t, created.HourlyRate)
	assert.Equal(t, 95.5, *created.HourlyRate)

	c, rec := newJSONCtx(t, http.MethodGet, "/clients", "", 1)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var items []repository.Client
	decodeBody(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "billing@acme.test", items[0].Email)
	assert.Equal(t, "net 30", items[0].Notes)
}

func TestClientCreateMissingFields(t *testing.T) {
	store := newFakeClientStore()
	h := NewClientHandler(store)

	c, rec := newJSONCtx(t, http.MethodPost, "/clients", `{"name":"Acme"}`, 1)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please add name and email", errMessage(t, rec))
	assert.Empty(t, store.items)
}

func TestClientListEmptyIsArray(t *testing.T) {
	h := NewClientHandler(newFakeClientStore())

	c, rec := newJSONCtx(t, http.MethodGet, "/clients", "", 1)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestClientListScopedToOwner(t *testing.T) {
	h := NewClientHandler(newFakeClientStore())
	createClient(t, h, 1, `{"name":"Mine","email":"mine@x.test"}`)
	createClient(t, h, 2, `{"name":"Theirs","email":"theirs@x.test"}`)

	c, rec := newJSONCtx(t, http.MethodGet, "/clients", "", 1)
	require.NoError(t, h.List(c))
	var items []repository.Client
	decodeBody(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Mine", items[0].Name)
}

func TestClientDelete(t *testing.T) {
	store := newFakeClientStore()
	h := NewClientHandler(store)
	created := createClient(t, h, 1, `{"name":"Acme","email":"a@x.test"}`)

	c, rec := newJSONCtx(t, http.MethodDelete, "/clients/1", "", 1)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(created.ID, 10))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.items)
}

func TestClientDeleteForeignOwner(t *testing.T) {
	store := newFakeClientStore()
	h := NewClientHandler(store)
	created := createClient(t, h, 1, `{"name":"Acme","email":"a@x.test"}`)

	c, rec := newJSONCtx(t, http.MethodDelete, "/clients/1", "", 2)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(created.ID, 10))
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not authorized", errMessage(t, rec))
	// The record must survive a rejected delete.
	require.Len(t, store.items, 1)
}

func TestClientDeleteNotFound(t *testing.T) {
	h := NewClientHandler(newFakeClientStore())

	c, rec := newJSONCtx(t, http.MethodDelete, "/clients/99", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Client not found", errMessage(t, rec))
}
