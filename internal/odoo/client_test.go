package odoo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

// fakeERP serves canned XML-RPC responses keyed by method name.
type fakeERP struct {
	responses map[string]string
	calls     []string
}

func (f *fakeERP) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	for method, resp := range f.responses {
		if strings.Contains(string(body), "<methodName>"+method+"</methodName>") {
			f.calls = append(f.calls, method)
			w.Header().Set("Content-Type", "text/xml")
			_, _ = w.Write([]byte(resp))
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func scalarResponse(value string) string {
	return `<?xml version="1.0"?><methodResponse><params><param><value>` +
		value + `</value></param></params></methodResponse>`
}

const faultResponse = `<?xml version="1.0"?><methodResponse><fault><value><struct>` +
	`<member><name>faultCode</name><value><int>2</int></value></member>` +
	`<member><name>faultString</name><value><string>Access Denied</string></value></member>` +
	`</struct></value></fault></methodResponse>`

func setupClientTest(t *testing.T, erp *fakeERP) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(erp.handler))
	t.Cleanup(srv.Close)

	client, err := NewClient(config.Odoo{
		URL:      srv.URL,
		Database: "ailigent",
		Username: "bot@ailigent.local",
		Password: "secret",
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestClientConnect(t *testing.T) {
	t.Run("success stores uid", func(t *testing.T) {
		erp := &fakeERP{responses: map[string]string{
			"authenticate": scalarResponse("<int>7</int>"),
		}}
		client := setupClientTest(t, erp)

		err := client.Connect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7), client.UID())

		// A second connect reuses the session.
		require.NoError(t, client.Connect(context.Background()))
		assert.Len(t, erp.calls, 1)
	})

	t.Run("negative bad credentials", func(t *testing.T) {
		erp := &fakeERP{responses: map[string]string{
			"authenticate": scalarResponse("<boolean>0</boolean>"),
		}}
		client := setupClientTest(t, erp)

		err := client.Connect(context.Background())
		assert.ErrorIs(t, err, ErrAuthFailed)
		assert.Equal(t, int64(0), client.UID())
	})
}

func TestClientVersion(t *testing.T) {
	erp := &fakeERP{responses: map[string]string{
		"version": scalarResponse(`<struct><member><name>server_version</name>` +
			`<value><string>17.0</string></value></member></struct>`),
	}}
	client := setupClientTest(t, erp)

	info, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "17.0", info["server_version"])
}

func TestClientSearchRead(t *testing.T) {
	erp := &fakeERP{responses: map[string]string{
		"authenticate": scalarResponse("<int>7</int>"),
		"execute_kw": scalarResponse(`<array><data><value><struct>` +
			`<member><name>id</name><value><int>3</int></value></member>` +
			`<member><name>name</name><value><string>Fix login page</string></value></member>` +
			`<member><name>stage_id</name><value><array><data>` +
			`<value><int>2</int></value><value><string>In Progress</string></value>` +
			`</data></array></value></member>` +
			`<member><name>date_deadline</name><value><boolean>0</boolean></value></member>` +
			`</struct></value></data></array>`),
	}}
	client := setupClientTest(t, erp)

	records, err := client.SearchRead(context.Background(), ModelTask,
		[]any{[]any{"active", "=", true}}, TaskFields, &QueryOptions{Limit: 10, Order: "priority desc"})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, int64(3), rec.Int("id"))
	assert.Equal(t, "Fix login page", rec.Str("name"))
	assert.Equal(t, Many2One{ID: 2, Name: "In Progress"}, rec.Rel("stage_id"))
	assert.True(t, rec.Time("date_deadline").IsZero())
	assert.Equal(t, []string{"authenticate", "execute_kw"}, erp.calls)
}

func TestClientCreateRecord(t *testing.T) {
	erp := &fakeERP{responses: map[string]string{
		"authenticate": scalarResponse("<int>7</int>"),
		"execute_kw":   scalarResponse("<int>91</int>"),
	}}
	client := setupClientTest(t, erp)

	id, err := client.CreateRecord(context.Background(), ModelTask, map[string]any{"name": "New task"})
	require.NoError(t, err)
	assert.Equal(t, int64(91), id)
}

func TestClientFaultMapsToUpstreamError(t *testing.T) {
	erp := &fakeERP{responses: map[string]string{
		"authenticate": scalarResponse("<int>7</int>"),
		"execute_kw":   faultResponse,
	}}
	client := setupClientTest(t, erp)

	_, err := client.SearchRead(context.Background(), ModelTask, []any{}, TaskFields, nil)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeUpstreamError, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
	assert.Contains(t, err.Error(), "Access Denied")
}

func TestClientGetParam(t *testing.T) {
	t.Run("value present", func(t *testing.T) {
		erp := &fakeERP{responses: map[string]string{
			"authenticate": scalarResponse("<int>7</int>"),
			"execute_kw":   scalarResponse("<string>42|ahassan</string>"),
		}}
		client := setupClientTest(t, erp)

		v, err := client.GetParam(context.Background(), "telegram_link_556677")
		require.NoError(t, err)
		assert.Equal(t, "42|ahassan", v)
	})

	t.Run("missing key yields empty string", func(t *testing.T) {
		erp := &fakeERP{responses: map[string]string{
			"authenticate": scalarResponse("<int>7</int>"),
			"execute_kw":   scalarResponse("<boolean>0</boolean>"),
		}}
		client := setupClientTest(t, erp)

		v, err := client.GetParam(context.Background(), "telegram_link_0")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})
}
