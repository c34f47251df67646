package punchout

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestBuildLoginRedirect(t *testing.T) {
	login := mustParseURL(t, "https://catalog.example.com/login")
	callback := mustParseURL(t, "https://srm-mock.example.com")

	redirect := BuildLoginRedirect(login, callback, "proc-1", nil)

	parsed := mustParseURL(t, redirect)
	assert.Equal(t, "catalog.example.com", parsed.Host)
	assert.Equal(t, "/login", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "https://srm-mock.example.com/oci-call-up/proc-1", query.Get("HOOK_URL"))
	assert.Equal(t, "4.0", query.Get("OCI_VERSION"))
	assert.Equal(t, "1.0", query.Get("OPI_VERSION"))
	assert.Equal(t, "utf-8", query.Get("http_content_charset"))
	assert.Equal(t, "_parent", query.Get("returntarget"))
	assert.NotContains(t, query, "PRODUCTID")
	assert.NotContains(t, query, "FUNCTION")

	// HOOK_URL is percent-encoded in the raw query
	assert.Contains(t, parsed.RawQuery, "HOOK_URL=https%3A%2F%2Fsrm-mock.example.com%2Foci-call-up%2Fproc-1")
}

func TestBuildLoginRedirect_WithProductHint(t *testing.T) {
	login := mustParseURL(t, "https://catalog.example.com/login")
	callback := mustParseURL(t, "https://srm-mock.example.com")
	product := uint64(42)

	redirect := BuildLoginRedirect(login, callback, "proc-1", &product)

	query := mustParseURL(t, redirect).Query()
	assert.Equal(t, "42", query.Get("PRODUCTID"))
	assert.Equal(t, "DETAILADD", query.Get("FUNCTION"))
}

// Pre-existing query parameters on the login URI survive; the protocol
// parameters are appended, not substituted.
func TestBuildLoginRedirect_PreservesExistingQuery(t *testing.T) {
	login := mustParseURL(t, "https://catalog.example.com/login?shop=demo&lang=de")
	callback := mustParseURL(t, "https://srm-mock.example.com")

	redirect := BuildLoginRedirect(login, callback, "proc-1", nil)

	parsed := mustParseURL(t, redirect)
	query := parsed.Query()
	assert.Equal(t, "demo", query.Get("shop"))
	assert.Equal(t, "de", query.Get("lang"))
	assert.Equal(t, "4.0", query.Get("OCI_VERSION"))
	assert.True(t, len(parsed.RawQuery) > len("shop=demo&lang=de"))
}

func TestBuildLoginRedirect_TrailingSlashCallbackBase(t *testing.T) {
	login := mustParseURL(t, "https://catalog.example.com/login")
	callback := mustParseURL(t, "https://srm-mock.example.com/")

	redirect := BuildLoginRedirect(login, callback, "proc-1", nil)

	query := mustParseURL(t, redirect).Query()
	assert.Equal(t, "https://srm-mock.example.com/oci-call-up/proc-1", query.Get("HOOK_URL"))
}

func TestBuildLoginRedirect_DoesNotMutateLoginURI(t *testing.T) {
	login := mustParseURL(t, "https://catalog.example.com/login?shop=demo")
	callback := mustParseURL(t, "https://srm-mock.example.com")

	BuildLoginRedirect(login, callback, "proc-1", nil)

	assert.Equal(t, "shop=demo", login.RawQuery)
}
