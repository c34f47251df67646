package punchout

import (
	"net/url"
	"strconv"
	"strings"
)

// OCI login protocol constants. These values are fixed by the OCI 4.0
// punch-out convention and expected verbatim by the catalog side.
const (
	paramHookURL      = "HOOK_URL"
	paramOCIVersion   = "OCI_VERSION"
	paramOPIVersion   = "OPI_VERSION"
	paramCharset      = "http_content_charset"
	paramReturnTarget = "returntarget"
	paramProductID    = "PRODUCTID"
	paramFunction     = "FUNCTION"

	ociVersion       = "4.0"
	opiVersion       = "1.0"
	contentCharset   = "utf-8"
	returnTarget     = "_parent"
	functionDetailAd = "DETAILADD"

	callUpPath = "/oci-call-up/"
)

// HookURL builds the call-up callback URL for a process, rooted at this
// service's externally visible base URL.
func HookURL(callbackBase *url.URL, processID string) string {
	return strings.TrimRight(callbackBase.String(), "/") + callUpPath + processID
}

// BuildLoginRedirect assembles the full redirect URI into the supplier
// catalog login for a freshly started process. Each parameter key and value
// is percent-encoded individually; the parameter string is appended to any
// query already present on the configured login URI, never replacing it.
// When goToProduct is set, the redirect additionally deep-links to that
// product with the DETAILADD function code.
func BuildLoginRedirect(loginURI, callbackBase *url.URL, processID string, goToProduct *uint64) string {
	params := url.Values{}
	params.Set(paramHookURL, HookURL(callbackBase, processID))
	params.Set(paramOCIVersion, ociVersion)
	params.Set(paramOPIVersion, opiVersion)
	params.Set(paramCharset, contentCharset)
	params.Set(paramReturnTarget, returnTarget)
	if goToProduct != nil {
		params.Set(paramProductID, strconv.FormatUint(*goToProduct, 10))
		params.Set(paramFunction, functionDetailAd)
	}

	redirect := *loginURI
	if redirect.RawQuery != "" {
		redirect.RawQuery += "&" + params.Encode()
	} else {
		redirect.RawQuery = params.Encode()
	}
	return redirect.String()
}
