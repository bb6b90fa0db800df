package checkout

import (
	"net/url"
	"strings"
)

// Redirect builds the remediation URL for a refused result: target plus
// returnUrl, message and display=modal where the reason calls for them.
// An allowed result has no redirect and yields "".
func Redirect(res Result) string {
	if res.Allowed || res.RedirectTarget == "" {
		return ""
	}
	q := url.Values{}
	q.Set("message", res.Message)
	q.Set("reason", string(res.Reason))
	if res.ReturnPath != "" {
		q.Set("returnUrl", res.ReturnPath)
	}
	if res.Modal {
		q.Set("display", "modal")
	}
	return res.RedirectTarget + "?" + q.Encode()
}

// SanitizeReturnPath accepts only same-origin absolute paths and falls back
// to DefaultReturnPath.
func SanitizeReturnPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return DefaultReturnPath
	}
	u, err := url.Parse(p)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DefaultReturnPath
	}
	return p
}
