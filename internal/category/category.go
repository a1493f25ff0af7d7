// Package category maps guidance document titles to vulnerability categories.
package category

import "regexp"

// Category is a closed vulnerability-class tag used to select remediation content.
type Category string

// Known categories. Unmatched is returned when no rule applies.
const (
	Unmatched Category = ""
	SQL       Category = "sql"
	XSS       Category = "xss"
	Cmd       Category = "cmd"
	LDAP      Category = "ldap"
	XPath     Category = "xpath"
	XXE       Category = "xxe"
	Deser     Category = "deser"
	Path      Category = "path"
	CSRF      Category = "csrf"
	SSRF      Category = "ssrf"
	Secrets   Category = "secrets"
	Redirect  Category = "redirect"
	Upload    Category = "upload"
	Crypto    Category = "crypto"
	Auth      Category = "auth"
	Access    Category = "access"
	Logging   Category = "logging"
)

// String returns the category tag, or "unmatched".
func (c Category) String() string {
	if c == Unmatched {
		return "unmatched"
	}
	return string(c)
}

type rule struct {
	category Category
	pattern  *regexp.Regexp
}

// rules are evaluated in order and the first match wins. Titles often match several
// patterns loosely (a "Hard-coded Cryptographic Key" title hits secrets and crypto),
// so the order is part of the contract.
var rules = []rule{
	{SQL, regexp.MustCompile(`(?i)\bSQL Injection\b`)},
	{XSS, regexp.MustCompile(`(?i)\bCross-Site Scripting|\bXSS\b`)},
	{Cmd, regexp.MustCompile(`(?i)\bCommand Injection\b|\bOS Command Injection\b`)},
	{LDAP, regexp.MustCompile(`(?i)\bLDAP Injection\b`)},
	{XPath, regexp.MustCompile(`(?i)\bXPath Injection\b`)},
	{XXE, regexp.MustCompile(`(?i)\bXML External Entity\b|\bXXE\b`)},
	{Deser, regexp.MustCompile(`(?i)\bDeserialization\b`)},
	{Path, regexp.MustCompile(`(?i)\bPath Traversal\b|\bDirectory Traversal\b`)},
	{CSRF, regexp.MustCompile(`(?i)\bCSRF\b|\bCross-Site Request Forgery\b`)},
	{SSRF, regexp.MustCompile(`(?i)\bSSRF\b|\bServer-Side Request Forgery\b`)},
	{Secrets, regexp.MustCompile(`(?i)Hard[- ]coded Credentials|Hard[- ]coded Password|Hard[- ]coded`)},
	{Redirect, regexp.MustCompile(`(?i)\bOpen Redirect\b`)},
	{Upload, regexp.MustCompile(`(?i)\bFile Upload\b`)},
	{Crypto, regexp.MustCompile(`(?i)Cryptograph|Encryption|Crypto|Cipher|Key|Hash|Random|PRNG`)},
	{Auth, regexp.MustCompile(`(?i)Authentication`)},
	{Access, regexp.MustCompile(`(?i)Authorization|Access Control|IDOR|Insecure Direct Object`)},
	{Logging, regexp.MustCompile(`(?i)Log|Logging`)},
}

// Classify returns the first category whose rule matches title, or Unmatched.
func Classify(title string) Category {
	for _, r := range rules {
		if r.pattern.MatchString(title) {
			return r.category
		}
	}
	return Unmatched
}

// Categories returns all known categories in priority order.
func Categories() []Category {
	out := make([]Category, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.category)
	}
	return out
}
