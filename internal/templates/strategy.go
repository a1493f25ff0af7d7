// Package templates holds the static remediation content used by the deterministic transformer.
package templates

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/llm-guidance/internal/category"
)

// Section headings written by the deterministic transformer.
const (
	StrategyHeading = "Remediation Strategy"
	StepsHeading    = "Remediation Steps"
	PatternHeading  = "Minimal Safe Pattern"
)

var strategies = map[category.Category][]string{
	category.SQL: {
		"Use parameterized queries or prepared statements for all database access.",
		"Avoid string concatenation for SQL; use ORM parameter binding.",
		"Validate untrusted data with strict allowlists where feasible.",
		"Apply least privilege to database accounts.",
	},
	category.XSS: {
		"Encode untrusted data at the output sink (HTML, attribute, JS, URL).",
		"Avoid raw HTML rendering unless content is sanitized with a safe allowlist.",
		"Prefer framework auto-escaping features.",
		"Apply CSP as defense in depth when applicable.",
	},
	category.Cmd: {
		"Replace OS commands with native APIs.",
		"If a process is required, disable shell execution and pass args as a list.",
		"Allowlist untrusted data used in arguments or paths.",
		"Run with least privilege.",
	},
	category.LDAP: {
		"Use LDAP parameterization or safe filter escaping.",
		"Avoid constructing LDAP filters with string concatenation.",
		"Allowlist untrusted data when possible.",
		"Apply least privilege to directory access.",
	},
	category.XPath: {
		"Use safe XPath APIs or parameterization where available.",
		"Avoid string concatenation for XPath expressions.",
		"Allowlist or strictly validate untrusted data used in queries.",
		"Limit query scope to necessary nodes.",
	},
	category.XXE: {
		"Disable DTDs and external entity resolution in XML parsers.",
		"Use hardened XML libraries where available.",
		"Reject or sanitize untrusted XML inputs.",
		"Apply least privilege to any file/network access in parsers.",
	},
	category.Deser: {
		"Avoid unsafe native serialization formats; prefer JSON with schemas.",
		"Allowlist types/classes when deserializing.",
		"Reject untrusted serialized data by default.",
		"Apply least privilege to deserialization endpoints.",
	},
	category.Path: {
		"Canonicalize paths and enforce a fixed base directory.",
		"Allowlist filenames or identifiers used to select files.",
		"Avoid direct filesystem access from untrusted data.",
		"Apply least privilege on file permissions.",
	},
	category.CSRF: {
		"Require anti-CSRF tokens on state-changing requests.",
		"Enforce same-site cookie settings and use POST/PUT for mutations.",
		"Validate origin or referer when appropriate.",
		"Avoid sensitive actions via GET.",
	},
	category.SSRF: {
		"Allowlist destinations (host, scheme, port) for outbound requests.",
		"Block access to internal IP ranges and metadata endpoints.",
		"Use fixed URLs when possible instead of untrusted data.",
		"Apply network egress controls.",
	},
	category.Secrets: {
		"Remove hard-coded secrets from source and config.",
		"Load secrets from environment variables or a secrets manager.",
		"Rotate and revoke exposed credentials.",
		"Restrict secret access by least privilege.",
	},
	category.Redirect: {
		"Allowlist redirect targets or use relative paths only.",
		"Avoid reflecting untrusted URLs into redirect responses.",
		"Normalize and validate redirect destinations.",
		"Use server-side routing where possible.",
	},
	category.Upload: {
		"Validate file type and content; reject dangerous formats.",
		"Store uploads outside the web root and use randomized names.",
		"Enforce size limits and scan content if required.",
		"Apply least privilege to upload handling.",
	},
	category.Crypto: {
		"Use modern algorithms and safe defaults (e.g., AES-GCM, Argon2/bcrypt).",
		"Avoid custom crypto or weak algorithms/modes.",
		"Use secure random number generators.",
		"Store keys in a secrets manager.",
	},
	category.Auth: {
		"Perform server-side authorization checks for each request.",
		"Do not trust client-supplied role/permission claims.",
		"Use centralized access control logic.",
		"Apply least privilege by default.",
	},
	category.Access: {
		"Perform server-side authorization checks for each request.",
		"Do not trust client-supplied identifiers or permissions.",
		"Use centralized access control logic.",
		"Apply least privilege by default.",
	},
	category.Logging: {
		"Sanitize or encode untrusted data before logging.",
		"Use structured logging to avoid injection into log formats.",
		"Avoid logging secrets or sensitive data.",
		"Apply log access controls and retention limits.",
	},
}

// DefaultStrategy is used for unmatched categories.
var DefaultStrategy = []string{
	"Replace unsafe sinks with safe native APIs or library functions.",
	"Apply the primary safe pattern for this CWE.",
	"Validate untrusted data with strict allowlists and type checks.",
	"Apply least privilege and safe defaults.",
}

var remediationSteps = []string{
	"Identify the sink and confirm the data path from untrusted data",
	"Apply the primary safe pattern for this CWE",
	"Add allowlist validation or encoding where required",
	"Verify behavior with normal and boundary cases",
}

// Strategy returns the remediation-strategy steps for c, falling back to DefaultStrategy.
// The returned slice is a copy.
func Strategy(c category.Category) []string {
	steps, ok := strategies[c]
	if !ok {
		steps = DefaultStrategy
	}
	return append([]string(nil), steps...)
}

// RemediationSteps returns the category-independent checklist used for category-root documents.
func RemediationSteps() []string {
	return append([]string(nil), remediationSteps...)
}

// StrategySection renders the "Remediation Strategy" section as a numbered list.
func StrategySection(c category.Category) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", StrategyHeading)
	for i, step := range Strategy(c) {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}
	return sb.String()
}

// StepsSection renders the generic "Remediation Steps" checklist.
func StepsSection() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", StepsHeading)
	for _, step := range remediationSteps {
		fmt.Fprintf(&sb, "- %s\n", step)
	}
	return sb.String()
}
