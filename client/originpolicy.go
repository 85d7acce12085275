package client

import (
	"fmt"
	"net/url"
	"strings"
)

// Classification is the result of comparing a target URL's origin against
// the current origin.
type Classification struct {
	IsCrossOrigin bool
	TargetOrigin  string
}

// ValidationResult is the pre-flight decision for an outbound request.
// Parse failures never surface as errors here; they produce Allowed=false
// with a warning (fail-closed).
type ValidationResult struct {
	Allowed       bool
	IsCrossOrigin bool
	TargetOrigin  string
	Method        string
	Warnings      []string
}

// Policy is the ordered allow-list of origins an outbound request may
// target. It always contains the client's own origin and is immutable after
// construction. Membership is exact string equality on the normalized
// origin, never prefix or substring matching.
type Policy struct {
	current string
	allowed map[string]struct{}
	order   []string
}

// NewPolicy builds a Policy for currentOrigin plus the given allow-list
// entries. Entries are normalized (lowercased scheme and host, default ports
// stripped); an entry that is not a valid origin is rejected.
func NewPolicy(currentOrigin string, allowed []string) (*Policy, error) {
	current, err := normalizeOrigin(currentOrigin)
	if err != nil {
		return nil, fmt.Errorf("invalid current origin %q: %w", currentOrigin, err)
	}

	p := &Policy{
		current: current,
		allowed: make(map[string]struct{}),
	}
	p.add(current)
	for _, entry := range allowed {
		origin, err := normalizeOrigin(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed origin %q: %w", entry, err)
		}
		p.add(origin)
	}
	return p, nil
}

func (p *Policy) add(origin string) {
	if _, ok := p.allowed[origin]; ok {
		return
	}
	p.allowed[origin] = struct{}{}
	p.order = append(p.order, origin)
}

// CurrentOrigin returns the client's own normalized origin.
func (p *Policy) CurrentOrigin() string {
	return p.current
}

// AllowedOrigins returns the allow-list in insertion order.
func (p *Policy) AllowedOrigins() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Allows reports whether origin is on the allow-list. Same-origin callers
// should not reach this check; it exists for cross-origin targets.
func (p *Policy) Allows(origin string) bool {
	normalized, err := normalizeOrigin(origin)
	if err != nil {
		return false
	}
	_, ok := p.allowed[normalized]
	return ok
}

// Classify determines whether targetURL crosses the currentOrigin boundary.
// A relative URL (no scheme/host) is same-origin by construction.
func Classify(targetURL, currentOrigin string) (Classification, error) {
	current, err := normalizeOrigin(currentOrigin)
	if err != nil {
		return Classification{}, fmt.Errorf("invalid current origin %q: %w", currentOrigin, err)
	}

	u, err := url.Parse(targetURL)
	if err != nil {
		return Classification{}, fmt.Errorf("invalid target URL %q: %w", targetURL, err)
	}
	if u.Host == "" && u.Scheme == "" {
		return Classification{IsCrossOrigin: false, TargetOrigin: current}, nil
	}

	target, err := originOf(u)
	if err != nil {
		return Classification{}, err
	}
	return Classification{
		IsCrossOrigin: target != current,
		TargetOrigin:  target,
	}, nil
}

// Validate runs the full pre-flight check for an outbound request: classify
// the target, then consult the allow-list for cross-origin targets.
// Same-origin targets are always allowed without consulting the list.
func (p *Policy) Validate(targetURL, method string) ValidationResult {
	if method == "" {
		method = "GET"
	}
	result := ValidationResult{Method: strings.ToUpper(method)}

	class, err := Classify(targetURL, p.current)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return result
	}

	result.IsCrossOrigin = class.IsCrossOrigin
	result.TargetOrigin = class.TargetOrigin

	if !class.IsCrossOrigin {
		result.Allowed = true
		return result
	}

	if _, ok := p.allowed[class.TargetOrigin]; !ok {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Origin %s not in allowed list", class.TargetOrigin))
		return result
	}

	result.Allowed = true
	return result
}

// normalizeOrigin canonicalizes an origin string to scheme://host[:port]
// with a lowercase scheme and host and default ports stripped.
func normalizeOrigin(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	return originOf(u)
}

// originOf extracts the normalized origin from a parsed URL.
func originOf(u *url.URL) (string, error) {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if scheme == "" || host == "" {
		return "", fmt.Errorf("origin must include scheme and host: %q", u.String())
	}

	port := u.Port()
	switch {
	case port == "":
	case scheme == "http" && port == "80":
		port = ""
	case scheme == "https" && port == "443":
		port = ""
	}

	if port != "" {
		return scheme + "://" + host + ":" + port, nil
	}
	return scheme + "://" + host, nil
}
