package client

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Default headers attached to every dispatched request. Caller-supplied
// headers take precedence over these; nothing takes precedence over the
// bearer header.
const (
	defaultContentType = "application/json"

	// csrfMarkerHeader is the anti-CSRF marker; its presence forces a CORS
	// preflight on cross-origin targets, so simple-request forgeries fail.
	csrfMarkerHeader = "X-Requested-With"
	csrfMarkerValue  = "XMLHttpRequest"
)

// Doer issues a single HTTP request. *http.Client satisfies it; tests
// substitute doubles.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options enumerates the recognized per-request settings.
type Options struct {
	Method  string
	Headers map[string]string
	Body    io.Reader
}

// Dispatcher performs a single policy-gated, authenticated outbound call:
// validate the origin policy, attach credential headers, issue the request,
// audit the response, and on a 401 evict the stored token.
//
// Same-origin requests go through a cookie-jar client (inclusive credential
// mode); cross-origin requests go through a jar-less client so ambient
// cookies are never sent, only the bearer header.
type Dispatcher struct {
	policy      *Policy
	store       Store
	sameOrigin  Doer
	crossOrigin Doer
	logger      *zap.Logger
}

// NewDispatcher creates a Dispatcher over policy and store. When sameOrigin
// is nil a cookie-jar http.Client is constructed; the cross-origin client is
// always jar-less.
func NewDispatcher(policy *Policy, store Store, sameOrigin Doer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sameOrigin == nil {
		jar, _ := cookiejar.New(nil)
		sameOrigin = &http.Client{Jar: jar}
	}
	return &Dispatcher{
		policy:      policy,
		store:       store,
		sameOrigin:  sameOrigin,
		crossOrigin: &http.Client{},
		logger:      logger,
	}
}

// Send performs one outbound call. Exactly one network call per invocation,
// at most one token eviction.
//
// A policy denial returns a *PolicyError before any I/O. A transport failure
// whose message indicates an origin rejection is rewrapped as *CORSError;
// other transport failures propagate unchanged. A 401 response evicts the
// token and returns the response together with ErrReauthenticationRequired;
// the caller performs the navigation, Send only signals.
func (d *Dispatcher) Send(ctx context.Context, rawURL string, opts Options) (*http.Response, error) {
	result := d.policy.Validate(rawURL, opts.Method)
	d.logPolicy(rawURL, result)
	if !result.Allowed {
		return nil, &PolicyError{TargetURL: rawURL, Warnings: result.Warnings}
	}

	target, err := d.resolveTarget(rawURL)
	if err != nil {
		return nil, &PolicyError{TargetURL: rawURL, Warnings: []string{err.Error()}}
	}

	req, err := http.NewRequestWithContext(ctx, result.Method, target, opts.Body)
	if err != nil {
		return nil, &PolicyError{TargetURL: rawURL, Warnings: []string{err.Error()}}
	}
	d.setHeaders(req, opts.Headers)

	doer := d.sameOrigin
	if result.IsCrossOrigin {
		doer = d.crossOrigin
	}

	resp, err := doer.Do(req)
	if err != nil {
		if isOriginRejection(err) {
			return nil, &CORSError{
				URL:  target,
				Hint: "server must emit Access-Control-Allow-Origin for " + d.policy.CurrentOrigin(),
				Err:  err,
			}
		}
		return nil, err
	}

	d.logAudit(target, Audit(resp))

	if resp.StatusCode == http.StatusUnauthorized {
		if clearErr := d.store.Clear(); clearErr != nil {
			d.logger.Warn("failed to evict rejected token", zap.Error(clearErr))
		}
		return resp, ErrReauthenticationRequired
	}

	return resp, nil
}

// resolveTarget makes relative URLs absolute against the current origin.
func (d *Dispatcher) resolveTarget(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return rawURL, nil
	}
	base, err := url.Parse(d.policy.CurrentOrigin())
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}

// setHeaders builds the effective header set: defaults, then caller headers,
// then the bearer header, each layer overriding the previous.
func (d *Dispatcher) setHeaders(req *http.Request, headers map[string]string) {
	req.Header.Set("Content-Type", defaultContentType)
	req.Header.Set(csrfMarkerHeader, csrfMarkerValue)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if token, ok := d.store.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// logPolicy records the pre-flight decision, verbosely when the debug flag
// is set.
func (d *Dispatcher) logPolicy(rawURL string, result ValidationResult) {
	fields := []zap.Field{
		zap.String("url", rawURL),
		zap.String("target_origin", result.TargetOrigin),
		zap.Bool("allowed", result.Allowed),
		zap.Bool("cross_origin", result.IsCrossOrigin),
		zap.Strings("warnings", result.Warnings),
	}
	if d.store.Debug() {
		d.logger.Info("origin policy decision", fields...)
		return
	}
	d.logger.Debug("origin policy decision", fields...)
}

// logAudit records the diagnostic CORS audit; it never alters the outcome.
func (d *Dispatcher) logAudit(target string, result AuditResult) {
	fields := []zap.Field{
		zap.String("url", target),
		zap.Bool("valid", result.Valid),
		zap.Strings("errors", result.Errors),
	}
	if d.store.Debug() {
		d.logger.Info("cors audit", fields...)
		return
	}
	d.logger.Debug("cors audit", fields...)
}

// isOriginRejection reports whether a transport error's message indicates an
// origin-policy rejection by the remote side.
func isOriginRejection(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cors") || strings.Contains(msg, "cross-origin") ||
		strings.Contains(msg, "origin not allowed")
}
