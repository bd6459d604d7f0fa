package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/GriffinCanCode/deskshell/internal/shell"
	"github.com/go-resty/resty/v2"
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodHead:   true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// errServerStatus marks 5xx responses as breaker failures. The response is
// still returned to the caller.
var errServerStatus = errors.New("server error status")

// Provider implements http_fetch.
type Provider struct {
	client *Client
}

// New creates a provider with its own client.
func New(cfg Config) *Provider {
	return &Provider{client: NewClient(cfg)}
}

// Name implements shell.Provider.
func (p *Provider) Name() string { return "http" }

// Setup implements shell.Provider.
func (p *Provider) Setup(rt *shell.Runtime) error {
	return rt.RegisterCommands(p.Commands()...)
}

// Client returns the underlying client.
func (p *Provider) Client() *Client { return p.client }

// Commands returns the provider's command set.
func (p *Provider) Commands() []commands.Command {
	return []commands.Command{
		commands.NewFunc(types.CommandDef{
			Name:        "http_fetch",
			Description: "Perform an HTTP request",
			Category:    types.CategoryHTTP,
			Parameters: []types.Parameter{
				{Name: "url", Type: "string", Description: "http or https URL", Required: true},
				{Name: "method", Type: "string", Description: "HTTP method, default GET"},
				{Name: "headers", Type: "object", Description: "Request headers"},
				{Name: "body", Type: "string", Description: "Request body"},
				{Name: "selector", Type: "string", Description: "CSS selector applied to an HTML response"},
				{Name: "xpath", Type: "string", Description: "XPath expression applied to an HTML response"},
				{Name: "sanitize", Type: "boolean", Description: "Strip unsafe markup from an HTML response"},
			},
		}, p.fetch),
	}
}

type fetchRequest struct {
	url      string
	method   string
	headers  map[string]string
	body     string
	selector string
	xpath    string
	sanitize bool
}

func parseFetch(args map[string]interface{}) (*fetchRequest, error) {
	raw, err := commands.StringArg(args, "url")
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &commands.InvalidArgumentError{Name: "url", Reason: "must be an http or https URL"}
	}

	req := &fetchRequest{url: u.String(), headers: map[string]string{}}
	method, err := commands.OptionalString(args, "method", http.MethodGet)
	if err != nil {
		return nil, err
	}
	req.method = strings.ToUpper(method)
	if !allowedMethods[req.method] {
		return nil, &commands.InvalidArgumentError{Name: "method", Reason: "unsupported method " + method}
	}

	if rawHeaders, ok := args["headers"]; ok {
		hm, ok := rawHeaders.(map[string]interface{})
		if !ok {
			return nil, &commands.InvalidArgumentError{Name: "headers", Reason: "must be an object"}
		}
		for k, v := range hm {
			s, ok := v.(string)
			if !ok {
				return nil, &commands.InvalidArgumentError{Name: "headers", Reason: "values must be strings"}
			}
			req.headers[k] = s
		}
	}

	if req.body, err = commands.OptionalString(args, "body", ""); err != nil {
		return nil, err
	}
	if req.selector, err = commands.OptionalString(args, "selector", ""); err != nil {
		return nil, err
	}
	if req.xpath, err = commands.OptionalString(args, "xpath", ""); err != nil {
		return nil, err
	}
	if req.sanitize, err = commands.OptionalBool(args, "sanitize", false); err != nil {
		return nil, err
	}
	return req, nil
}

func (p *Provider) fetch(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	req, err := parseFetch(args)
	if err != nil {
		return nil, err
	}
	if err := p.client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp *resty.Response
	err = p.client.breaker.Do(func() error {
		r := p.client.resty.R().SetContext(ctx).SetHeaders(req.headers)
		if req.body != "" {
			r.SetBody(req.body)
		}
		var rerr error
		resp, rerr = r.Execute(req.method, req.url)
		if rerr != nil {
			return rerr
		}
		if resp.StatusCode() >= 500 {
			return errServerStatus
		}
		return nil
	})
	if err != nil && !errors.Is(err, errServerStatus) {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.url, err)
	}

	return p.describe(req, resp)
}

func (p *Provider) describe(req *fetchRequest, resp *resty.Response) (map[string]interface{}, error) {
	raw := resp.Body()
	truncated := false
	if p.client.maxBody > 0 && len(raw) > p.client.maxBody {
		raw = raw[:p.client.maxBody]
		truncated = true
	}

	headers := make(map[string]string, len(resp.Header()))
	for k := range resp.Header() {
		headers[k] = resp.Header().Get(k)
	}
	contentType := resp.Header().Get("Content-Type")

	data := map[string]interface{}{
		"status":       resp.StatusCode(),
		"ok":           resp.IsSuccess(),
		"headers":      headers,
		"content_type": contentType,
		"truncated":    truncated,
	}

	if !isText(contentType) {
		data["body"] = ""
		data["size"] = len(raw)
		return data, nil
	}

	body, cs := decodeText(raw, contentType)
	data["charset"] = cs
	data["size"] = len(raw)

	if req.selector != "" {
		texts, err := selectText(body, req.selector)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		data["selected"] = texts
	}
	if req.xpath != "" {
		nodes, err := queryXPath(body, req.xpath)
		if err != nil {
			return nil, &commands.InvalidArgumentError{Name: "xpath", Reason: err.Error()}
		}
		data["xpath"] = nodes
	}
	if req.sanitize {
		body = sanitize(body)
	}
	data["body"] = body
	return data, nil
}
