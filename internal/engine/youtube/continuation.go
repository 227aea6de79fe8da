package youtube

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/anatolykoptev/go_ytsr/internal/engine"
)

// Continuation resumes a paged search. On the wire it is the 4-tuple
// [apiKey, token, context, options].
type Continuation struct {
	APIKey  string
	Token   string
	Context *RequestContext
	Options *Options
}

func (c Continuation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.APIKey, c.Token, c.Context, c.Options})
}

// UnmarshalJSON checks the shape of each tuple member and reports the
// first bad one as ErrInvalidContinuation.
func (c *Continuation) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return invalidContinuation("handle", "is not an array")
	}
	if len(parts) != 4 {
		return invalidContinuation("handle", fmt.Sprintf("has %d members, want 4", len(parts)))
	}
	var out Continuation
	if err := decodeMember(parts[0], '"', &out.APIKey); err != nil {
		return invalidContinuation("apiKey", "must be a string")
	}
	if err := decodeMember(parts[1], '"', &out.Token); err != nil {
		return invalidContinuation("token", "must be a string")
	}
	if err := decodeMember(parts[2], '{', &out.Context); err != nil {
		return invalidContinuation("context", "must be an object")
	}
	if err := decodeMember(parts[3], '{', &out.Options); err != nil {
		return invalidContinuation("options", "must be an object")
	}
	*c = out
	return nil
}

func decodeMember(raw json.RawMessage, lead byte, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != lead {
		return fmt.Errorf("unexpected %s", raw)
	}
	return json.Unmarshal(raw, v)
}

// Encode packs c into a URL-safe string.
func (c Continuation) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeContinuation reverses Encode.
func DecodeContinuation(s string) (Continuation, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Continuation{}, invalidContinuation("handle", "is not base64url")
	}
	var c Continuation
	if err := json.Unmarshal(data, &c); err != nil {
		return Continuation{}, err
	}
	return c, nil
}

func (c Continuation) validate() error {
	switch {
	case c.APIKey == "":
		return invalidContinuation("apiKey", "is missing")
	case c.Token == "":
		return invalidContinuation("token", "is missing")
	case c.Context == nil:
		return invalidContinuation("context", "is missing")
	case c.Options == nil:
		return invalidContinuation("options", "is missing")
	case c.Options.Limit != Unlimited:
		return invalidContinuation("options", "carry an item limit; continuations only work in paged mode")
	}
	return nil
}

// ContinueResult is the next page of a paged search.
type ContinueResult struct {
	Items        []Item        `json:"items"`
	Continuation *Continuation `json:"continuation"`
}

// Continue fetches exactly one more page for a handle returned by Search
// or a previous Continue. Refinements and corrected queries on that page
// are dropped.
func (c *Client) Continue(ctx context.Context, cont Continuation) (*ContinueResult, error) {
	if err := cont.validate(); err != nil {
		return nil, err
	}
	engine.IncrContinueRequests()

	opts := *cont.Options
	opts.Pages = 1
	opts.Limit = Unlimited
	rc := *cont.Context

	pg, err := c.fetchContinuation(ctx, cont.APIKey, cont.Token, rc, opts.Request.Headers)
	if err != nil {
		return nil, err
	}
	items, _ := c.classifyPage(ctx, pg.raws, "")

	res := &ContinueResult{Items: items}
	if pg.token != "" {
		res.Continuation = &Continuation{APIKey: cont.APIKey, Token: pg.token, Context: &rc, Options: &opts}
	}
	return res, nil
}
