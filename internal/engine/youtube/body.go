package youtube

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Payload and credential markers. Each has had more than one spelling
// upstream; they are tried in order.
var (
	payloadMarkers       = []string{"var ytInitialData = ", `window["ytInitialData"] = `}
	apiKeyMarkers        = []string{`INNERTUBE_API_KEY":"`, `innertubeApiKey":"`}
	clientVersionMarkers = []string{`INNERTUBE_CONTEXT_CLIENT_VERSION":"`, `innertube_context_client_version":"`}
)

const (
	clientName = "WEB"
	defaultGL  = "US"
	defaultHL  = "en"
)

// ClientInfo is the "client" block of an innertube request context.
type ClientInfo struct {
	UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
	GL               string `json:"gl"`
	HL               string `json:"hl"`
	ClientName       string `json:"clientName"`
	ClientVersion    string `json:"clientVersion"`
}

type UserInfo struct {
	EnableSafetyMode bool `json:"enableSafetyMode,omitempty"`
}

// RequestContext is sent with every continuation request. It is a plain
// value; copies never share state.
type RequestContext struct {
	Client  ClientInfo `json:"client"`
	User    UserInfo   `json:"user"`
	Request struct{}   `json:"request"`
}

// ContextOptions are the caller settings that end up in a RequestContext.
type ContextOptions struct {
	GL               string
	HL               string
	SafeSearch       bool
	UTCOffsetMinutes int
}

// ParsedBody is what ParseBody extracts from a first-page response.
// InitialData is nil when the payload could not be located or decoded.
type ParsedBody struct {
	InitialData   json.RawMessage
	APIKey        string
	ClientVersion string
	Context       RequestContext
}

// ParseBody extracts the embedded payload, the API key and the client
// version from a results page. It never fails; a nil InitialData tells the
// caller to fetch the page again.
func ParseBody(body string, opts ContextOptions) ParsedBody {
	p := ParsedBody{
		InitialData:   locatePayload(body),
		APIKey:        firstBetween(body, apiKeyMarkers),
		ClientVersion: firstBetween(body, clientVersionMarkers),
	}
	p.Context = RequestContext{
		Client: ClientInfo{
			UTCOffsetMinutes: opts.UTCOffsetMinutes,
			GL:               orDefault(opts.GL, defaultGL),
			HL:               orDefault(opts.HL, defaultHL),
			ClientName:       clientName,
			ClientVersion:    p.ClientVersion,
		},
		User: UserInfo{EnableSafetyMode: opts.SafeSearch},
	}
	return p
}

func locatePayload(body string) json.RawMessage {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	for _, marker := range payloadMarkers {
		raw, err := JSONAfter(body, marker)
		if err != nil || isJSONNull(raw) {
			continue
		}
		return raw
	}
	return nil
}

func firstBetween(body string, markers []string) string {
	for _, m := range markers {
		if v := Between(body, m, `"`); v != "" {
			return v
		}
	}
	return ""
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
