package examplebuilder

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/switchupcb/ratelimit/ratelimit"
)

// qsEncoder encodes request objects into URL query strings using
// `url`-tagged struct fields, the same alias tag disgo's qsEncoder
// uses in wrapper/requests.go.
var qsEncoder = schema.NewEncoder() //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits
	qsEncoder.SetAliasTag("url")
}

// GetChannelMessages requests up to Limit messages from a channel,
// optionally paginated around Around/Before/After. It mirrors
// disgo's generated GetChannelMessages request without pulling in
// disgo's full resources model.
//
// https://discord.com/developers/docs/resources/channel#get-channel-messages
type GetChannelMessages struct {
	ChannelID string `url:"-"`
	Around    string `url:"around,omitempty"`
	Before    string `url:"before,omitempty"`
	After     string `url:"after,omitempty"`
	Limit     int    `url:"limit,omitempty"`
}

// Build returns the request URI and the Route the ratelimit core
// should bucket this request under. All channel IDs collapse to a
// single route per spec §4.A's worked example.
func (r *GetChannelMessages) Build(baseURL string) (uri string, route ratelimit.Route, err error) {
	params := url.Values{}
	if err := qsEncoder.Encode(r, params); err != nil {
		return "", "", fmt.Errorf("encoding query string for GetChannelMessages: %w", err)
	}

	uri = fmt.Sprintf("%s/channels/%s/messages?%s", baseURL, r.ChannelID, params.Encode())
	route = ratelimit.RouteFromMethodAndBucket("GET", "/channels/{channel.id}/messages")

	return uri, route, nil
}
