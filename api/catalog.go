package api

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Endpoint is a named API call. Per-endpoint helpers are data, not code:
// Call turns an Endpoint plus CallArgs into a Request.
type Endpoint struct {
	Name   string
	Type   string
	Method string
	// Prefix holds method parameters the endpoint always sends first.
	Prefix []any
	// Args names the method parameters the caller supplies, in order.
	Args []string
	// Auth marks endpoints that need a session key.
	Auth bool
}

// CallArgs carries the per-call inputs of an Endpoint.
type CallArgs struct {
	MethodParams []any
	APIParams    Params
	PostParams   Params
	Files        map[string]File
}

var v1Endpoints = []Endpoint{
	{Name: "add_comment", Type: "comments", Method: "add", Args: []string{"link_id", "comment_id"}, Auth: true},
	{Name: "plus_comment", Type: "comments", Method: "plus", Args: []string{"link_id", "comment_id"}, Auth: true},
	{Name: "minus_comment", Type: "comments", Method: "minus", Args: []string{"link_id", "comment_id"}, Auth: true},
	{Name: "edit_comment", Type: "comments", Method: "edit", Args: []string{"comment_id"}, Auth: true},
	{Name: "delete_comment", Type: "comments", Method: "delete", Args: []string{"comment_id"}, Auth: true},
	{Name: "get_link", Type: "link", Method: "index", Args: []string{"link_id"}},
	{Name: "dig_link", Type: "link", Method: "dig", Args: []string{"link_id"}, Auth: true},
	{Name: "cancel_link", Type: "link", Method: "cancel", Args: []string{"link_id"}, Auth: true},
	{Name: "bury_link", Type: "link", Method: "bury", Args: []string{"link_id", "bury_id"}, Auth: true},
	{Name: "get_link_comments", Type: "link", Method: "comments", Args: []string{"link_id"}},
	{Name: "get_link_digs", Type: "link", Method: "digs", Args: []string{"link_id"}},
	{Name: "get_link_related", Type: "link", Method: "related", Args: []string{"link_id"}},
	{Name: "get_link_buryreasons", Type: "link", Method: "buryreasons"},
	{Name: "observe_link", Type: "link", Method: "observe", Args: []string{"link_id"}, Auth: true},
	{Name: "favorite_link", Type: "link", Method: "favorite", Args: []string{"link_id"}, Auth: true},
	{Name: "get_links_promoted", Type: "links", Method: "promoted"},
	{Name: "get_links_upcoming", Type: "links", Method: "upcoming"},
	{Name: "get_popular_promoted", Type: "popular", Method: "promoted"},
	{Name: "get_popular_upcoming", Type: "popular", Method: "upcoming"},
	{Name: "get_profile", Type: "profile", Method: "index", Args: []string{"username"}},
	{Name: "get_profile_links", Type: "profile", Method: "added", Args: []string{"username"}},
	{Name: "get_profile_published", Type: "profile", Method: "published", Args: []string{"username"}},
	{Name: "get_profile_commented", Type: "profile", Method: "commented", Args: []string{"username"}},
	{Name: "get_profile_digged", Type: "profile", Method: "digged", Args: []string{"username"}},
	{Name: "get_profile_buried", Type: "profile", Method: "buried", Args: []string{"username"}, Auth: true},
	{Name: "observe_profile", Type: "profile", Method: "observe", Args: []string{"username"}, Auth: true},
	{Name: "unobserve_profile", Type: "profile", Method: "unobserve", Args: []string{"username"}, Auth: true},
	{Name: "get_profile_followers", Type: "profile", Method: "followers", Args: []string{"username"}},
	{Name: "get_profile_followed", Type: "profile", Method: "followed", Args: []string{"username"}},
	{Name: "get_profile_favorites", Type: "profile", Method: "favorites", Args: []string{"username"}},
	{Name: "search", Type: "search", Method: "index"},
	{Name: "search_links", Type: "search", Method: "links"},
	{Name: "search_entries", Type: "search", Method: "entries"},
	{Name: "search_profiles", Type: "search", Method: "profiles"},
	{Name: "get_user_favorites", Type: "user", Method: "favorites", Auth: true},
	{Name: "get_user_observed", Type: "user", Method: "observed", Auth: true},
	{Name: "get_top", Type: "top", Method: "index", Args: []string{"year"}},
	{Name: "get_top_date", Type: "top", Method: "date", Args: []string{"year", "month"}},
	{Name: "plus_related", Type: "related", Method: "plus", Args: []string{"link_id", "related_id"}, Auth: true},
	{Name: "minus_related", Type: "related", Method: "minus", Args: []string{"link_id", "related_id"}, Auth: true},
	{Name: "add_related", Type: "related", Method: "add", Args: []string{"link_id"}, Auth: true},
	{Name: "get_entry", Type: "entries", Method: "index", Args: []string{"entry_id"}},
	{Name: "add_entry", Type: "entries", Method: "add", Auth: true},
	{Name: "edit_entry", Type: "entries", Method: "edit", Args: []string{"entry_id"}, Auth: true},
	{Name: "delete_entry", Type: "entries", Method: "delete", Args: []string{"entry_id"}, Auth: true},
	{Name: "add_entry_comment", Type: "entries", Method: "addcomment", Args: []string{"entry_id"}, Auth: true},
	{Name: "edit_entry_comment", Type: "entries", Method: "editcomment", Args: []string{"entry_id", "comment_id"}, Auth: true},
	{Name: "delete_entry_comment", Type: "entries", Method: "deletecomment", Args: []string{"entry_id", "comment_id"}, Auth: true},
	{Name: "vote_entry", Type: "entries", Method: "vote", Prefix: []any{"entry"}, Args: []string{"entry_id"}, Auth: true},
	{Name: "unvote_entry", Type: "entries", Method: "unvote", Prefix: []any{"entry"}, Args: []string{"entry_id"}, Auth: true},
	{Name: "vote_entry_comment", Type: "entries", Method: "vote", Prefix: []any{"comment"}, Args: []string{"entry_id", "comment_id"}, Auth: true},
	{Name: "unvote_entry_comment", Type: "entries", Method: "unvote", Prefix: []any{"comment"}, Args: []string{"entry_id", "comment_id"}, Auth: true},
	{Name: "get_rank", Type: "rank", Method: "index"},
	{Name: "get_observatory_votes", Type: "observatory", Method: "votes"},
	{Name: "get_observatory_comments", Type: "observatory", Method: "comments"},
	{Name: "get_observatory_entries", Type: "observatory", Method: "entries"},
	{Name: "get_favorites", Type: "favorites", Method: "index", Args: []string{"list_id"}, Auth: true},
	{Name: "get_favorites_lists", Type: "favorites", Method: "lists", Auth: true},
	{Name: "get_stream", Type: "stream", Method: "index", Args: []string{"page"}},
	{Name: "get_stream_hot", Type: "stream", Method: "hot", Args: []string{"page"}},
	{Name: "tag", Type: "tag", Method: "index", Args: []string{"tag_name"}},
	{Name: "get_conversations_list", Type: "pm", Method: "conversationslist", Auth: true},
	{Name: "get_conversation", Type: "pm", Method: "conversation", Args: []string{"username"}, Auth: true},
	{Name: "send_message", Type: "pm", Method: "sendmessage", Args: []string{"username"}, Auth: true},
	{Name: "delete_conversation", Type: "pm", Method: "deleteconversation", Args: []string{"username"}, Auth: true},
}

var v2Endpoints = []Endpoint{
	{Name: "get_stream_entries", Type: "entries", Method: "stream"},
	{Name: "get_hot_entries", Type: "entries", Method: "hot"},
	{Name: "get_entry", Type: "entries"},
	{Name: "get_popular_hits", Type: "hits", Method: "popular"},
	{Name: "get_day_hits", Type: "hits", Method: "day"},
	{Name: "get_week_hits", Type: "hits", Method: "week"},
	{Name: "get_month_hits", Type: "hits", Method: "month"},
	{Name: "get_promoted_links", Type: "links", Method: "promoted"},
	{Name: "get_upcoming_links", Type: "links", Method: "upcoming"},
	{Name: "get_observed_links", Type: "links", Method: "observed", Auth: true},
	{Name: "get_link", Type: "links", Method: "link"},
	{Name: "get_links", Type: "links"},
	{Name: "get_top_links", Type: "links", Method: "top"},
	{Name: "get_mywykop", Type: "mywykop", Auth: true},
	{Name: "get_mywykop_tags", Type: "mywykop", Method: "tags", Auth: true},
	{Name: "get_mywykop_users", Type: "mywykop", Method: "users", Auth: true},
	{Name: "get_profile", Type: "profiles", Args: []string{"username"}},
	{Name: "profiles", Type: "profiles", Auth: true},
	{Name: "get_conversations_list", Type: "pm", Method: "conversationsList", Auth: true},
	{Name: "get_notifications", Type: "notifications", Auth: true},
	{Name: "get_hashtags_notifications", Type: "notifications", Method: "hashtags", Auth: true},
	{Name: "get_notifications_count", Type: "notifications", Method: "totalcount", Auth: true},
	{Name: "get_hashtags_notifications_count", Type: "notifications", Method: "hashtagscount", Auth: true},
	{Name: "search_entries", Type: "search", Method: "entries"},
	{Name: "search_links", Type: "search", Method: "links"},
	{Name: "search_profiles", Type: "search", Method: "profiles"},
	{Name: "get_tag", Type: "tags", Args: []string{"name"}},
	{Name: "get_tags_observed", Type: "tags", Method: "observed", Auth: true},
}

// UnknownEndpointError is returned by Call for names missing from the
// version's catalog.
type UnknownEndpointError struct {
	Name        string
	Version     string
	Suggestions []string
}

func (e *UnknownEndpointError) Error() string {
	msg := fmt.Sprintf("unknown %s endpoint %q", e.Version, e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// ArgCountError is returned when a call supplies the wrong number of
// method parameters.
type ArgCountError struct {
	Endpoint string
	Want     []string
	Got      int
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("endpoint %q takes %d method parameter(s) (%s), got %d",
		e.Endpoint, len(e.Want), strings.Join(e.Want, ", "), e.Got)
}

const maxSuggestions = 3

type endpointSource []Endpoint

func (s endpointSource) String(i int) string { return s[i].Name }
func (s endpointSource) Len() int            { return len(s) }

// Endpoints returns the catalog of the client's API version sorted by name.
func (c *Client) Endpoints() []Endpoint {
	out := append([]Endpoint(nil), c.Version.Catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Endpoint looks up name in the client's API version catalog.
func (c *Client) Endpoint(name string) (Endpoint, error) {
	name = strings.TrimSpace(name)
	for _, ep := range c.Version.Catalog {
		if strings.EqualFold(ep.Name, name) {
			return ep, nil
		}
	}

	var suggestions []string
	if name != "" {
		results := fuzzy.FindFrom(strings.ToLower(name), endpointSource(c.Version.Catalog))
		for i, r := range results {
			if i == maxSuggestions {
				break
			}
			suggestions = append(suggestions, c.Version.Catalog[r.Index].Name)
		}
	}
	return Endpoint{}, &UnknownEndpointError{Name: name, Version: c.Version.Name, Suggestions: suggestions}
}

// Request builds the request for ep.
func (ep Endpoint) Request(args CallArgs) (Request, error) {
	if len(args.MethodParams) != len(ep.Args) {
		return Request{}, &ArgCountError{Endpoint: ep.Name, Want: ep.Args, Got: len(args.MethodParams)}
	}
	mparams := make([]any, 0, len(ep.Prefix)+len(args.MethodParams))
	mparams = append(mparams, ep.Prefix...)
	mparams = append(mparams, args.MethodParams...)
	return Request{
		Type:         ep.Type,
		Method:       ep.Method,
		MethodParams: mparams,
		APIParams:    args.APIParams,
		PostParams:   args.PostParams,
		Files:        args.Files,
	}, nil
}

// Call sends the named catalog endpoint. Endpoints marked Auth run under
// LoginRequired.
func (c *Client) Call(ctx context.Context, name string, args CallArgs) (*Result, error) {
	ep, err := c.Endpoint(name)
	if err != nil {
		return nil, err
	}
	req, err := ep.Request(args)
	if err != nil {
		return nil, err
	}
	if ep.Auth {
		return c.RequestWithLogin(ctx, req)
	}
	return c.Request(ctx, req)
}
