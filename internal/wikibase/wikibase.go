// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikibase reads from the knowledge base: identifier indices and
// name items through the SPARQL query service, and current entity claims
// through the action API.
package wikibase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Vesihiisi/Biblioteksdata/internal/httputil"
	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/names"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Default endpoints.
const (
	DefaultSPARQLEndpoint = "https://query.wikidata.org/sparql"
	DefaultAPIEndpoint    = "https://www.wikidata.org/w/api.php"
)

// NameClasses holds the classes of name items and the property carrying
// their native spelling.
type NameClasses struct {
	Given       string
	Family      string
	NativeLabel string
}

// DefaultNameClasses are the Wikidata given name and family name classes.
var DefaultNameClasses = NameClasses{Given: "Q202444", Family: "Q101352", NativeLabel: "P1705"}

// Client talks to one knowledge base.
type Client struct {
	http    *httputil.Client
	sparql  string
	api     string
	classes NameClasses
}

// NewClient returns a client for cfg. Empty endpoints use the defaults.
func NewClient(cfg types.WikibaseConfig, classes NameClasses) *Client {
	c := &Client{
		http:    httputil.NewClient(cfg.HTTPConfig),
		sparql:  cfg.SPARQLEndpoint,
		api:     cfg.APIEndpoint,
		classes: classes,
	}
	if c.sparql == "" {
		c.sparql = DefaultSPARQLEndpoint
	}
	if c.api == "" {
		c.api = DefaultAPIEndpoint
	}
	return c
}

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

func (c *Client) query(ctx context.Context, q string) (*sparqlResponse, error) {
	var resp sparqlResponse
	err := c.http.GetJSON(ctx, c.sparql, url.Values{"query": {q}, "format": {"json"}}, &resp)
	if err != nil {
		return nil, fmt.Errorf("sparql query: %w", err)
	}
	return &resp, nil
}

// Pairs returns every (value, item) pair for property, e.g. all items with
// a Libris URI. Items whose statement has no plain value are skipped.
func (c *Client) Pairs(ctx context.Context, property string) ([]mapping.Pair, error) {
	q := fmt.Sprintf(
		"SELECT DISTINCT ?item ?value WHERE { ?item p:%[1]s ?statement. OPTIONAL { ?item wdt:%[1]s ?value. } }",
		property)
	resp, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}
	pairs := make([]mapping.Pair, 0, len(resp.Results.Bindings))
	for _, b := range resp.Results.Bindings {
		item, value := b["item"].Value, b["value"].Value
		if item == "" || value == "" {
			continue
		}
		pairs = append(pairs, mapping.Pair{Value: value, Item: record.LastSegment(item)})
	}
	return pairs, nil
}

// LookupName returns the single name item of the given kind whose native
// label is name, or "" when there is none or several. It satisfies
// names.LookupFunc.
func (c *Client) LookupName(ctx context.Context, kind names.Kind, name string) (string, error) {
	class := c.classes.Given
	if kind == names.Family {
		class = c.classes.Family
	}
	q := fmt.Sprintf(
		"SELECT DISTINCT ?item WHERE { ?item wdt:P31 wd:%s. ?item wdt:%s ?value. FILTER(str(?value) = %s) }",
		class, c.classes.NativeLabel, quote(name))
	resp, err := c.query(ctx, q)
	if err != nil {
		return "", err
	}
	if len(resp.Results.Bindings) != 1 {
		return "", nil
	}
	return record.LastSegment(resp.Results.Bindings[0]["item"].Value), nil
}

// quote renders s as a SPARQL string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	return `"` + r.Replace(s) + `"`
}

type entitiesResponse struct {
	Entities map[string]struct {
		Missing *string `json:"missing"`
		Claims  map[string][]struct {
			Mainsnak struct {
				Snaktype  string `json:"snaktype"`
				Datavalue struct {
					Value struct {
						Time      string `json:"time"`
						Precision int    `json:"precision"`
					} `json:"value"`
				} `json:"datavalue"`
			} `json:"mainsnak"`
		} `json:"claims"`
	} `json:"entities"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Dates returns the time values an entity currently states for property.
// It satisfies dedupe.DateReader.
func (c *Client) Dates(ctx context.Context, kbID, property string) ([]types.Date, error) {
	var resp entitiesResponse
	err := c.http.GetJSON(ctx, c.api, url.Values{
		"action": {"wbgetentities"},
		"ids":    {kbID},
		"props":  {"claims"},
		"format": {"json"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", kbID, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("reading %s: %s: %s", kbID, resp.Error.Code, resp.Error.Info)
	}
	entity, ok := resp.Entities[kbID]
	if !ok || entity.Missing != nil {
		return nil, fmt.Errorf("reading %s: entity missing", kbID)
	}

	var out []types.Date
	for _, claim := range entity.Claims[property] {
		if claim.Mainsnak.Snaktype != "value" {
			continue
		}
		v := claim.Mainsnak.Datavalue.Value
		d, err := ParseTime(v.Time, v.Precision)
		if err != nil {
			return nil, fmt.Errorf("reading %s %s: %w", kbID, property, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseTime converts a Wikibase timestamp such as "+1954-03-02T00:00:00Z"
// with its precision into a Date. Fields finer than the precision are
// zeroed.
func ParseTime(ts string, precision int) (types.Date, error) {
	s := strings.TrimPrefix(ts, "+")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	date, _, _ := strings.Cut(s, "T")
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return types.Date{}, fmt.Errorf("malformed timestamp %q", ts)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return types.Date{}, fmt.Errorf("malformed timestamp %q", ts)
		}
		nums[i] = n
	}
	if neg {
		nums[0] = -nums[0]
	}

	d := types.Date{Year: nums[0], Precision: types.Precision(precision)}
	if d.Precision >= types.PrecisionMonth {
		d.Month = nums[1]
	}
	if d.Precision >= types.PrecisionDay {
		d.Day = nums[2]
		d.Precision = types.PrecisionDay
	}
	return d, nil
}
