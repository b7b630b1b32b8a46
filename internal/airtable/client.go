// Package airtable reconciles harvested award records against an
// Airtable base.
package airtable

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.airtable.com"

// Config carries the Airtable connection settings.
type Config struct {
	APIKey    string
	BaseID    string
	TableName string
	// BaseURL overrides the API endpoint. Empty means production.
	BaseURL string
}

// RemoteRecord is one row as the API returns it.
type RemoteRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// SchemaField describes one column of the remote table.
type SchemaField struct {
	Name    string
	Type    string
	Options []string // select choices, when the column has them
}

// Client is a thin wrapper over the Airtable REST API.
type Client struct {
	cfg    Config
	http   *resty.Client
	logger *zap.Logger
}

// NewClient builds a client. The API key is sent as a bearer token on
// every request.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	hc := resty.New().
		SetBaseURL(base).
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Client{cfg: cfg, http: hc, logger: logger}
}

type listResponse struct {
	Records []RemoteRecord `json:"records"`
	Offset  string         `json:"offset"`
}

func (c *Client) tablePath() string {
	return fmt.Sprintf("/v0/%s/%s", c.cfg.BaseID, c.cfg.TableName)
}

// ListRecords pages through the table, projecting only the given
// fields.
func (c *Client) ListRecords(ctx context.Context, fields []string) ([]RemoteRecord, error) {
	var out []RemoteRecord
	offset := ""
	for {
		var page listResponse
		req := c.http.R().SetContext(ctx).SetResult(&page)
		if len(fields) > 0 {
			req.SetQueryParamsFromValues(url.Values{"fields[]": fields})
		}
		if offset != "" {
			req.SetQueryParam("offset", offset)
		}
		resp, err := req.Get(c.tablePath())
		if err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
		if resp.IsError() {
			c.logger.Warn("list records rejected",
				zap.Int("status", resp.StatusCode()),
				zap.String("body", resp.String()))
			return nil, fmt.Errorf("list records: HTTP %d", resp.StatusCode())
		}
		out = append(out, page.Records...)
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// QueryByFormula returns the records matching an Airtable formula.
func (c *Client) QueryByFormula(ctx context.Context, formula string) ([]RemoteRecord, error) {
	var page listResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("filterByFormula", formula).
		SetResult(&page).
		Get(c.tablePath())
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("query rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return nil, fmt.Errorf("query records: HTTP %d", resp.StatusCode())
	}
	return page.Records, nil
}

// CreateRecord inserts one row and returns its remote ID.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (string, error) {
	var created RemoteRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"fields": fields}).
		SetResult(&created).
		Post(c.tablePath())
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("create rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return "", fmt.Errorf("create record: HTTP %d", resp.StatusCode())
	}
	return created.ID, nil
}

// UpdateRecord patches the given fields on an existing row.
func (c *Client) UpdateRecord(ctx context.Context, id string, fields map[string]any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"fields": fields}).
		Patch(c.tablePath() + "/" + id)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("update rejected",
			zap.String("record_id", id),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return fmt.Errorf("update record: HTTP %d", resp.StatusCode())
	}
	return nil
}

type metaResponse struct {
	Tables []struct {
		Name   string `json:"name"`
		Fields []struct {
			Name    string `json:"name"`
			Type    string `json:"type"`
			Options *struct {
				Choices []struct {
					Name string `json:"name"`
				} `json:"choices"`
			} `json:"options"`
		} `json:"fields"`
	} `json:"tables"`
}

// Schema fetches the column definitions of the configured table from
// the metadata API.
func (c *Client) Schema(ctx context.Context) ([]SchemaField, error) {
	var meta metaResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&meta).
		Get(fmt.Sprintf("/v0/meta/bases/%s/tables", c.cfg.BaseID))
	if err != nil {
		return nil, fmt.Errorf("fetch schema: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("schema fetch rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return nil, fmt.Errorf("fetch schema: HTTP %d", resp.StatusCode())
	}
	for _, table := range meta.Tables {
		if table.Name != c.cfg.TableName {
			continue
		}
		out := make([]SchemaField, 0, len(table.Fields))
		for _, f := range table.Fields {
			sf := SchemaField{Name: f.Name, Type: f.Type}
			if f.Options != nil {
				for _, ch := range f.Options.Choices {
					sf.Options = append(sf.Options, ch.Name)
				}
			}
			out = append(out, sf)
		}
		return out, nil
	}
	return nil, fmt.Errorf("fetch schema: table %q not found", c.cfg.TableName)
}
