package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bugboard/internal/model"
)

// Client talks to a Bugzilla-flavored REST API. It implements both
// Repository and Updater.
type Client struct {
	BaseURL string
	APIKey  string
	Product string

	// HTTP is overridable for tests; nil means a client with a sane timeout.
	HTTP *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Wire shapes. The tracker reports flags as an array of name/status pairs
// and points as an optional number; both are normalized into model.Bug.
type wireFlag struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type wireBug struct {
	ID             int        `json:"id"`
	Summary        string     `json:"summary"`
	Status         string     `json:"status"`
	Resolution     string     `json:"resolution"`
	Whiteboard     string     `json:"whiteboard"`
	Flags          []wireFlag `json:"flags"`
	AssignedTo     string     `json:"assigned_to"`
	Priority       string     `json:"priority"`
	Severity       string     `json:"severity"`
	Points         *int       `json:"points"`
	Description    string     `json:"description"`
	Product        string     `json:"product"`
	Component      string     `json:"component"`
	LastChangeTime time.Time  `json:"last_change_time"`
}

type wireBugList struct {
	Bugs []wireBug `json:"bugs"`
}

type wireError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (w wireBug) toModel() model.Bug {
	b := model.Bug{
		ID:             w.ID,
		Summary:        w.Summary,
		Status:         w.Status,
		Resolution:     w.Resolution,
		Whiteboard:     w.Whiteboard,
		AssignedTo:     w.AssignedTo,
		Priority:       w.Priority,
		Severity:       w.Severity,
		Points:         model.PointsUnknown,
		Description:    w.Description,
		Product:        w.Product,
		Component:      w.Component,
		LastChangeTime: w.LastChangeTime,
	}
	if w.Points != nil {
		b.Points = *w.Points
	}
	if len(w.Flags) > 0 {
		b.Flags = make(map[string]string, len(w.Flags))
		for _, f := range w.Flags {
			b.Flags[f.Name] = f.Status
		}
	}
	return b
}

var includeFields = strings.Join([]string{
	"id", "summary", "status", "resolution", "whiteboard", "flags",
	"assigned_to", "priority", "severity", "points", "description",
	"product", "component", "last_change_time",
}, ",")

// FetchBugs lists the product's bugs with the fields the board needs.
func (c *Client) FetchBugs(ctx context.Context) ([]model.Bug, error) {
	q := url.Values{}
	if strings.TrimSpace(c.Product) != "" {
		q.Set("product", c.Product)
	}
	q.Set("include_fields", includeFields)

	req, err := c.newRequest(ctx, http.MethodGet, "/rest/bug?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var list wireBugList
	if err := c.do(req, &list); err != nil {
		return nil, fmt.Errorf("fetch bugs: %w", err)
	}
	out := make([]model.Bug, 0, len(list.Bugs))
	for _, w := range list.Bugs {
		out = append(out, w.toModel())
	}
	return out, nil
}

// UpdateBug applies one bug's staged field updates.
func (c *Client) UpdateBug(ctx context.Context, id int, up BugUpdate) error {
	if up.Empty() {
		return nil
	}
	body, err := json.Marshal(up)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/rest/bug/%d", id), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("update bug %d: %w", id, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("tracker base URL is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.APIKey) != "" {
		req.Header.Set("X-BUGZILLA-API-KEY", c.APIKey)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Trackers report failures as a JSON error document; fall back to
		// the HTTP status when the body isn't one.
		var we wireError
		if json.Unmarshal(b, &we) == nil && strings.TrimSpace(we.Message) != "" {
			return fmt.Errorf("%s (code %d)", we.Message, we.Code)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(b, out)
}
