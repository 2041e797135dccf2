package sdk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/nexus/api"
)

// Client reads the dashboard endpoints of a Nexus server.
type Client struct {
	transport   *transport
	partTimeout time.Duration
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	o := buildOptions(opts)
	return &Client{
		transport:   newTransport(o, "nexus-sdk/"+Version),
		partTimeout: o.partTimeout,
	}
}

// Ping checks the server's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.transport.get(ctx, "/health", nil, nil)
}

// Agents lists registered agents.
func (c *Client) Agents(ctx context.Context) ([]api.Agent, error) {
	var resp api.AgentsResponse
	if err := c.transport.get(ctx, "/api/mock/agents", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Agents, nil
}

// Agent returns one agent. Use IsNotFound to detect unknown ids.
func (c *Client) Agent(ctx context.Context, agentID string) (*api.Agent, error) {
	var agent api.Agent
	if err := c.transport.get(ctx, "/api/mock/agents/"+url.PathEscape(agentID), nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// RegisterAgent creates an agent.
func (c *Client) RegisterAgent(ctx context.Context, req api.CreateAgentRequest) (*api.Agent, error) {
	var agent api.Agent
	if err := c.transport.post(ctx, "/api/mock/agents", req, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// AgentMetrics returns the hourly metrics, health and errors for an agent.
func (c *Client) AgentMetrics(ctx context.Context, agentID string) (*api.AgentMetricsResponse, error) {
	var resp api.AgentMetricsResponse
	path := "/api/mock/agents/" + url.PathEscape(agentID) + "/metrics"
	if err := c.transport.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats returns counts of stored telemetry.
func (c *Client) Stats(ctx context.Context) (*api.StatsResponse, error) {
	var resp api.StatsResponse
	if err := c.transport.get(ctx, "/api/mock/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Organizations lists organizations.
func (c *Client) Organizations(ctx context.Context) ([]api.Organization, error) {
	var resp api.OrganizationsResponse
	if err := c.transport.get(ctx, "/api/frontend/organizations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Organizations, nil
}

// LogQuery filters Logs. Empty fields are not sent.
type LogQuery struct {
	Type    string
	AgentID string
	Limit   int
}

// Logs returns stored log entries, newest first.
func (c *Client) Logs(ctx context.Context, q LogQuery) ([]api.LogEntry, error) {
	query := url.Values{}
	if q.Type != "" {
		query.Set("type", q.Type)
	}
	if q.AgentID != "" {
		query.Set("agent_id", q.AgentID)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var resp api.LogsResponse
	if err := c.transport.get(ctx, "/api/mock/logs", query, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// Snapshot parts, used as keys of Snapshot.Errors.
const (
	PartAgents  = "agents"
	PartMetrics = "metrics"
	PartStats   = "stats"
)

// Snapshot is everything a dashboard view needs. A part that failed to load keeps its zero state
// and has its error in Errors.
type Snapshot struct {
	Agents  []api.Agent
	Metrics api.AgentMetricsResponse
	Stats   api.StatsResponse
	Errors  map[string]error
}

// OK reports whether every part loaded.
func (s *Snapshot) OK() bool {
	return len(s.Errors) == 0
}

// Snapshot loads agents, stats and, when agentID is set, the agent's metrics in parallel.
// Each request has its own timeout and never cancels the others.
func (c *Client) Snapshot(ctx context.Context, agentID string) *Snapshot {
	snap := &Snapshot{
		Agents: []api.Agent{},
		Metrics: api.AgentMetricsResponse{
			AgentID: agentID,
			Metrics: []api.MetricsPoint{},
			Health:  []api.HealthPoint{},
			Errors:  []api.ErrorPoint{},
		},
		Stats:  api.StatsResponse{Logs: map[string]int{}},
		Errors: map[string]error{},
	}

	var mu sync.Mutex
	var g errgroup.Group
	settle := func(part string, load func(ctx context.Context) error) {
		g.Go(func() error {
			partCtx, cancel := context.WithTimeout(ctx, c.partTimeout)
			defer cancel()

			if err := load(partCtx); err != nil {
				mu.Lock()
				snap.Errors[part] = fmt.Errorf("load %s: %w", part, err)
				mu.Unlock()
			}
			return nil
		})
	}

	settle(PartAgents, func(ctx context.Context) error {
		agents, err := c.Agents(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Agents = agents
		mu.Unlock()
		return nil
	})
	if agentID != "" {
		settle(PartMetrics, func(ctx context.Context) error {
			metrics, err := c.AgentMetrics(ctx, agentID)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.Metrics = *metrics
			mu.Unlock()
			return nil
		})
	}
	settle(PartStats, func(ctx context.Context) error {
		stats, err := c.Stats(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Stats = *stats
		mu.Unlock()
		return nil
	})

	_ = g.Wait()
	return snap
}
