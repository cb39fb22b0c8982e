package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"

	"zettel/internal/config"
	"zettel/internal/item"
)

const defaultIssueFormat = "{key} {summary}"

// Jira turns the issues matching a JQL filter into tasks. Priority
// names are instance-specific, so the mapping onto the abstract scale
// comes from the configuration; unmapped names yield no priority.
type Jira struct {
	name       string
	client     *jira.Client
	jql        string
	format     string
	priorities map[string]item.Priority
	loc        *time.Location
}

// NewJira opens a client for the configured JIRA instance. The filter
// should match open, relevant issues only; everything it returns lands
// on the agenda.
func NewJira(cfg config.ProviderConfig, loc *time.Location) (*Jira, error) {
	if cfg.URL == "" {
		return nil, errors.New("provider: jira base URL is required")
	}
	if cfg.JQL == "" {
		return nil, errors.New("provider: jira jql filter is required")
	}
	if loc == nil {
		loc = time.Local
	}

	name := cfg.Name
	if name == "" {
		name = "jira"
	}

	tp := jira.BasicAuthTransport{
		Username: cfg.Username,
		Password: cfg.Token,
	}
	client, err := jira.NewClient(tp.Client(), cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}

	priorities := make(map[string]item.Priority, len(cfg.Priorities))
	for backendName, abstract := range cfg.Priorities {
		priorities[backendName] = item.ParsePriority(abstract)
	}

	return &Jira{
		name:       name,
		client:     client,
		jql:        cfg.JQL,
		format:     cfg.Format,
		priorities: priorities,
		loc:        loc,
	}, nil
}

func (p *Jira) Name() string { return p.name }

func (p *Jira) Fetch(ctx context.Context) ([]*item.Item, error) {
	issues, _, err := p.client.Issue.SearchWithContext(ctx, p.jql, &jira.SearchOptions{})
	if err != nil {
		return nil, fmt.Errorf("provider %s: search issues: %w", p.name, err)
	}

	items := make([]*item.Item, 0, len(issues))
	for i := range issues {
		items = append(items, p.toTask(&issues[i]))
	}
	return items, nil
}

func (p *Jira) toTask(issue *jira.Issue) *item.Item {
	var priority item.Priority
	if issue.Fields.Priority != nil {
		priority = p.priorities[issue.Fields.Priority.Name]
	}

	var due time.Time
	if d := time.Time(issue.Fields.Duedate); !d.IsZero() {
		// Due dates come over the wire date-only; pin them to the
		// display zone so comparisons against today hold up.
		due = item.StartOfDay(d, p.loc)
	}

	return item.NewTask(
		formatIssueName(p.format, issue.Key, issue.Fields.Summary),
		priority,
		issueTags(issue),
		due,
	)
}

// formatIssueName substitutes {key} and {summary} in the configured
// name format.
func formatIssueName(format, key, summary string) string {
	if format == "" {
		format = defaultIssueFormat
	}
	s := strings.ReplaceAll(format, "{key}", key)
	return strings.ReplaceAll(s, "{summary}", summary)
}

// issueTags gives every issue the generic JIRA tag and its project key,
// plus any labels the issue carries.
func issueTags(issue *jira.Issue) []string {
	tags := []string{"JIRA"}
	if issue.Fields.Project.Key != "" {
		tags = append(tags, issue.Fields.Project.Key)
	}
	return append(tags, issue.Fields.Labels...)
}
