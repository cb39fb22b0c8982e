package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"zettel/internal/item"
)

// taskRecord is one entry of the local task list file.
type taskRecord struct {
	Name     string   `yaml:"name"`
	Priority string   `yaml:"priority,omitempty"`
	Due      string   `yaml:"due,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

// TaskFile reads tasks from a local YAML file, the zero-dependency
// backend for personal todo lists:
//
//	- name: water the plants
//	  priority: low
//	  due: 2026-08-30
//	  tags: [home]
type TaskFile struct {
	name string
	path string
	loc  *time.Location
}

func NewTaskFile(name, path string, loc *time.Location) (*TaskFile, error) {
	if path == "" {
		return nil, errors.New("provider: task file path is required")
	}
	if name == "" {
		name = "tasks"
	}
	if loc == nil {
		loc = time.Local
	}
	return &TaskFile{name: name, path: path, loc: loc}, nil
}

func (p *TaskFile) Name() string { return p.name }

func (p *TaskFile) Fetch(ctx context.Context) ([]*item.Item, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", p.name, err)
	}

	var records []taskRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("provider %s: %w", p.name, err)
	}

	items := make([]*item.Item, 0, len(records))
	for i, rec := range records {
		if rec.Name == "" {
			return nil, fmt.Errorf("provider %s: task %d has no name", p.name, i+1)
		}

		var due time.Time
		if rec.Due != "" {
			d, err := time.ParseInLocation("2006-01-02", rec.Due, p.loc)
			if err != nil {
				return nil, fmt.Errorf("provider %s: task %q: invalid due date: %w", p.name, rec.Name, err)
			}
			due = d
		}

		items = append(items, item.NewTask(rec.Name, item.ParsePriority(rec.Priority), rec.Tags, due))
	}
	return items, nil
}
