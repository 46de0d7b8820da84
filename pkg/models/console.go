package models

import (
	"errors"
	"strings"
)

// Operations a resource may expose.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

var ErrUnsupportedOperation = errors.New("operation not supported by resource")

// ConsoleConfig is the registry of backend resources the console manages.
type ConsoleConfig struct {
	Resources []Resource `yaml:"resources" toml:"resources"`
}

// Resource describes one backend collection. The backend does not use the
// same path for every verb, so each operation carries its own endpoint.
type Resource struct {
	Name      string    `yaml:"name" toml:"name"`
	Label     string    `yaml:"label" toml:"label"`
	Endpoints Endpoints `yaml:"endpoints" toml:"endpoints"`
	Fields    []Field   `yaml:"fields" toml:"fields"`
}

type Endpoints struct {
	List   string `yaml:"list" toml:"list"`
	Get    string `yaml:"get" toml:"get"`
	Create string `yaml:"create" toml:"create"`
	Update string `yaml:"update" toml:"update"`
	Delete string `yaml:"delete" toml:"delete"`
}

// Field is a column shown for generic records.
type Field struct {
	Name  string `yaml:"name" toml:"name"`
	Label string `yaml:"label" toml:"label"`
}

// Endpoint returns the backend path for op, without leading or trailing slashes.
func (r Resource) Endpoint(op string) (string, error) {
	var p string
	switch op {
	case OpList:
		p = r.Endpoints.List
	case OpGet:
		p = r.Endpoints.Get
	case OpCreate:
		p = r.Endpoints.Create
	case OpUpdate:
		p = r.Endpoints.Update
	case OpDelete:
		p = r.Endpoints.Delete
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return "", ErrUnsupportedOperation
	}
	return p, nil
}

// Supports reports whether op has an endpoint configured.
func (r Resource) Supports(op string) bool {
	_, err := r.Endpoint(op)
	return err == nil
}

func (r Resource) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Name
}

// Lookup finds a resource by name.
func (c *ConsoleConfig) Lookup(name string) (Resource, bool) {
	if c == nil {
		return Resource{}, false
	}
	for _, r := range c.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}
