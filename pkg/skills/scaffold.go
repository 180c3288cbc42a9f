package skills

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
	"github.com/sirupsen/logrus"

	"github.com/jingkaihe/skillkit/pkg/config"
	"github.com/jingkaihe/skillkit/pkg/logger"
)

var (
	// ErrEmptyName means normalization left nothing of the requested name.
	ErrEmptyName = errors.New("name must include at least one letter or digit")
	// ErrExists means the skill directory or agent file is already there.
	ErrExists = errors.New("already exists")

	nonNameRun = regexp.MustCompile(`[^a-z0-9]+`)
)

const skillTemplate = `---
name: {{.Name}}
description: "[TODO: What this skill does and when to use it. Be specific about triggers.]"
---

# {{.Title}}

## Overview

[TODO: 1-2 sentences explaining what this skill enables]

## Instructions

[TODO: Add instructions, workflows, examples. Keep under {{.MaxLines}} lines.
For longer content, move to references/ and link from here.]
`

const agentTemplate = `---
name: {{.Name}}
description: "[TODO: What this agent does and when to dispatch it]"
model: "[TODO: model name, e.g. gpt-4o]"
provider: "[TODO: anthropic, openai, or gemini]"
tags: []
---

[TODO: Additional system prompt context for this agent type.
This becomes part of the worker's system prompt when dispatched.]
`

var (
	skillTmpl = template.Must(template.New("skill").Parse(skillTemplate))
	agentTmpl = template.Must(template.New("agent").Parse(agentTemplate))
)

// NormalizeName lower-cases raw, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends.
func NormalizeName(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = nonNameRun.ReplaceAllString(normalized, "-")
	return strings.Trim(normalized, "-")
}

// TitleCase turns a hyphenated name into space separated capitalized words.
func TitleCase(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SkillOptions describes a skill to scaffold
type SkillOptions struct {
	Name      string
	Path      string
	Resources []string
}

// AgentOptions describes an agent profile to scaffold
type AgentOptions struct {
	Name string
	Path string
}

// Scaffolded lists what a scaffold call produced
type Scaffolded struct {
	Name    string   // normalized name
	Path    string   // skill directory or agent file
	Created []string // every path written, in creation order
}

// Scaffolder creates new skills and agent profiles that pass validation
type Scaffolder struct {
	config config.ValidationConfig
}

// NewScaffolder returns a scaffolder using the given limits.
func NewScaffolder(cfg config.ValidationConfig) *Scaffolder {
	return &Scaffolder{config: cfg.WithDefaults()}
}

func (s *Scaffolder) normalize(raw string) (string, error) {
	name := NormalizeName(raw)
	if name == "" {
		return "", ErrEmptyName
	}
	if n := utf8.RuneCountInString(name); n > s.config.MaxNameLength {
		return "", errors.Errorf("name '%s' too long (%d chars, max %d)", name, n, s.config.MaxNameLength)
	}
	return name, nil
}

// CreateSkill writes <path>/<name>/SKILL.md and the requested resource
// directories. Unknown resource kinds are rejected before anything is written.
func (s *Scaffolder) CreateSkill(ctx context.Context, opts SkillOptions) (*Scaffolded, error) {
	name, err := s.normalize(opts.Name)
	if err != nil {
		return nil, err
	}

	resources, err := parseResources(opts.Resources)
	if err != nil {
		return nil, err
	}

	root, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve output path")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	skillDir := filepath.Join(root, name)
	if err := os.Mkdir(skillDir, 0o755); err != nil {
		if os.IsExist(err) {
			return nil, errors.Wrapf(ErrExists, "skill directory %s", skillDir)
		}
		return nil, errors.Wrap(err, "failed to create skill directory")
	}
	result := &Scaffolded{Name: name, Path: skillDir, Created: []string{skillDir}}

	content, err := render(skillTmpl, map[string]any{
		"Name":     name,
		"Title":    TitleCase(name),
		"MaxLines": s.config.MaxLines,
	})
	if err != nil {
		return nil, err
	}

	skillFile := filepath.Join(skillDir, SkillFileName)
	if err := writeNew(skillFile, content); err != nil {
		return nil, err
	}
	result.Created = append(result.Created, skillFile)

	for _, kind := range resources {
		resourceDir := filepath.Join(skillDir, string(kind))
		if err := os.MkdirAll(resourceDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create %s directory", kind)
		}
		result.Created = append(result.Created, resourceDir)
	}

	logger.G(ctx).WithFields(logrus.Fields{
		"skill":     name,
		"directory": skillDir,
		"resources": len(resources),
	}).Debug("scaffolded skill")

	return result, nil
}

// CreateAgent writes the single-file agent profile <path>/<name>.md.
func (s *Scaffolder) CreateAgent(ctx context.Context, opts AgentOptions) (*Scaffolded, error) {
	name, err := s.normalize(opts.Name)
	if err != nil {
		return nil, err
	}

	root, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve output path")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	content, err := render(agentTmpl, map[string]any{"Name": name})
	if err != nil {
		return nil, err
	}

	agentFile := filepath.Join(root, name+".md")
	if err := writeNew(agentFile, content); err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("agent", agentFile).Debug("scaffolded agent profile")

	return &Scaffolded{Name: name, Path: agentFile, Created: []string{agentFile}}, nil
}

// parseResources validates and de-duplicates the requested resource kinds.
// Entries may themselves be comma separated.
func parseResources(requested []string) ([]ResourceKind, error) {
	var (
		kinds   []ResourceKind
		invalid []string
		seen    = make(map[string]bool)
	)

	for _, item := range requested {
		for _, r := range strings.Split(item, ",") {
			r = strings.TrimSpace(r)
			if r == "" || seen[r] {
				continue
			}
			seen[r] = true

			if !IsResourceKind(r) {
				invalid = append(invalid, r)
				continue
			}
			kinds = append(kinds, ResourceKind(r))
		}
	}

	if len(invalid) > 0 {
		return nil, errors.Errorf("unknown resource type(s): %s (allowed: %s)",
			strings.Join(invalid, ", "), allowedResources())
	}

	return kinds, nil
}

func render(tmpl *template.Template, data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrapf(err, "failed to render %s template", tmpl.Name())
	}
	return buf.Bytes(), nil
}

// writeNew creates path exclusively under a file lock.
func writeNew(path string, content []byte) error {
	f, err := lockedfile.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Wrapf(ErrExists, "file %s", path)
		}
		return errors.Wrapf(err, "failed to create %s", filepath.Base(path))
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", filepath.Base(path))
	}

	return errors.Wrapf(f.Close(), "failed to close %s", filepath.Base(path))
}
