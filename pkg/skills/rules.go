package skills

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/jingkaihe/skillkit/pkg/config"
)

// placeholder marks unfinished template text.
const placeholder = "TODO"

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Rule is one independent check over a loaded definition.
type Rule struct {
	Name  string
	Check func(def *Definition, cfg config.ValidationConfig) []Diagnostic
}

// DefaultRules returns the rules every skill is held to, in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "frontmatter", Check: checkFrontmatter},
		{Name: "line-count", Check: checkLineCount},
		{Name: "placeholders", Check: checkPlaceholders},
		{Name: "entries", Check: checkEntries},
		{Name: "name-matches-directory", Check: checkNameMatchesDirectory},
	}
}

// StrictYAMLRule flags headers that a full YAML parser would reject.
func StrictYAMLRule() Rule {
	return Rule{Name: "strict-yaml", Check: checkStrictYAML}
}

func checkFrontmatter(def *Definition, cfg config.ValidationConfig) []Diagnostic {
	fm := def.Frontmatter
	if fm == nil {
		return []Diagnostic{errorf("Missing or invalid frontmatter (must start with ---)")}
	}

	var diags []Diagnostic

	name := fm.Value("name")
	switch {
	case name == "":
		diags = append(diags, errorf("Frontmatter missing 'name' field"))
	case utf8.RuneCountInString(name) > cfg.MaxNameLength:
		diags = append(diags, errorf("Name too long (%d chars, max %d)", utf8.RuneCountInString(name), cfg.MaxNameLength))
	case !namePattern.MatchString(name):
		diags = append(diags, errorf("Name must be lowercase letters, digits, hyphens: '%s'", name))
	}

	description := fm.Value("description")
	switch {
	case description == "":
		diags = append(diags, errorf("Frontmatter missing 'description' field"))
	case strings.Contains(description, placeholder):
		diags = append(diags, warnf("Description contains TODO placeholder"))
	case utf8.RuneCountInString(description) < cfg.MinDescriptionLength:
		diags = append(diags, warnf("Description seems short, include when to trigger this skill"))
	}

	return diags
}

// checkLineCount counts "\n"-separated segments of the whole file, header
// included, so a trailing newline adds one.
func checkLineCount(def *Definition, cfg config.ValidationConfig) []Diagnostic {
	lines := len(strings.Split(def.Content, "\n"))
	if lines > cfg.MaxLines {
		return []Diagnostic{warnf("%s is %d lines (recommended max %d)", SkillFileName, lines, cfg.MaxLines)}
	}
	return nil
}

// checkPlaceholders scans the whole file, so a TODO in the description is
// reported here as well as by checkFrontmatter.
func checkPlaceholders(def *Definition, _ config.ValidationConfig) []Diagnostic {
	if strings.Contains(def.Content, placeholder) {
		return []Diagnostic{warnf("%s body contains TODO placeholders", SkillFileName)}
	}
	return nil
}

func checkEntries(def *Definition, cfg config.ValidationConfig) []Diagnostic {
	var diags []Diagnostic

	for _, entry := range def.Entries {
		if entry.Name == SkillFileName || ignored(entry.Name, cfg.Ignore) {
			continue
		}

		switch entry.Kind {
		case EntryDirectory:
			if !IsResourceKind(entry.Name) {
				diags = append(diags, warnf("Unexpected directory: %s/ (allowed: %s)", entry.Name, allowedResources()))
			}
		case EntryFile:
			diags = append(diags, warnf("Unexpected file in skill root: %s", entry.Name))
		}
	}

	return diags
}

func checkNameMatchesDirectory(def *Definition, _ config.ValidationConfig) []Diagnostic {
	name := def.Frontmatter.Value("name")
	if name == "" || name == def.Name {
		return nil
	}
	return []Diagnostic{warnf("Directory name '%s' doesn't match frontmatter name '%s'", def.Name, name)}
}

func checkStrictYAML(def *Definition, _ config.ValidationConfig) []Diagnostic {
	if def.Frontmatter == nil {
		return nil
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	pctx := parser.NewContext()

	var buf bytes.Buffer
	if err := md.Convert([]byte(def.Content), &buf, parser.WithContext(pctx)); err != nil {
		return []Diagnostic{warnf("Frontmatter is not valid YAML: %v", err)}
	}
	if _, err := meta.TryGet(pctx); err != nil {
		return []Diagnostic{warnf("Frontmatter is not valid YAML: %v", err)}
	}

	return nil
}

func ignored(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func allowedResources() string {
	kinds := ResourceKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
