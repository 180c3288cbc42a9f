package skills

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillkit/pkg/frontmatter"
)

// Discovery finds skill directories beneath one or more roots
type Discovery struct {
	roots []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithRoots sets the directories whose children are skills
func WithRoots(roots ...string) Option {
	return func(d *Discovery) error {
		if len(roots) == 0 {
			return errors.New("at least one skills root must be specified")
		}
		d.roots = roots
		return nil
	}
}

// WithDefaultRoots uses ./skills followed by ~/.skillkit/skills
func WithDefaultRoots() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.roots = []string{
			"./skills",
			filepath.Join(homeDir, ".skillkit", "skills"),
		}
		return nil
	}
}

// NewDiscovery creates a new skill discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultRoots()}
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Roots returns the configured roots
func (d *Discovery) Roots() []string {
	return d.roots
}

// Directories returns every non-hidden child directory of the roots,
// ordered by root then name. Missing roots are skipped. Whether a directory
// holds a SKILL.md is not checked.
func (d *Discovery) Directories() []string {
	var dirs []string

	for _, root := range d.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			entryPath := filepath.Join(root, entry.Name())
			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}
			dirs = append(dirs, entryPath)
		}
	}

	return dirs
}

// Discover returns the skills found beneath the roots. When two roots hold
// a directory of the same name, the earlier root wins.
func (d *Discovery) Discover() ([]*Skill, error) {
	var skills []*Skill
	seen := make(map[string]bool)

	for _, dir := range d.Directories() {
		base := filepath.Base(dir)
		if seen[base] {
			continue
		}

		skill, err := loadSkill(dir)
		if err != nil {
			continue
		}

		seen[base] = true
		skills = append(skills, skill)
	}

	return skills, nil
}

// loadSkill summarizes dir from its SKILL.md frontmatter. The directory
// name stands in for a missing name field.
func loadSkill(dir string) (*Skill, error) {
	content, err := os.ReadFile(filepath.Join(dir, SkillFileName))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	skill := &Skill{
		Name:      filepath.Base(dir),
		Directory: dir,
	}

	if fm, ok := frontmatter.Parse(string(content)); ok {
		if name := fm.Value("name"); name != "" {
			skill.Name = name
		}
		skill.Description = fm.Value("description")
	}

	return skill, nil
}

// Filter keeps the skills whose name matches pattern (gobwas/glob syntax).
// An empty pattern keeps everything. The result is sorted by name.
func Filter(skills []*Skill, pattern string) ([]*Skill, error) {
	var matcher glob.Glob
	if pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid filter pattern '%s'", pattern)
		}
		matcher = g
	}

	filtered := make([]*Skill, 0, len(skills))
	for _, s := range skills {
		if matcher == nil || matcher.Match(s.Name) {
			filtered = append(filtered, s)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	return filtered, nil
}
