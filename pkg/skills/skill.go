// Package skills implements the on-disk convention for agent skills: a
// directory holding a SKILL.md file whose frontmatter names and describes
// the skill, plus optional scripts/, references/ and assets/ directories.
// It validates definitions, discovers them beneath a root, and scaffolds
// new skills and agent profiles.
package skills

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillkit/pkg/frontmatter"
)

// SkillFileName is the primary file of every skill directory.
const SkillFileName = "SKILL.md"

// ResourceKind names a directory allowed at the root of a skill.
type ResourceKind string

// Allowed resource directories.
const (
	ResourceScripts    ResourceKind = "scripts"
	ResourceReferences ResourceKind = "references"
	ResourceAssets     ResourceKind = "assets"
)

// ResourceKinds returns the allowed resource kinds in lexical order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{ResourceAssets, ResourceReferences, ResourceScripts}
}

// IsResourceKind reports whether name is an allowed resource directory.
func IsResourceKind(name string) bool {
	switch ResourceKind(name) {
	case ResourceScripts, ResourceReferences, ResourceAssets:
		return true
	}
	return false
}

// EntryKind classifies a child of a skill directory.
type EntryKind int

const (
	// EntryOther covers broken symlinks, sockets and anything else that is
	// neither a regular file nor a directory.
	EntryOther EntryKind = iota
	EntryFile
	EntryDirectory
)

// Entry is a direct child of a skill directory. Symlinks are resolved.
type Entry struct {
	Name string
	Kind EntryKind
}

// Definition is a skill directory loaded from disk.
type Definition struct {
	Name        string // basename of Directory
	Directory   string // absolute path
	Content     string // raw SKILL.md text
	Frontmatter *frontmatter.Frontmatter
	Entries     []Entry
}

// Skill is a discovered skill summarized by its frontmatter
type Skill struct {
	Name        string
	Description string
	Directory   string
}

// ErrMissingSkillFile is returned by LoadDefinition when SKILL.md is absent.
var ErrMissingSkillFile = errors.New("missing " + SkillFileName)

// LoadDefinition reads SKILL.md and the depth-1 listing of dir.
func LoadDefinition(dir string) (*Definition, error) {
	skillPath := filepath.Join(dir, SkillFileName)
	if _, err := os.Stat(skillPath); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMissingSkillFile
		}
		return nil, errors.Wrapf(err, "failed to stat %s", SkillFileName)
	}

	content, err := readFile(skillPath)
	if err != nil {
		return nil, err
	}

	entries, err := listEntries(dir)
	if err != nil {
		return nil, err
	}

	fm, _ := frontmatter.Parse(content)

	return &Definition{
		Name:        filepath.Base(dir),
		Directory:   dir,
		Content:     content,
		Frontmatter: fm,
		Entries:     entries,
	}, nil
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", filepath.Base(path))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", filepath.Base(path))
	}
	return string(data), nil
}

// listEntries returns the children of dir sorted by name.
func listEntries(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list skill directory")
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry := Entry{Name: de.Name(), Kind: EntryOther}

		info, err := os.Stat(filepath.Join(dir, de.Name()))
		if err == nil {
			switch {
			case info.IsDir():
				entry.Kind = EntryDirectory
			case info.Mode().IsRegular():
				entry.Kind = EntryFile
			}
		}

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
