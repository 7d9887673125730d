package album

import (
	"io/fs"
	"path/filepath"
	"strings"

	"immichsync/internal/immich"
)

// TemplateSet holds the properties files discovered under a root, keyed by
// the folder that contains them.
type TemplateSet struct {
	root  string
	byDir map[string]Properties
}

// DiscoverTemplates walks the root and loads every properties file found.
// Folders that cannot be read are skipped (external mounts disappear); a
// malformed properties file aborts discovery so bad configuration is not
// silently ignored.
func DiscoverTemplates(root string, defaultRole immich.Role) (*TemplateSet, error) {
	set := &TemplateSet{
		root:  filepath.Clean(root),
		byDir: make(map[string]Properties),
	}
	err := filepath.WalkDir(set.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fs.SkipDir
		}
		if entry.IsDir() || entry.Name() != PropertiesFileName {
			return nil
		}
		props, err := LoadProperties(path, defaultRole)
		if err != nil {
			return err
		}
		set.byDir[filepath.Dir(path)] = props
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Len reports how many properties files were discovered.
func (s *TemplateSet) Len() int {
	return len(s.byDir)
}

// EffectiveFor merges the templates that apply to the given folder, walking
// from the folder up to the root. The closest folder's values win over any
// ancestor's.
func (s *TemplateSet) EffectiveFor(dir string) (Properties, bool) {
	merged := New("")
	found := false
	current := filepath.Clean(dir)
	for {
		if props, ok := s.byDir[current]; ok {
			found = true
			// Ignoring the error: exclusive merges never conflict.
			_ = merged.Merge(props, MergeExclusive)
		}
		if current == s.root || !strings.HasPrefix(current, s.root) {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	if !found {
		return Properties{}, false
	}
	return Properties{
		OverrideName:            merged.OverrideName,
		Description:             merged.Description,
		ShareWith:               merged.ShareWith,
		ThumbnailSetting:        merged.ThumbnailSetting,
		SortOrder:               merged.SortOrder,
		Archive:                 merged.Archive,
		CommentsAndLikesEnabled: merged.CommentsAndLikesEnabled,
	}, true
}

// ApplyTo merges the effective templates of every source folder into the
// model. Strict merging surfaces genuinely ambiguous configuration when one
// album is fed from folders with contradicting properties.
func (s *TemplateSet) ApplyTo(m *Model) error {
	for _, dir := range m.SourceDirs {
		props, ok := s.EffectiveFor(dir)
		if !ok {
			continue
		}
		if err := m.Merge(props, MergeExclusiveStrict); err != nil {
			return err
		}
	}
	return nil
}
