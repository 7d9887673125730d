package album

import (
	"errors"
	"fmt"
	"slices"
)

// MergeMode controls how incoming properties combine with ones already set
// on a model.
type MergeMode int

const (
	// MergeExclusive sets a property only when the target has it unset;
	// conflicts are silently skipped.
	MergeExclusive MergeMode = iota + 1
	// MergeExclusiveStrict behaves like MergeExclusive but reports an
	// error when both sides are set to different values.
	MergeExclusiveStrict
	// MergeOverride lets any set incoming property replace the target's.
	MergeOverride
)

// ErrMergeConflict marks an ambiguous property merge under
// MergeExclusiveStrict.
var ErrMergeConflict = errors.New("conflicting album property")

// Properties is the mergeable subset of a Model, as contributed by a
// properties file or CLI defaults.
type Properties struct {
	OverrideName            string
	Description             string
	ShareWith               []ShareUser
	ThumbnailSetting        string
	SortOrder               string
	Archive                 *bool
	CommentsAndLikesEnabled *bool
}

// Merge folds incoming properties into the model under the given mode.
// Under MergeExclusiveStrict the first conflicting field aborts the merge.
func (m *Model) Merge(incoming Properties, mode MergeMode) error {
	if err := mergeString(&m.OverrideName, incoming.OverrideName, mode, "override_name"); err != nil {
		return err
	}
	if err := mergeString(&m.Description, incoming.Description, mode, "description"); err != nil {
		return err
	}
	if err := mergeString(&m.ThumbnailSetting, incoming.ThumbnailSetting, mode, "thumbnail_setting"); err != nil {
		return err
	}
	if err := mergeString(&m.SortOrder, incoming.SortOrder, mode, "sort_order"); err != nil {
		return err
	}
	if err := mergeBool(&m.Archive, incoming.Archive, mode, "archive"); err != nil {
		return err
	}
	if err := mergeBool(&m.CommentsAndLikesEnabled, incoming.CommentsAndLikesEnabled, mode, "comments_and_likes_enabled"); err != nil {
		return err
	}
	return m.mergeShareWith(incoming.ShareWith, mode)
}

func mergeString(target *string, incoming string, mode MergeMode, field string) error {
	if incoming == "" {
		return nil
	}
	if *target == "" || mode == MergeOverride {
		*target = incoming
		return nil
	}
	if mode == MergeExclusiveStrict && *target != incoming {
		return fmt.Errorf("%w: %s is %q, incoming %q", ErrMergeConflict, field, *target, incoming)
	}
	return nil
}

func mergeBool(target **bool, incoming *bool, mode MergeMode, field string) error {
	if incoming == nil {
		return nil
	}
	if *target == nil || mode == MergeOverride {
		value := *incoming
		*target = &value
		return nil
	}
	if mode == MergeExclusiveStrict && **target != *incoming {
		return fmt.Errorf("%w: %s is %t, incoming %t", ErrMergeConflict, field, **target, *incoming)
	}
	return nil
}

func (m *Model) mergeShareWith(incoming []ShareUser, mode MergeMode) error {
	if len(incoming) == 0 {
		return nil
	}
	if len(m.ShareWith) == 0 || mode == MergeOverride {
		m.ShareWith = slices.Clone(incoming)
		return nil
	}
	if mode == MergeExclusiveStrict && !slices.Equal(m.ShareWith, incoming) {
		return fmt.Errorf("%w: share_with is %v, incoming %v", ErrMergeConflict, m.ShareWith, incoming)
	}
	return nil
}
