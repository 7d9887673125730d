package album

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"immichsync/internal/immich"
)

// PropertiesFileName is the per-folder file declaring default album
// properties for albums derived from that folder.
const PropertiesFileName = ".albumprops"

// LoadProperties parses one properties file. Entries use key=value syntax;
// share_with accepts a comma-separated list of "user" or "user=role"
// entries, with defaultRole filling in omitted roles.
func LoadProperties(path string, defaultRole immich.Role) (Properties, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return Properties{}, fmt.Errorf("read %s: %w", path, err)
	}

	var props Properties
	for key, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case "override_name":
			props.OverrideName = value
		case "description":
			props.Description = value
		case "share_with":
			shareWith, err := ParseShareWith(strings.Split(value, ","), defaultRole)
			if err != nil {
				return Properties{}, fmt.Errorf("%s: %w", path, err)
			}
			props.ShareWith = shareWith
		case "thumbnail_setting":
			props.ThumbnailSetting = value
		case "sort_order":
			if value != "asc" && value != "desc" {
				return Properties{}, fmt.Errorf("%s: sort_order must be \"asc\" or \"desc\", got %q", path, value)
			}
			props.SortOrder = value
		case "archive":
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return Properties{}, fmt.Errorf("%s: archive: %w", path, err)
			}
			props.Archive = &parsed
		case "comments_and_likes_enabled":
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return Properties{}, fmt.Errorf("%s: comments_and_likes_enabled: %w", path, err)
			}
			props.CommentsAndLikesEnabled = &parsed
		default:
			return Properties{}, fmt.Errorf("%s: unknown property %q", path, key)
		}
	}
	return props, nil
}

// ParseShareWith resolves "user" or "user=role" entries, falling back to
// defaultRole when the entry does not name one.
func ParseShareWith(entries []string, defaultRole immich.Role) ([]ShareUser, error) {
	shareWith := make([]ShareUser, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		user, roleText, hasRole := strings.Cut(entry, "=")
		user = strings.TrimSpace(user)
		role := defaultRole
		if hasRole {
			parsed, err := immich.ParseRole(strings.TrimSpace(roleText))
			if err != nil {
				return nil, fmt.Errorf("share entry %q: %w", entry, err)
			}
			role = parsed
		}
		shareWith = append(shareWith, ShareUser{User: user, Role: role})
	}
	return shareWith, nil
}
