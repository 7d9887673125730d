package config

import "strings"

// normalize applies the trailing-separator conventions the rest of the code
// relies on: root paths and the API URL always end with a slash, so
// concatenation never produces doubled or missing separators.
func (c *Config) normalize() {
	c.LocalRoot = ensureTrailingSlash(c.LocalRoot)
	c.ImmichRoot = ensureTrailingSlash(c.ImmichRoot)
	c.API.URL = ensureTrailingSlash(strings.TrimSpace(c.API.URL))
	c.API.KeyType = strings.ToLower(strings.TrimSpace(c.API.KeyType))
	c.Albums.Source = strings.ToLower(strings.TrimSpace(c.Albums.Source))
	c.Albums.ScriptMode = strings.ToUpper(strings.TrimSpace(c.Albums.ScriptMode))
	c.Sharing.ShareRole = strings.ToLower(strings.TrimSpace(c.Sharing.ShareRole))
}

func ensureTrailingSlash(path string) string {
	if path == "" || strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}
