package immich

import (
	"context"
	"fmt"
	"net/http"
)

// Role is an album share role.
type Role string

// Allowed share roles.
const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
)

// Valid reports whether the role is one of the allowed share roles.
func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleEditor
}

// ParseRole validates a textual role.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("immich: share role must be %q or %q, got %q", RoleViewer, RoleEditor, value)
	}
	return role, nil
}

type albumUserRequest struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

type shareAlbumRequest struct {
	AlbumUsers []albumUserRequest `json:"albumUsers"`
}

// ShareAlbum shares the album with all given users under one role.
func (c *Client) ShareAlbum(ctx context.Context, albumID string, userIDs []string, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("immich: invalid share role %q", role)
	}
	request := shareAlbumRequest{AlbumUsers: make([]albumUserRequest, 0, len(userIDs))}
	for _, userID := range userIDs {
		request.AlbumUsers = append(request.AlbumUsers, albumUserRequest{UserID: userID, Role: role})
	}
	return c.do(ctx, http.MethodPut, "albums/"+albumID+"/users", request, nil)
}

// UnshareAlbum removes one user from the album's share list.
func (c *Client) UnshareAlbum(ctx context.Context, albumID, userID string) error {
	return c.do(ctx, http.MethodDelete, "albums/"+albumID+"/user/"+userID, nil, nil)
}

type updateShareRoleRequest struct {
	Role Role `json:"role"`
}

// UpdateShareRole changes the share role of a user the album is already
// shared with.
func (c *Client) UpdateShareRole(ctx context.Context, albumID, userID string, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("immich: invalid share role %q", role)
	}
	return c.do(ctx, http.MethodPut, "albums/"+albumID+"/user/"+userID, updateShareRoleRequest{Role: role}, nil)
}

// Users lists all user accounts on the server.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
