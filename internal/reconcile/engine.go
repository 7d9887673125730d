package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"immichsync/internal/album"
	"immichsync/internal/immich"
)

// Op classifies what a run did to one album.
type Op string

const (
	OpCreated   Op = "created"
	OpUpdated   Op = "updated"
	OpUnchanged Op = "unchanged"
)

// Result records the outcome for one album.
type Result struct {
	Album       string
	Op          Op
	AssetsAdded int
	Err         error
}

// Summary aggregates one reconciliation run.
type Summary struct {
	AlbumsCreated  int
	AssetsAdded    int
	AssetsArchived int
	Results        []Result
}

// Failed returns the results that carry an error.
func (s *Summary) Failed() []Result {
	var failed []Result
	for _, result := range s.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

// Options tune how far a run converges albums that already exist. Freshly
// created albums always receive their full desired state.
type Options struct {
	// UpdateProperties converges properties on existing albums.
	UpdateProperties bool
	// UpdateSharing converges the share list on existing albums.
	UpdateSharing bool
	// Unshare removes share entries absent from the desired state.
	Unshare bool
}

// Engine drives the per-album reconciliation loop against one server.
type Engine struct {
	client *immich.Client
	logger *slog.Logger
	opts   Options

	users       []immich.User
	usersLoaded bool
}

// New creates an engine. A nil logger discards diagnostics.
func New(client *immich.Client, logger *slog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{client: client, logger: logger, opts: opts}
}

// Run converges the server toward the desired albums, keyed by their
// remote-facing name. Albums are processed in name order; a failing album
// is recorded in the summary and the loop moves on to the next one.
func (e *Engine) Run(ctx context.Context, desired map[string]*album.Model) (*Summary, error) {
	existing, err := e.client.Albums(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]immich.Album, len(existing))
	for _, remote := range existing {
		byName[remote.AlbumName] = remote
	}

	summary := &Summary{}
	var toArchive []string
	for _, name := range slices.Sorted(maps.Keys(desired)) {
		result := e.reconcileAlbum(ctx, desired[name], byName, &toArchive)
		if result.Err != nil {
			e.logger.Error("album reconciliation failed", "album", name, "error", result.Err)
		}
		if result.Op == OpCreated {
			summary.AlbumsCreated++
		}
		summary.AssetsAdded += result.AssetsAdded
		summary.Results = append(summary.Results, result)
	}

	if len(toArchive) > 0 {
		if err := e.client.SetAssetsArchived(ctx, toArchive, true); err != nil {
			e.logger.Error("error archiving assets", "count", len(toArchive), "error", err)
		} else {
			summary.AssetsArchived = len(toArchive)
		}
	}
	return summary, nil
}

func (e *Engine) reconcileAlbum(ctx context.Context, model *album.Model, byName map[string]immich.Album, toArchive *[]string) Result {
	name := model.FinalName()
	result := Result{Album: name, Op: OpUnchanged}

	created := false
	if remote, ok := byName[name]; ok {
		model.ID = remote.ID
	} else {
		id, err := e.client.CreateAlbum(ctx, name)
		if err != nil {
			result.Err = fmt.Errorf("create album: %w", err)
			return result
		}
		model.ID = id
		created = true
		result.Op = OpCreated
		e.logger.Info("created album", "album", name)
	}

	added, err := e.client.AddAssetsToAlbum(ctx, model.ID, model.AssetIDs())
	if err != nil {
		result.Err = fmt.Errorf("add assets: %w", err)
		return result
	}
	result.AssetsAdded = len(added)
	if len(added) > 0 {
		e.logger.Info("added assets to album", "album", name, "count", len(added))
		if result.Op == OpUnchanged {
			result.Op = OpUpdated
		}
		if model.Archive != nil && *model.Archive {
			*toArchive = append(*toArchive, added...)
		}
	}

	if created || e.opts.UpdateProperties {
		if err := e.updateProperties(ctx, model, created); err != nil {
			result.Err = fmt.Errorf("update properties: %w", err)
			return result
		}
	}
	if created || e.opts.UpdateSharing {
		if err := e.convergeSharing(ctx, model, created); err != nil {
			result.Err = fmt.Errorf("update sharing: %w", err)
			return result
		}
	}
	return result
}

// updateProperties patches the album with every property the model sets.
// Unset fields are left out of the patch so they never clobber what the
// server has.
func (e *Engine) updateProperties(ctx context.Context, model *album.Model, created bool) error {
	var patch immich.AlbumPatch
	if model.Description != "" {
		patch.Description = &model.Description
	}
	if model.SortOrder != "" {
		patch.Order = &model.SortOrder
	}
	if model.CommentsAndLikesEnabled != nil {
		enabled := *model.CommentsAndLikesEnabled
		patch.IsActivityEnabled = &enabled
	}
	// random-all is resolved across all albums after the loop, not here.
	if model.ThumbnailSetting != "" && model.ThumbnailSetting != album.ThumbnailRandomAll {
		// A pre-existing album may hold assets beyond the desired set;
		// the thumbnail choice must consider the full membership.
		assets := model.Assets
		if !created {
			detail, err := e.client.AlbumInfo(ctx, model.ID)
			if err != nil {
				return err
			}
			assets = detail.Assets
		}
		if id := ChooseThumbnail(model.ThumbnailSetting, model.FinalName(), assets, e.logger); id != "" {
			patch.AlbumThumbnailAssetID = &id
		}
	}
	return e.client.PatchAlbum(ctx, model.ID, patch)
}

// convergeSharing diffs the album's actual share entries against the
// desired ones: wrong roles are updated in place, missing users are added
// in one batch per role, and surplus users are removed when unsharing is
// enabled. Group failures are logged and do not abort the album.
func (e *Engine) convergeSharing(ctx context.Context, model *album.Model, created bool) error {
	if len(model.ShareWith) == 0 && !e.opts.Unshare {
		return nil
	}

	expected := make(map[string]immich.Role)
	if len(model.ShareWith) > 0 {
		users, err := e.serverUsers(ctx)
		if err != nil {
			return err
		}
		for _, share := range model.ShareWith {
			user, ok := findUser(users, share.User)
			if !ok {
				e.logger.Warn("user to share with not found on the server", "album", model.FinalName(), "user", share.User)
				continue
			}
			expected[user.ID] = share.Role
		}
	}
	if created && len(expected) == 0 {
		return nil
	}

	actual := make(map[string]immich.Role)
	if !created {
		detail, err := e.client.AlbumInfo(ctx, model.ID)
		if err != nil {
			return err
		}
		for _, entry := range detail.AlbumUsers {
			actual[entry.User.ID] = immich.Role(entry.Role)
		}
	}

	toAdd := make(map[immich.Role][]string)
	for _, userID := range slices.Sorted(maps.Keys(expected)) {
		want := expected[userID]
		have, shared := actual[userID]
		switch {
		case !shared:
			toAdd[want] = append(toAdd[want], userID)
		case have != want:
			if err := e.client.UpdateShareRole(ctx, model.ID, userID, want); err != nil {
				e.logger.Warn("error updating share role", "album", model.FinalName(), "user", userID, "error", err)
			}
		}
	}
	if e.opts.Unshare {
		for _, userID := range slices.Sorted(maps.Keys(actual)) {
			if _, wanted := expected[userID]; wanted {
				continue
			}
			if err := e.client.UnshareAlbum(ctx, model.ID, userID); err != nil {
				e.logger.Warn("error unsharing album", "album", model.FinalName(), "user", userID, "error", err)
			}
		}
	}
	for _, role := range []immich.Role{immich.RoleEditor, immich.RoleViewer} {
		userIDs := toAdd[role]
		if len(userIDs) == 0 {
			continue
		}
		if err := e.client.ShareAlbum(ctx, model.ID, userIDs, role); err != nil {
			e.logger.Warn("error sharing album", "album", model.FinalName(), "role", role, "error", err)
		}
	}
	return nil
}

// serverUsers fetches the server's user list once per run.
func (e *Engine) serverUsers(ctx context.Context) ([]immich.User, error) {
	if e.usersLoaded {
		return e.users, nil
	}
	users, err := e.client.Users(ctx)
	if err != nil {
		return nil, err
	}
	e.users = users
	e.usersLoaded = true
	return e.users, nil
}

// findUser matches a share entry against server accounts by name or email.
func findUser(users []immich.User, nameOrEmail string) (immich.User, bool) {
	for _, user := range users {
		if strings.EqualFold(user.Name, nameOrEmail) || strings.EqualFold(user.Email, nameOrEmail) {
			return user, true
		}
	}
	return immich.User{}, false
}
