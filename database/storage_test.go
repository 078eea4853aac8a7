package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/designer-portfolio-backend/errs"
	"github.com/rpupo63/designer-portfolio-backend/models"
)

// runStorageSuite exercises the Storage contract. newStorage must return an
// empty store.
func runStorageSuite(t *testing.T, newStorage func(t *testing.T) Storage) {
	ctx := context.Background()

	newOwner := func(t *testing.T, s Storage) *models.User {
		avatar := "https://cdn.example.com/ana.png"
		u, err := s.CreateUser(ctx, models.User{Username: "ana", Password: "hash", Name: "Ana", AvatarURL: &avatar})
		require.NoError(t, err)
		return u
	}

	newProject := func(t *testing.T, s Storage, ownerID int, title string) *models.Project {
		p, err := s.CreateProject(ctx, models.Project{
			Title:           title,
			Description:     "desc",
			ImageURL:        "https://cdn.example.com/cover.png",
			GalleryImages:   []string{"https://cdn.example.com/1.png"},
			SectionDisplay:  models.SectionGeneral,
			UserID:          ownerID,
			Category:        "Website",
			PublishedStatus: models.StatusDraft,
		})
		require.NoError(t, err)
		return p
	}

	t.Run("UserLookups", func(t *testing.T) {
		s := newStorage(t)
		u := newOwner(t, s)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "hash", u.Password)

		got, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Ana", got.Name)

		byName, err := s.GetUserByUsername(ctx, "ana")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, u.ID, byName.ID)

		missing, err := s.GetUser(ctx, u.ID+100)
		require.NoError(t, err)
		assert.Nil(t, missing)

		missing, err = s.GetUserByUsername(ctx, "ANA")
		require.NoError(t, err)
		assert.Nil(t, missing, "usernames match exactly")
	})

	t.Run("CreateProjectStampsIdentity", func(t *testing.T) {
		s := newStorage(t)
		u := newOwner(t, s)
		p1 := newProject(t, s, u.ID, "One")
		p2 := newProject(t, s, u.ID, "Two")

		assert.NotZero(t, p1.ID)
		assert.Greater(t, p2.ID, p1.ID)
		assert.False(t, p1.CreatedAt.IsZero())
	})

	t.Run("UpdatePreservesIdentity", func(t *testing.T) {
		s := newStorage(t)
		u := newOwner(t, s)
		p := newProject(t, s, u.ID, "Before")

		changed := *p
		changed.ID = p.ID + 42
		changed.UserID = u.ID + 7
		changed.CreatedAt = p.CreatedAt.AddDate(-1, 0, 0)
		changed.Title = "After"
		changed.PublishedStatus = models.StatusPublished

		updated, err := s.UpdateProject(ctx, p.ID, changed)
		require.NoError(t, err)
		assert.Equal(t, p.ID, updated.ID)
		assert.Equal(t, u.ID, updated.UserID)
		assert.True(t, p.CreatedAt.Equal(updated.CreatedAt))
		assert.Equal(t, "After", updated.Title)

		got, err := s.GetProjectByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "After", got.Title)
		assert.Equal(t, models.StatusPublished, got.PublishedStatus)
		assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("UpdateMissingProject", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.UpdateProject(ctx, 999, models.Project{Title: "x"})
		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("ReadModelJoinsOwnerAndTags", func(t *testing.T) {
		s := newStorage(t)
		u := newOwner(t, s)
		p := newProject(t, s, u.ID, "Joined")

		web, err := s.CreateTag(ctx, "Website")
		require.NoError(t, err)
		ux, err := s.CreateTag(ctx, "UI/UX")
		require.NoError(t, err)
		_, err = s.AddTagToProject(ctx, p.ID, web.ID)
		require.NoError(t, err)
		_, err = s.AddTagToProject(ctx, p.ID, ux.ID)
		require.NoError(t, err)

		got, err := s.GetProjectByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.Owner(), got.User)
		require.Len(t, got.Tags, 2)
		assert.Equal(t, "Website", got.Tags[0].Name)
		assert.Equal(t, "UI/UX", got.Tags[1].Name)
		assert.Equal(t, []string{"https://cdn.example.com/1.png"}, []string(got.GalleryImages))

		tags, err := s.GetProjectTags(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, got.Tags, tags)
	})

	t.Run("UnknownOwnerPlaceholder", func(t *testing.T) {
		s := newStorage(t)
		p := newProject(t, s, 12345, "Orphan")

		got, err := s.GetProjectByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.UnknownOwner, got.User)
		assert.Empty(t, got.Tags)
	})

	t.Run("ListingsKeepInsertionOrder", func(t *testing.T) {
		s := newStorage(t)
		u := newOwner(t, s)
		other, err := s.CreateUser(ctx, models.User{Username: "bo", Password: "h", Name: "Bo"})
		require.NoError(t, err)

		a := newProject(t, s, u.ID, "A")
		b := newProject(t, s, other.ID, "B")
		c := newProject(t, s, u.ID, "C")

		all, err := s.GetAllProjects(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []int{a.ID, b.ID, c.ID}, []int{all[0].ID, all[1].ID, all[2].ID})

		mine, err := s.GetProjectsByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, a.ID, mine[0].ID)
		assert.Equal(t, c.ID, mine[1].ID)

		none, err := s.GetProjectsByUserID(ctx, other.ID+100)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("DeleteProjectLeavesJoinRows", func(t *testing.T) {
		s := newStorage(t)
		u := newOwner(t, s)
		p := newProject(t, s, u.ID, "Gone")
		tag, err := s.CreateTag(ctx, "Branding")
		require.NoError(t, err)
		_, err = s.AddTagToProject(ctx, p.ID, tag.ID)
		require.NoError(t, err)

		require.NoError(t, s.DeleteProject(ctx, p.ID))
		got, err := s.GetProjectByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		tags, err := s.GetProjectTags(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, tags, 1, "DeleteProject does not cascade")

		require.NoError(t, s.RemoveTagsFromProject(ctx, p.ID))
		tags, err = s.GetProjectTags(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, tags)

		require.NoError(t, s.DeleteProject(ctx, p.ID), "deleting twice is a no-op")
	})

	t.Run("TagLookupIsCaseInsensitive", func(t *testing.T) {
		s := newStorage(t)
		created, err := s.CreateTag(ctx, "UI/UX")
		require.NoError(t, err)

		got, err := s.GetTagByName(ctx, "ui/ux")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)

		byID, err := s.GetTagByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "UI/UX", byID.Name)

		missing, err := s.GetTagByName(ctx, "Branding")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("StoreDoesNotDeduplicateTags", func(t *testing.T) {
		s := newStorage(t)
		first, err := s.CreateTag(ctx, "Website")
		require.NoError(t, err)
		second, err := s.CreateTag(ctx, "website")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		all, err := s.GetAllTags(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		got, err := s.GetTagByName(ctx, "WEBSITE")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, first.ID, got.ID)
	})

	t.Run("DuplicateJoinRowsAreKept", func(t *testing.T) {
		s := newStorage(t)
		u := newOwner(t, s)
		p := newProject(t, s, u.ID, "Dup")
		tag, err := s.CreateTag(ctx, "Website")
		require.NoError(t, err)

		_, err = s.AddTagToProject(ctx, p.ID, tag.ID)
		require.NoError(t, err)
		_, err = s.AddTagToProject(ctx, p.ID, tag.ID)
		require.NoError(t, err)

		tags, err := s.GetProjectTags(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, tags, 2)
	})

	t.Run("LikeLedger", func(t *testing.T) {
		s := newStorage(t)

		changed, err := s.LikeProject(ctx, 5, "fpA")
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = s.LikeProject(ctx, 5, "fpA")
		require.NoError(t, err)
		assert.False(t, changed)

		n, err := s.GetProjectLikes(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = s.LikeProject(ctx, 5, "fpB")
		require.NoError(t, err)
		n, err = s.GetProjectLikes(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		liked, err := s.IsProjectLiked(ctx, 5, "fpA")
		require.NoError(t, err)
		assert.True(t, liked)

		changed, err = s.UnlikeProject(ctx, 5, "fpA")
		require.NoError(t, err)
		assert.True(t, changed)
		n, err = s.GetProjectLikes(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		changed, err = s.UnlikeProject(ctx, 5, "fpA")
		require.NoError(t, err)
		assert.False(t, changed)

		liked, err = s.IsProjectLiked(ctx, 5, "fpA")
		require.NoError(t, err)
		assert.False(t, liked)

		n, err = s.GetProjectLikes(ctx, 6)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
