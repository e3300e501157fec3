package invitations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/internal/templates"
)

type fixture struct {
	svc     *Service
	store   *memStore
	cache   *memCache
	cleanup *recordingCleanup
}

func newFixture() fixture {
	f := fixture{store: newMemStore(), cache: newMemCache(), cleanup: &recordingCleanup{}}
	f.svc = NewService(f.store, f.cache, f.cleanup, zap.NewNop())
	return f
}

func couple(groom, bride string) models.Couple {
	return models.Couple{
		Groom: models.Person{Name: groom, Parents: "Putra dari Bapak A", PhotoURL: "https://cdn/g.jpg"},
		Bride: models.Person{Name: bride, Parents: "Putri dari Bapak B", PhotoURL: "https://cdn/b.jpg"},
	}
}

func strp(s string) *string { return &s }

func TestCreateNormalisesSlugAndDefaultsTemplate(t *testing.T) {
	f := newFixture()
	owner := uuid.New()

	inv, err := f.svc.Create(context.Background(), owner, CreateInput{
		Slug:    "Jasmine & Bayu!",
		Content: models.Content{Couple: couple("Bayu", "Jasmine")},
	})
	require.NoError(t, err)
	assert.Equal(t, "jasmine-bayu", inv.Slug)
	assert.Equal(t, templates.ModernJavanese, inv.TemplateID)
	assert.Equal(t, owner, inv.OwnerAccountID)
	assert.Equal(t, "Putra dari Bapak A", inv.Couple.Groom.Parents)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()

	_, err := f.svc.Create(ctx, owner, CreateInput{Slug: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Create(ctx, owner, CreateInput{Slug: "!!!"})
	assert.ErrorIs(t, err, ErrInvalidSlug)

	_, err = f.svc.Create(ctx, owner, CreateInput{Slug: "ok", TemplateID: "classic-elegant"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateDuplicateSlugConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Create(ctx, uuid.New(), CreateInput{Slug: "jasmine-bayu"})
	require.NoError(t, err)

	second := uuid.New()
	_, err = f.svc.Create(ctx, second, CreateInput{Slug: "Jasmine Bayu"})
	assert.ErrorIs(t, err, ErrSlugConflict)

	assert.Len(t, f.store.byID, 1)
	list, err := f.svc.ListByOwner(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateSundaShapesContent(t *testing.T) {
	f := newFixture()
	inv, err := f.svc.Create(context.Background(), uuid.New(), CreateInput{
		Slug:       "sunda-sample",
		TemplateID: templates.Sunda,
		Content: models.Content{
			Couple:    couple("Ujang", "Neng"),
			Events:    []models.Event{{Title: "Akad", VenueName: "Masjid"}},
			HeroQuote: "quote",
		},
	})
	require.NoError(t, err)
	assert.Empty(t, inv.Events)
	assert.Empty(t, inv.HeroQuote)
	assert.Empty(t, inv.Couple.Bride.PhotoURL)
	assert.Equal(t, "Neng", inv.Couple.Bride.Name)
}

func TestOwnershipScoping(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	inv, err := f.svc.Create(ctx, owner, CreateInput{Slug: "mine"})
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, other, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Update(ctx, other, inv.ID, models.InvitationPatch{Hashtag: strp("#x")})
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.svc.Delete(ctx, other, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.GetByID(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound, "missing and not-owned look the same")

	got, err := f.svc.GetByID(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Slug)
}

func TestUpdateReplacesOnlyPatchedFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	inv, err := f.svc.Create(ctx, owner, CreateInput{
		Slug: "a",
		Content: models.Content{
			Couple:  couple("Bayu", "Jasmine"),
			Hashtag: "#old",
			Gallery: []models.GalleryImage{{URL: "https://cdn/1.jpg"}},
		},
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, owner, inv.ID, models.InvitationPatch{
		Slug:    strp(" New Slug "),
		Hashtag: strp("#new"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new-slug", updated.Slug)
	assert.Equal(t, "#new", updated.Hashtag)
	assert.Equal(t, "Bayu", updated.Couple.Groom.Name)
	assert.Len(t, updated.Gallery, 1)
	assert.Equal(t, inv.ID, updated.ID)
	assert.Equal(t, owner, updated.OwnerAccountID)
}

func TestUpdateSlugConflictAndInvalid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	_, err := f.svc.Create(ctx, owner, CreateInput{Slug: "taken"})
	require.NoError(t, err)
	inv, err := f.svc.Create(ctx, owner, CreateInput{Slug: "mine"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, owner, inv.ID, models.InvitationPatch{Slug: strp("Taken")})
	assert.ErrorIs(t, err, ErrSlugConflict)

	_, err = f.svc.Update(ctx, owner, inv.ID, models.InvitationPatch{Slug: strp("***")})
	assert.ErrorIs(t, err, ErrInvalidSlug)

	_, err = f.svc.Update(ctx, owner, inv.ID, models.InvitationPatch{TemplateID: strp("nope")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateToSundaClearsUnusedFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	inv, err := f.svc.Create(ctx, owner, CreateInput{
		Slug: "switch",
		Content: models.Content{
			Couple: models.Couple{
				Groom: models.Person{Name: "Bayu", Parents: "Putra dari Bapak A", PhotoURL: "https://cdn/g.jpg"},
				Bride: models.Person{Name: "Jasmine", Parents: "Putri dari Bapak B", PhotoURL: "https://cdn/b.jpg"},
			},
			Events:    []models.Event{{Title: "Resepsi", VenueName: "Gedung"}},
			HeroQuote: "quote",
			Gift: models.GiftSettings{
				Enabled:      true,
				Message:      "thanks",
				BankAccounts: []models.BankAccount{{BankName: "BCA", AccountNumber: "123"}},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, inv.Events, 1)

	updated, err := f.svc.Update(ctx, owner, inv.ID, models.InvitationPatch{TemplateID: strp(templates.Sunda)})
	require.NoError(t, err)
	assert.Equal(t, templates.Sunda, updated.TemplateID)
	assert.Empty(t, updated.Events)
	assert.Empty(t, updated.HeroQuote)
	assert.Equal(t, "Bayu", updated.Couple.Groom.Name)
	assert.Equal(t, "Jasmine", updated.Couple.Bride.Name)
	assert.Empty(t, updated.Couple.Groom.Parents)
	assert.Empty(t, updated.Couple.Groom.PhotoURL)
	assert.Empty(t, updated.Couple.Bride.Parents)
	assert.Empty(t, updated.Couple.Bride.PhotoURL)
	assert.Empty(t, updated.Gift.Message)
	assert.True(t, updated.Gift.Enabled)
	assert.Len(t, updated.Gift.BankAccounts, 1)

	stored, err := f.svc.GetByID(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Couple.Groom.PhotoURL)
	assert.Empty(t, stored.Gift.Message)
}

func TestListByOwnerNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	for _, s := range []string{"one", "two", "three"} {
		_, err := f.svc.Create(ctx, owner, CreateInput{Slug: s})
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, uuid.New(), CreateInput{Slug: "someone-else"})
	require.NoError(t, err)

	list, err := f.svc.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "three", list[0].Slug)
	assert.Equal(t, "one", list[2].Slug)
}

func TestGetBySlugUsesCacheAndInvalidatesOnUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	inv, err := f.svc.Create(ctx, owner, CreateInput{Slug: "cached", Content: models.Content{Hashtag: "#v1"}})
	require.NoError(t, err)

	_, err = f.svc.GetBySlug(ctx, "cached")
	require.NoError(t, err)
	got, err := f.svc.GetBySlug(ctx, "Cached")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	assert.Equal(t, "#v1", got.Hashtag)

	_, err = f.svc.Update(ctx, owner, inv.ID, models.InvitationPatch{Hashtag: strp("#v2")})
	require.NoError(t, err)
	got, err = f.svc.GetBySlug(ctx, "cached")
	require.NoError(t, err)
	assert.Equal(t, "#v2", got.Hashtag)

	_, err = f.svc.Update(ctx, owner, inv.ID, models.InvitationPatch{Slug: strp("renamed")})
	require.NoError(t, err)
	_, err = f.svc.GetBySlug(ctx, "cached")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBySlugDoesNotCacheRowReplacedDuringRead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	inv, err := f.svc.Create(ctx, owner, CreateInput{Slug: "racy", Content: models.Content{Hashtag: "#v1"}})
	require.NoError(t, err)

	// An update commits and invalidates after the public read loaded the old row.
	f.store.afterSlugRead = func() {
		f.store.afterSlugRead = nil
		_, err := f.svc.Update(ctx, owner, inv.ID, models.InvitationPatch{Hashtag: strp("#v2")})
		require.NoError(t, err)
	}
	stale, err := f.svc.GetBySlug(ctx, "racy")
	require.NoError(t, err)
	assert.Equal(t, "#v1", stale.Hashtag)
	assert.NotContains(t, f.cache.entries, "racy")

	got, err := f.svc.GetBySlug(ctx, "racy")
	require.NoError(t, err)
	assert.Equal(t, "#v2", got.Hashtag)
	assert.Equal(t, "#v2", f.cache.entries["racy"].Hashtag)
}

func TestGetBySlugFallsBackWhenCacheFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Create(ctx, uuid.New(), CreateInput{Slug: "resilient"})
	require.NoError(t, err)

	f.cache.fail = true
	got, err := f.svc.GetBySlug(ctx, "resilient")
	require.NoError(t, err)
	assert.Equal(t, "resilient", got.Slug)
}

func TestGetBySlugWithoutCache(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil, nil, zap.NewNop())
	ctx := context.Background()
	_, err := svc.Create(ctx, uuid.New(), CreateInput{Slug: "plain"})
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, "plain")
	assert.NoError(t, err)
	_, err = svc.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEnqueuesCleanupAndDropsCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := uuid.New()
	inv, err := f.svc.Create(ctx, owner, CreateInput{Slug: "bye"})
	require.NoError(t, err)
	_, err = f.svc.GetBySlug(ctx, "bye")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, owner, inv.ID))
	assert.Equal(t, []uuid.UUID{inv.ID}, f.cleanup.ids)

	_, err = f.svc.GetBySlug(ctx, "bye")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.GetByID(ctx, owner, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
