package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfolio-backend/models"
)

func testRepo(t *testing.T) *ProjectRepo {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	database, err := New(db)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return database.ProjectRepo()
}

func seedProject(t *testing.T, repo *ProjectRepo, mutate func(*models.Project)) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:        "Seed Project",
		Description:  "A seeded project",
		Technologies: models.StringList{"go"},
		Category:     "web",
		Status:       models.DefaultStatus,
		Thumbnail:    "/uploads/projects/seed.png",
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsPublic:     true,
	}
	if mutate != nil {
		mutate(project)
	}
	if project.Slug == "" {
		project.Slug = models.Slugify(project.Title)
	}
	if err := repo.Add(project); err != nil {
		t.Fatalf("failed to seed project %q: %v", project.Title, err)
	}
	return project
}

func TestListPaginatesFilteredResults(t *testing.T) {
	repo := testRepo(t)

	titles := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}
	for i, title := range titles {
		order := i
		seedProject(t, repo, func(p *models.Project) {
			p.Title = title
			p.CreatedAt = time.Date(2024, 1, 1+order, 0, 0, 0, 0, time.UTC)
		})
	}
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Hidden"
		p.IsPublic = false
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Phone App"
		p.Category = "mobile"
	})

	page, err := repo.List(ListParams{Category: "web", Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(page.Projects) != 2 {
		t.Errorf("page size = %d, want 2", len(page.Projects))
	}
	if page.Pagination.Total != 5 {
		t.Errorf("total = %d, want 5", page.Pagination.Total)
	}
	if page.Pagination.Pages != 3 {
		t.Errorf("pages = %d, want 3", page.Pagination.Pages)
	}
	if page.Pagination.Current != 2 {
		t.Errorf("current = %d, want 2", page.Pagination.Current)
	}

	// default sort is newest first, so page 2 holds Charlie and Bravo
	if page.Projects[0].Title != "Charlie" || page.Projects[1].Title != "Bravo" {
		t.Errorf("unexpected page contents: %q, %q", page.Projects[0].Title, page.Projects[1].Title)
	}
}

func TestListFacetsIgnoreActiveFilters(t *testing.T) {
	repo := testRepo(t)

	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Site"
		p.Tags = models.StringList{"frontend"}
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "App"
		p.Category = "mobile"
		p.Tags = models.StringList{"ios", "frontend"}
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Private"
		p.Category = "api"
		p.Tags = models.StringList{"internal"}
		p.IsPublic = false
	})

	page, err := repo.List(ListParams{Category: "mobile"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	wantCategories := []string{"mobile", "web"}
	if len(page.Facets.Categories) != len(wantCategories) {
		t.Fatalf("categories = %v, want %v", page.Facets.Categories, wantCategories)
	}
	for i, c := range wantCategories {
		if page.Facets.Categories[i] != c {
			t.Errorf("categories = %v, want %v", page.Facets.Categories, wantCategories)
			break
		}
	}

	wantTags := []string{"frontend", "ios"}
	if len(page.Facets.Tags) != len(wantTags) {
		t.Fatalf("tags = %v, want %v", page.Facets.Tags, wantTags)
	}
	for i, tag := range wantTags {
		if page.Facets.Tags[i] != tag {
			t.Errorf("tags = %v, want %v", page.Facets.Tags, wantTags)
			break
		}
	}
}

func TestListSearchMatchesCaseInsensitively(t *testing.T) {
	repo := testRepo(t)

	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Weather Dashboard"
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Other"
		p.Description = "renders weather maps"
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Unrelated"
	})

	page, err := repo.List(ListParams{Search: "WEATHER"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Pagination.Total != 2 {
		t.Errorf("total = %d, want 2", page.Pagination.Total)
	}
}

func TestListFiltersByTagIntersection(t *testing.T) {
	repo := testRepo(t)

	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Tagged"
		p.Tags = models.StringList{"react", "frontend"}
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Other"
		p.Tags = models.StringList{"backend"}
	})

	page, err := repo.List(ListParams{Tags: []string{"frontend", "cli"}})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Pagination.Total != 1 {
		t.Fatalf("total = %d, want 1", page.Pagination.Total)
	}
	if page.Projects[0].Title != "Tagged" {
		t.Errorf("matched %q, want Tagged", page.Projects[0].Title)
	}
}

func TestListSortWhitelist(t *testing.T) {
	repo := testRepo(t)

	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Old"
		p.Views = 5
		p.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "New"
		p.Views = 1
		p.CreatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	})

	page, err := repo.List(ListParams{Sort: "-views"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Projects[0].Title != "Old" {
		t.Errorf("sort by -views put %q first", page.Projects[0].Title)
	}

	// unknown sort fields fall back to newest first
	page, err = repo.List(ListParams{Sort: "password"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Projects[0].Title != "New" {
		t.Errorf("unknown sort put %q first", page.Projects[0].Title)
	}
}

func TestFindBySlugIncrementsViews(t *testing.T) {
	repo := testRepo(t)
	seeded := seedProject(t, repo, nil)

	first, err := repo.FindBySlug(seeded.Slug)
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if first.Views != 0 {
		t.Errorf("first read reported %d views, want the pre-increment 0", first.Views)
	}
	if first.Duration == "" {
		t.Error("expected a computed duration label")
	}

	second, err := repo.FindBySlug(seeded.Slug)
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if second.Views != 1 {
		t.Errorf("second read reported %d views, want 1", second.Views)
	}
}

func TestFindBySlugHidesPrivateProjects(t *testing.T) {
	repo := testRepo(t)
	seeded := seedProject(t, repo, func(p *models.Project) {
		p.IsPublic = false
	})

	if _, err := repo.FindBySlug(seeded.Slug); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for a private project, got %v", err)
	}
}

func TestSlugExists(t *testing.T) {
	repo := testRepo(t)
	seeded := seedProject(t, repo, nil)

	exists, err := repo.SlugExists(seeded.Slug, uuid.Nil)
	if err != nil {
		t.Fatalf("SlugExists failed: %v", err)
	}
	if !exists {
		t.Error("expected the seeded slug to exist")
	}

	// the owning project is excluded when checking its own slug
	exists, err = repo.SlugExists(seeded.Slug, seeded.ID)
	if err != nil {
		t.Fatalf("SlugExists failed: %v", err)
	}
	if exists {
		t.Error("a project should not collide with its own slug")
	}
}

func TestIncrementLikes(t *testing.T) {
	repo := testRepo(t)
	seeded := seedProject(t, repo, nil)

	for want := 1; want <= 3; want++ {
		likes, err := repo.IncrementLikes(seeded.ID)
		if err != nil {
			t.Fatalf("IncrementLikes failed: %v", err)
		}
		if likes != want {
			t.Errorf("likes = %d, want %d", likes, want)
		}
	}

	if _, err := repo.IncrementLikes(uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for an unknown id, got %v", err)
	}
}

func TestDeleteUnknownProject(t *testing.T) {
	repo := testRepo(t)

	if err := repo.Delete(uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestFeaturedReturnsOnlyFeaturedPublic(t *testing.T) {
	repo := testRepo(t)

	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Starred"
		p.Featured = true
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Plain"
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Secret Star"
		p.Featured = true
		p.IsPublic = false
	})

	featured, err := repo.Featured(6)
	if err != nil {
		t.Fatalf("Featured failed: %v", err)
	}
	if len(featured) != 1 || featured[0].Title != "Starred" {
		t.Errorf("unexpected featured set: %+v", featured)
	}
}

func TestStatsSummarizesPublicCatalog(t *testing.T) {
	repo := testRepo(t)

	seedProject(t, repo, func(p *models.Project) {
		p.Title = "One"
		p.Featured = true
		p.Views = 10
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Two"
		p.Category = "mobile"
		p.Views = 5
	})
	seedProject(t, repo, func(p *models.Project) {
		p.Title = "Hidden"
		p.Views = 100
		p.IsPublic = false
	})

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("Total = %d, want 2", stats.Total)
	}
	if stats.Featured != 1 {
		t.Errorf("Featured = %d, want 1", stats.Featured)
	}
	if stats.TotalViews != 15 {
		t.Errorf("TotalViews = %d, want 15", stats.TotalViews)
	}
	if len(stats.ByCategory) != 2 {
		t.Fatalf("ByCategory = %+v, want two buckets", stats.ByCategory)
	}
	if stats.ByCategory[0].Category != "mobile" || stats.ByCategory[0].Count != 1 {
		t.Errorf("first bucket = %+v", stats.ByCategory[0])
	}
}
