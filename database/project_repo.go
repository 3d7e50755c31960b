package database

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"portfolio-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// Facets lists the distinct categories and tags across the whole public
// catalog. They deliberately ignore the active filters so UI filter
// controls always show every available choice.
type Facets struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// ProjectPage is one page of a filtered listing plus its metadata.
type ProjectPage struct {
	Projects   []models.Project
	Pagination Pagination
	Facets     Facets
}

// List runs the filtered, sorted, paginated listing and computes the total
// and the catalog facets.
func (r *ProjectRepo) List(params ListParams) (ProjectPage, error) {
	params = params.normalized()
	filter := buildFilter(params)

	var total int64
	if err := filter.Compile(r.db.Model(&models.Project{})).Count(&total).Error; err != nil {
		return ProjectPage{}, err
	}

	var projects []models.Project
	err := filter.Compile(r.db.Model(&models.Project{})).
		Order(orderClause(params.Sort)).
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&projects).Error
	if err != nil {
		return ProjectPage{}, err
	}
	decorate(projects)

	facets, err := r.facets()
	if err != nil {
		return ProjectPage{}, err
	}

	pages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return ProjectPage{
		Projects: projects,
		Pagination: Pagination{
			Current: params.Page,
			Pages:   pages,
			Total:   total,
			Limit:   params.Limit,
		},
		Facets: facets,
	}, nil
}

func (r *ProjectRepo) facets() (Facets, error) {
	facets := Facets{Categories: []string{}, Tags: []string{}}

	err := r.db.Model(&models.Project{}).
		Where("is_public = ?", true).
		Distinct().
		Order("category").
		Pluck("category", &facets.Categories).Error
	if err != nil {
		return Facets{}, err
	}

	// tag lists are JSON columns, so distinct values are computed here
	var tagLists []models.StringList
	err = r.db.Model(&models.Project{}).
		Where("is_public = ?", true).
		Pluck("tags", &tagLists).Error
	if err != nil {
		return Facets{}, err
	}
	seen := make(map[string]struct{})
	for _, tags := range tagLists {
		for _, tag := range tags {
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				facets.Tags = append(facets.Tags, tag)
			}
		}
	}
	sort.Strings(facets.Tags)

	return facets, nil
}

// Featured returns up to limit featured public projects, newest first.
func (r *ProjectRepo) Featured(limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Where("featured = ? AND is_public = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	decorate(projects)
	return projects, nil
}

// CategoryCount is a per-category bucket in the catalog statistics.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CatalogStats summarizes the public catalog.
type CatalogStats struct {
	Total      int64           `json:"total"`
	Featured   int64           `json:"featured"`
	ByCategory []CategoryCount `json:"byCategory"`
	TotalViews int64           `json:"totalViews"`
}

func (r *ProjectRepo) Stats() (CatalogStats, error) {
	stats := CatalogStats{ByCategory: []CategoryCount{}}
	public := func() *gorm.DB {
		return r.db.Model(&models.Project{}).Where("is_public = ?", true)
	}

	if err := public().Count(&stats.Total).Error; err != nil {
		return CatalogStats{}, err
	}
	if err := public().Where("featured = ?", true).Count(&stats.Featured).Error; err != nil {
		return CatalogStats{}, err
	}
	err := public().
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&stats.ByCategory).Error
	if err != nil {
		return CatalogStats{}, err
	}
	if err := public().Select("COALESCE(SUM(views), 0)").Scan(&stats.TotalViews).Error; err != nil {
		return CatalogStats{}, err
	}
	return stats, nil
}

// FindBySlug returns a public project by slug and increments its view count
// before returning. The returned record carries the pre-increment count;
// the update is applied synchronously so the next read reflects it.
func (r *ProjectRepo) FindBySlug(slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("slug = ? AND is_public = ?", slug, true).First(&project).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.Project{}).
		Where("id = ?", project.ID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return nil, err
	}

	project.Duration = project.DurationLabel(time.Now())
	return &project, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	project.Duration = project.DurationLabel(time.Now())
	return &project, nil
}

// SlugExists reports whether another project already claims the slug.
func (r *ProjectRepo) SlugExists(slug string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Where("slug = ? AND id <> ?", slug, exclude).
		Count(&count).Error
	return count > 0, err
}

// Add inserts a new project, assigning its id when unset.
func (r *ProjectRepo) Add(project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	return r.db.Create(project).Error
}

// Update persists changes to an existing project.
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project permanently.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	tx := r.db.Delete(&models.Project{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementLikes atomically bumps the like counter and returns the new
// value.
func (r *ProjectRepo) IncrementLikes(id uuid.UUID) (int, error) {
	tx := r.db.Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var likes int
	err := r.db.Model(&models.Project{}).
		Where("id = ?", id).
		Select("likes").
		Scan(&likes).Error
	return likes, err
}

func decorate(projects []models.Project) {
	now := time.Now()
	for i := range projects {
		projects[i].Duration = projects[i].DurationLabel(now)
	}
}
