package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"portfolio-backend/database"
	"portfolio-backend/errs"
	"portfolio-backend/models"
)

const featuredProjectLimit = 6

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	uploadDir   string
}

func newProjectHandler(projectRepo *database.ProjectRepo, uploadDir string) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		uploadDir:   uploadDir,
	}
}

type projectListResponse struct {
	Success    bool                `json:"success"`
	Data       []models.Project    `json:"data"`
	Pagination database.Pagination `json:"pagination"`
	Filters    database.Facets     `json:"filters"`
}

type projectsResponse struct {
	Success bool             `json:"success"`
	Data    []models.Project `json:"data"`
}

type projectResponse struct {
	Success bool            `json:"success"`
	Data    *models.Project `json:"data"`
	Message string          `json:"message,omitempty"`
}

// listProjects runs the filtered, paginated listing with catalog facets
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := listParamsFromQuery(r)

		page, err := h.projectRepo.List(params)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "projects", err))
			return
		}

		if page.Projects == nil {
			page.Projects = []models.Project{}
		}

		h.responder.WriteJSON(w, projectListResponse{
			Success:    true,
			Data:       page.Projects,
			Pagination: page.Pagination,
			Filters:    page.Facets,
		})
	}
}

func listParamsFromQuery(r *http.Request) database.ListParams {
	q := r.URL.Query()

	params := database.ListParams{
		Category: q.Get("category"),
		Featured: q.Get("featured") == "true",
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	if tags := q.Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				params.Tags = append(params.Tags, tag)
			}
		}
	}
	return params
}

// featuredProjects returns up to six featured public projects, newest first
func (h projectHandler) featuredProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.Featured(featuredProjectLimit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "featured projects", err))
			return
		}
		if projects == nil {
			projects = []models.Project{}
		}
		h.responder.WriteJSON(w, projectsResponse{Success: true, Data: projects})
	}
}

// stats summarizes the public catalog
func (h projectHandler) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.projectRepo.Stats()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("compute", "project statistics", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"data":    stats,
		})
	}
}

// getProjectBySlug returns one public project and bumps its view count
func (h projectHandler) getProjectBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		project, err := h.projectRepo.FindBySlug(slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteJSON(w, projectResponse{Success: true, Data: project})
	}
}

// createProject validates and stores a new project
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseProjectInput(r, h.uploadDir)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		project := models.Project{
			Status:   models.DefaultStatus,
			IsPublic: true,
		}
		input.applyTo(&project)
		project.Slug = models.Slugify(project.Title)

		if violations := project.Validate(); len(violations) > 0 {
			h.responder.WriteError(w, errs.NewValidationError("Error creating project", violations))
			return
		}

		exists, err := h.projectRepo.SlugExists(project.Slug, uuid.Nil)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check slug for", "project", err))
			return
		}
		if exists {
			h.responder.WriteError(w, errs.NewConflictError("A project with this slug already exists"))
			return
		}

		if err := h.projectRepo.Add(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, projectResponse{
			Success: true,
			Data:    &project,
			Message: "Project created successfully",
		})
	}
}

// updateProject re-validates the submitted fields and merges them into an
// existing project, re-deriving the slug when the title changes
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		existing, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		input, err := parseProjectInput(r, h.uploadDir)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		project := *existing
		input.applyTo(&project)
		if input.Title != nil {
			project.Slug = models.Slugify(project.Title)

			exists, err := h.projectRepo.SlugExists(project.Slug, projectID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("check slug for", "project", err))
				return
			}
			if exists {
				h.responder.WriteError(w, errs.NewConflictError("A project with this slug already exists"))
				return
			}
		}

		if violations := project.Validate(); len(violations) > 0 {
			h.responder.WriteError(w, errs.NewValidationError("Error updating project", violations))
			return
		}

		if err := h.projectRepo.Update(&project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.responder.WriteJSON(w, projectResponse{
			Success: true,
			Data:    &project,
			Message: "Project updated successfully",
		})
	}
}

// deleteProject removes a project permanently
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		if err := h.projectRepo.Delete(projectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "Project deleted successfully",
		})
	}
}

// likeProject atomically increments the like counter
func (h projectHandler) likeProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		likes, err := h.projectRepo.IncrementLikes(projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFoundError("Project not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("like", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"data":    map[string]int{"likes": likes},
			"message": "Project liked successfully",
		})
	}
}
