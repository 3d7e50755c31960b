package models

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Project categories and statuses accepted by validation.
var (
	ProjectCategories = []string{"web", "mobile", "desktop", "api", "other"}
	ProjectStatuses   = []string{"planning", "in-progress", "completed", "maintenance"}
)

const (
	DefaultStatus = "completed"

	maxTitleLen           = 100
	maxDescriptionLen     = 500
	maxLongDescriptionLen = 2000
)

// Project represents a portfolio project with metadata
type Project struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title           string     `json:"title" gorm:"type:text;not null"`
	Description     string     `json:"description" gorm:"type:text;not null"`
	LongDescription string     `json:"longDescription,omitempty" gorm:"type:text"`
	Technologies    StringList `json:"technologies" gorm:"type:text"`
	Category        string     `json:"category" gorm:"type:text;not null;index"`
	Status          string     `json:"status" gorm:"type:text"`
	Featured        bool       `json:"featured" gorm:"index"`
	Images          ImageList  `json:"images" gorm:"type:text"`
	Thumbnail       string     `json:"thumbnail" gorm:"type:text;not null"`
	GithubURL       string     `json:"githubUrl,omitempty" gorm:"type:text"`
	LiveURL         string     `json:"liveUrl,omitempty" gorm:"type:text"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Challenges      StringList `json:"challenges" gorm:"type:text"`
	Solutions       StringList `json:"solutions" gorm:"type:text"`
	Tags            StringList `json:"tags" gorm:"type:text"`
	Views           int        `json:"views"`
	Likes           int        `json:"likes"`
	IsPublic        bool       `json:"isPublic"`
	Slug            string     `json:"slug" gorm:"type:text;uniqueIndex;not null"`
	Duration        string     `json:"duration,omitempty" gorm:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s_-]+`)
	githubURLRe    = regexp.MustCompile(`^https://github\.com/`)
	httpURLRe      = regexp.MustCompile(`^https?://`)
)

// Slugify derives a URL-safe identifier from a title: lower-case, strip
// characters outside word/space/hyphen, collapse whitespace, underscore and
// hyphen runs into a single hyphen, trim leading/trailing hyphens.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// NormalizeTags lower-cases and trims tags before they are stored.
func NormalizeTags(tags StringList) StringList {
	if tags == nil {
		return nil
	}
	normalized := make(StringList, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}

// Validate checks the record against the schema constraints and returns a
// field -> violation map, empty when the record is valid.
func (p Project) Validate() map[string]string {
	violations := make(map[string]string)

	switch {
	case strings.TrimSpace(p.Title) == "":
		violations["title"] = "Project title is required"
	case utf8.RuneCountInString(p.Title) > maxTitleLen:
		violations["title"] = fmt.Sprintf("Title cannot exceed %d characters", maxTitleLen)
	}

	switch {
	case strings.TrimSpace(p.Description) == "":
		violations["description"] = "Project description is required"
	case utf8.RuneCountInString(p.Description) > maxDescriptionLen:
		violations["description"] = fmt.Sprintf("Description cannot exceed %d characters", maxDescriptionLen)
	}

	if utf8.RuneCountInString(p.LongDescription) > maxLongDescriptionLen {
		violations["longDescription"] = fmt.Sprintf("Long description cannot exceed %d characters", maxLongDescriptionLen)
	}

	if len(p.Technologies) == 0 {
		violations["technologies"] = "At least one technology is required"
	}

	if p.Category == "" {
		violations["category"] = "Project category is required"
	} else if !contains(ProjectCategories, p.Category) {
		violations["category"] = fmt.Sprintf("Category must be one of: %s", strings.Join(ProjectCategories, ", "))
	}

	if p.Status != "" && !contains(ProjectStatuses, p.Status) {
		violations["status"] = fmt.Sprintf("Status must be one of: %s", strings.Join(ProjectStatuses, ", "))
	}

	if strings.TrimSpace(p.Thumbnail) == "" {
		violations["thumbnail"] = "Project thumbnail is required"
	}

	if p.GithubURL != "" && !githubURLRe.MatchString(p.GithubURL) {
		violations["githubUrl"] = "Please provide a valid GitHub URL"
	}

	if p.LiveURL != "" && !httpURLRe.MatchString(p.LiveURL) {
		violations["liveUrl"] = "Please provide a valid URL"
	}

	if p.StartDate.IsZero() {
		violations["startDate"] = "Project start date is required"
	}

	return violations
}

// DurationLabel renders the project span as a human label, recomputed on
// every read and never persisted. The end date defaults to now when unset.
func (p Project) DurationLabel(now time.Time) string {
	if p.StartDate.IsZero() {
		return ""
	}

	end := now
	if p.EndDate != nil {
		end = *p.EndDate
	}

	diff := end.Sub(p.StartDate)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))

	switch {
	case days < 30:
		return fmt.Sprintf("%d days", days)
	case days < 365:
		months := (days + 29) / 30
		return fmt.Sprintf("%d %s", months, pluralize("month", months))
	default:
		years := days / 365
		label := fmt.Sprintf("%d %s", years, pluralize("year", years))
		if months := (days%365 + 29) / 30; months > 0 {
			label += fmt.Sprintf(" %d %s", months, pluralize("month", months))
		}
		return label
	}
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
