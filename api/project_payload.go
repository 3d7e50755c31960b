package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio-backend/models"
)

// jsonDate accepts either RFC 3339 timestamps or plain YYYY-MM-DD dates.
type jsonDate struct {
	time.Time
}

func (d *jsonDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date", s)
}

// projectInput is a partial project payload. Nil fields were absent from
// the request, which matters for updates: absent means leave unchanged.
type projectInput struct {
	Title           *string            `json:"title"`
	Description     *string            `json:"description"`
	LongDescription *string            `json:"longDescription"`
	Technologies    *models.StringList `json:"technologies"`
	Category        *string            `json:"category"`
	Status          *string            `json:"status"`
	Featured        *bool              `json:"featured"`
	Images          *models.ImageList  `json:"images"`
	Thumbnail       *string            `json:"thumbnail"`
	GithubURL       *string            `json:"githubUrl"`
	LiveURL         *string            `json:"liveUrl"`
	StartDate       *jsonDate          `json:"startDate"`
	EndDate         *jsonDate          `json:"endDate"`
	Challenges      *models.StringList `json:"challenges"`
	Solutions       *models.StringList `json:"solutions"`
	Tags            *models.StringList `json:"tags"`
	IsPublic        *bool              `json:"isPublic"`
}

const maxUploadMemory = 10 << 20

// parseProjectInput reads a project payload from a JSON body or a
// multipart/urlencoded form. Form array fields arrive as JSON-encoded
// strings; an uploaded thumbnail file overrides the thumbnail field.
func parseProjectInput(r *http.Request, uploadDir string) (projectInput, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var input projectInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return projectInput{}, fmt.Errorf("malformed request body")
		}
		return input, nil
	}

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return projectInput{}, fmt.Errorf("malformed multipart form")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return projectInput{}, fmt.Errorf("malformed form body")
		}
	}

	input, err := inputFromForm(r)
	if err != nil {
		return projectInput{}, err
	}

	if r.MultipartForm != nil {
		path, uploaded, err := saveThumbnail(r, uploadDir)
		if err != nil {
			return projectInput{}, err
		}
		if uploaded {
			input.Thumbnail = &path
		}
	}

	return input, nil
}

func inputFromForm(r *http.Request) (projectInput, error) {
	var input projectInput

	strField := func(key string, dst **string) {
		if values, ok := r.Form[key]; ok && len(values) > 0 {
			v := values[0]
			*dst = &v
		}
	}
	strField("title", &input.Title)
	strField("description", &input.Description)
	strField("longDescription", &input.LongDescription)
	strField("category", &input.Category)
	strField("status", &input.Status)
	strField("thumbnail", &input.Thumbnail)
	strField("githubUrl", &input.GithubURL)
	strField("liveUrl", &input.LiveURL)

	boolField := func(key string, dst **bool) error {
		values, ok := r.Form[key]
		if !ok || len(values) == 0 {
			return nil
		}
		v, err := strconv.ParseBool(values[0])
		if err != nil {
			return fmt.Errorf("invalid value for %s", key)
		}
		*dst = &v
		return nil
	}
	if err := boolField("featured", &input.Featured); err != nil {
		return projectInput{}, err
	}
	if err := boolField("isPublic", &input.IsPublic); err != nil {
		return projectInput{}, err
	}

	listField := func(key string, dst **models.StringList) error {
		values, ok := r.Form[key]
		if !ok || len(values) == 0 {
			return nil
		}
		var list models.StringList
		if err := json.Unmarshal([]byte(values[0]), &list); err != nil {
			return fmt.Errorf("invalid JSON array for %s", key)
		}
		*dst = &list
		return nil
	}
	if err := listField("technologies", &input.Technologies); err != nil {
		return projectInput{}, err
	}
	if err := listField("tags", &input.Tags); err != nil {
		return projectInput{}, err
	}
	if err := listField("challenges", &input.Challenges); err != nil {
		return projectInput{}, err
	}
	if err := listField("solutions", &input.Solutions); err != nil {
		return projectInput{}, err
	}

	if values, ok := r.Form["images"]; ok && len(values) > 0 {
		var images models.ImageList
		if err := json.Unmarshal([]byte(values[0]), &images); err != nil {
			return projectInput{}, fmt.Errorf("invalid JSON array for images")
		}
		input.Images = &images
	}

	dateField := func(key string, dst **jsonDate) error {
		values, ok := r.Form[key]
		if !ok || len(values) == 0 || values[0] == "" {
			return nil
		}
		t, err := parseDate(values[0])
		if err != nil {
			return fmt.Errorf("invalid date for %s", key)
		}
		*dst = &jsonDate{t}
		return nil
	}
	if err := dateField("startDate", &input.StartDate); err != nil {
		return projectInput{}, err
	}
	if err := dateField("endDate", &input.EndDate); err != nil {
		return projectInput{}, err
	}

	return input, nil
}

// applyTo merges the present fields into the project record.
func (in projectInput) applyTo(p *models.Project) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.LongDescription != nil {
		p.LongDescription = *in.LongDescription
	}
	if in.Technologies != nil {
		p.Technologies = *in.Technologies
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	if in.Thumbnail != nil {
		p.Thumbnail = *in.Thumbnail
	}
	if in.GithubURL != nil {
		p.GithubURL = *in.GithubURL
	}
	if in.LiveURL != nil {
		p.LiveURL = *in.LiveURL
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate.Time
	}
	if in.EndDate != nil {
		end := in.EndDate.Time
		p.EndDate = &end
	}
	if in.Challenges != nil {
		p.Challenges = *in.Challenges
	}
	if in.Solutions != nil {
		p.Solutions = *in.Solutions
	}
	if in.Tags != nil {
		p.Tags = models.NormalizeTags(*in.Tags)
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
}
