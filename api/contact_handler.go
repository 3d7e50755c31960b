package api

import (
	"encoding/json"
	"net"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"portfolio-backend/config"
	"portfolio-backend/errs"
	"portfolio-backend/services"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// spamKeywords triggers the basic content filter on contact messages.
var spamKeywords = []string{
	"viagra", "casino", "lottery", "winner", "congratulations", "click here", "free money",
}

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contact   services.ContactService
	config    map[string]string
}

func newContactHandler(contact services.ContactService, cfg map[string]string) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contact:   contact,
		config:    cfg,
	}
}

// submit validates a contact-form submission and fans out the notification
// and auto-reply mails; either send failing fails the whole request
func (h contactHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form services.ContactForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := validateContactForm(form); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contact.Deliver(form, clientIP(r)); err != nil {
			h.logger.Error().Err(err).Msg("contact mail delivery failed")
			h.responder.WriteError(w, errs.NewInternalError(
				"There was an error sending your message. Please try again later or contact me directly."))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "Your message has been sent successfully! I'll get back to you soon.",
		})
	}
}

func validateContactForm(form services.ContactForm) error {
	missing := make(map[string]string)
	if form.Name == "" {
		missing["name"] = "Name is required"
	}
	if form.Email == "" {
		missing["email"] = "Email is required"
	}
	if form.Subject == "" {
		missing["subject"] = "Subject is required"
	}
	if form.Message == "" {
		missing["message"] = "Message is required"
	}
	if len(missing) > 0 {
		return errs.NewValidationError("All fields are required", missing)
	}

	if !emailRe.MatchString(form.Email) {
		return errs.NewBadRequestError("Please provide a valid email address")
	}
	if utf8.RuneCountInString(form.Name) > 100 {
		return errs.NewBadRequestError("Name must be less than 100 characters")
	}
	if utf8.RuneCountInString(form.Subject) > 200 {
		return errs.NewBadRequestError("Subject must be less than 200 characters")
	}
	if utf8.RuneCountInString(form.Message) > 2000 {
		return errs.NewBadRequestError("Message must be less than 2000 characters")
	}

	message := strings.ToLower(form.Message)
	for _, keyword := range spamKeywords {
		if strings.Contains(message, keyword) {
			return errs.NewBadRequestError("Message contains prohibited content")
		}
	}

	return nil
}

// info returns the static contact card
func (h contactHandler) info() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"data": map[string]any{
				"email":    config.GetString(h.config, "CONTACT_EMAIL", "joshua@example.com"),
				"phone":    config.GetString(h.config, "CONTACT_PHONE", "+1 (555) 123-4567"),
				"location": config.GetString(h.config, "CONTACT_LOCATION", "San Francisco, CA"),
				"social": map[string]string{
					"github":   config.GetString(h.config, "CONTACT_GITHUB", "https://github.com/joshua"),
					"linkedin": config.GetString(h.config, "CONTACT_LINKEDIN", "https://linkedin.com/in/joshua"),
					"twitter":  config.GetString(h.config, "CONTACT_TWITTER", "https://twitter.com/joshua"),
				},
				"availability": map[string]string{
					"status":  config.GetString(h.config, "CONTACT_AVAILABILITY", "available"),
					"message": config.GetString(h.config, "CONTACT_AVAILABILITY_MESSAGE", "Currently available for new projects"),
				},
			},
		})
	}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// subscribe sends the newsletter confirmation mail
func (h contactHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Email == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("Email is required"))
			return
		}
		if !emailRe.MatchString(req.Email) {
			h.responder.WriteError(w, errs.NewBadRequestError("Please provide a valid email address"))
			return
		}

		if err := h.contact.ConfirmSubscription(req.Email); err != nil {
			h.logger.Error().Err(err).Msg("subscription confirmation mail failed")
			h.responder.WriteError(w, errs.NewInternalError(
				"There was an error processing your subscription. Please try again later."))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": "Successfully subscribed! Check your email for confirmation.",
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
