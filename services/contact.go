package services

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ContactForm is a validated contact-form submission.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// ContactService turns contact-form submissions into outbound mail: a
// notification to the site owner and an auto-reply to the sender. Both
// sends must succeed for the submission to count as delivered.
type ContactService struct {
	mailer     Mailer
	adminEmail string
	senderName string
}

func NewContactService(mailer Mailer, adminEmail, senderName string) ContactService {
	return ContactService{
		mailer:     mailer,
		adminEmail: adminEmail,
		senderName: senderName,
	}
}

// Deliver fans out the notification and the auto-reply in parallel. If
// either send fails the whole delivery reports failure.
func (s ContactService) Deliver(form ContactForm, senderIP string) error {
	if s.mailer == nil {
		return fmt.Errorf("mail transport is not configured")
	}

	notification := s.notificationBody(form, senderIP)
	autoReply := s.autoReplyBody(form)

	var g errgroup.Group
	g.Go(func() error {
		return s.mailer.Send(
			fmt.Sprintf("Portfolio Contact: %s", form.Subject),
			notification,
			[]string{s.adminEmail},
			form.Email,
		)
	})
	g.Go(func() error {
		return s.mailer.Send(
			fmt.Sprintf("Thank you for your message - %s's Portfolio", s.senderName),
			autoReply,
			[]string{form.Email},
			"",
		)
	})
	return g.Wait()
}

// ConfirmSubscription sends the newsletter welcome mail.
func (s ContactService) ConfirmSubscription(email string) error {
	if s.mailer == nil {
		return fmt.Errorf("mail transport is not configured")
	}

	body := fmt.Sprintf(`<h2>Welcome to my newsletter!</h2>
<p>Thank you for subscribing to my newsletter. You'll receive updates about:</p>
<ul>
  <li>New projects and case studies</li>
  <li>Web development tips and tutorials</li>
  <li>Industry insights and trends</li>
  <li>Behind-the-scenes content</li>
</ul>
<p>You can unsubscribe at any time by replying to any newsletter email.</p>
<p>Best regards,<br>%s</p>`, s.senderName)

	return s.mailer.Send(
		fmt.Sprintf("Welcome to %s's Newsletter!", s.senderName),
		body,
		[]string{email},
		"",
	)
}

func (s ContactService) notificationBody(form ContactForm, senderIP string) string {
	var b strings.Builder
	b.WriteString("<h2>New Contact Form Submission</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", form.Name)
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", form.Email)
	if form.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", form.Phone)
	}
	if form.Company != "" {
		fmt.Fprintf(&b, "<p><strong>Company:</strong> %s</p>", form.Company)
	}
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>", form.Subject)
	b.WriteString("<p><strong>Message:</strong></p>")
	fmt.Fprintf(&b, `<div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 10px 0;">%s</div>`,
		strings.ReplaceAll(form.Message, "\n", "<br>"))
	b.WriteString("<hr>")
	fmt.Fprintf(&b, `<p style="color: #666; font-size: 12px;">This email was sent from the contact form on your portfolio website.<br>Sender IP: %s<br>Timestamp: %s</p>`,
		senderIP, time.Now().UTC().Format(time.RFC3339))
	return b.String()
}

func (s ContactService) autoReplyBody(form ContactForm) string {
	var b strings.Builder
	b.WriteString("<h2>Thank you for contacting me!</h2>")
	fmt.Fprintf(&b, "<p>Hi %s,</p>", form.Name)
	b.WriteString("<p>Thank you for reaching out through my portfolio website. I have received your message and will get back to you as soon as possible.</p>")
	b.WriteString("<p><strong>Your message:</strong></p>")
	fmt.Fprintf(&b, `<div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 10px 0;"><strong>Subject:</strong> %s<br><br>%s</div>`,
		form.Subject, strings.ReplaceAll(form.Message, "\n", "<br>"))
	fmt.Fprintf(&b, "<p>Best regards,<br>%s</p>", s.senderName)
	b.WriteString("<hr>")
	b.WriteString(`<p style="color: #666; font-size: 12px;">This is an automated response. Please do not reply to this email.</p>`)
	return b.String()
}
