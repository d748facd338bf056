package notifications

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"folio/internal/models"
)

// Message kinds.
const (
	KindContact      = "contact"
	KindComment      = "comment"
	KindSubscription = "subscription"
)

const contactText = `NEW CONTACT FORM SUBMISSION
================================

CONTACT DETAILS:
Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

MESSAGE:
{{.Message}}

SUBMISSION INFO:
Status: {{.Status}}
Priority: {{.Priority}}
Active: {{if .IsActive}}Yes{{else}}No{{end}}
Submission ID: {{.ID}}
Submitted At: {{stamp .CreatedAt}}

================================
This is an automated notification from your contact form.`

const contactHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>New Contact Form Submission</title></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;background-color:#f5f5f5;">
<div style="max-width:600px;margin:20px auto;background-color:#ffffff;border-radius:10px;overflow:hidden;">
  <div style="background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);color:white;padding:30px 20px;text-align:center;">
    <h1 style="margin:0;font-size:24px;">New Contact Form Submission</h1>
  </div>
  <div style="padding:30px 20px;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <div style="background-color:#f8f9ff;padding:20px;border-left:4px solid #667eea;">
      <p style="margin:0;white-space:pre-wrap;">{{.Message}}</p>
    </div>
    <p style="color:#666;font-size:12px;">Status {{.Status}}, priority {{.Priority}}, submission #{{.ID}} at {{stamp .CreatedAt}}</p>
  </div>
</div>
</body>
</html>`

const commentText = `New comment on "{{.Blog.Title}}"

From: {{.Comment.Author}}

{{.Comment.Content}}`

const commentHTML = `<p>New comment on <strong>{{.Blog.Title}}</strong></p>
<p><strong>From:</strong> {{.Comment.Author}}</p>
<blockquote style="white-space:pre-wrap;">{{.Comment.Content}}</blockquote>`

var funcs = map[string]any{
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.UTC().Format(time.RFC1123)
	},
}

var (
	contactTextTmpl = texttemplate.Must(texttemplate.New("contact").Funcs(funcs).Parse(contactText))
	contactHTMLTmpl = htmltemplate.Must(htmltemplate.New("contact").Funcs(funcs).Parse(contactHTML))
	commentTextTmpl = texttemplate.Must(texttemplate.New("comment").Parse(commentText))
	commentHTMLTmpl = htmltemplate.Must(htmltemplate.New("comment").Parse(commentHTML))
)

func render(text *texttemplate.Template, html *htmltemplate.Template, data any) (string, string, error) {
	var textBuf, htmlBuf bytes.Buffer
	if err := text.Execute(&textBuf, data); err != nil {
		return "", "", err
	}
	if err := html.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(textBuf.String()), htmlBuf.String(), nil
}

// ContactAlert is sent to the site owner for every contact submission.
func ContactAlert(to string, contact *models.Contact) (Message, error) {
	text, html, err := render(contactTextTmpl, contactHTMLTmpl, contact)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "New Contact Form Submission: " + contact.Subject,
		Text:    text,
		HTML:    html,
		Kind:    KindContact,
	}, nil
}

// CommentAlert tells the site owner about a new blog comment.
func CommentAlert(to string, blog *models.Blog, comment *models.BlogComment) (Message, error) {
	data := struct {
		Blog    *models.Blog
		Comment *models.BlogComment
	}{Blog: blog, Comment: comment}
	text, html, err := render(commentTextTmpl, commentHTMLTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "New comment on: " + blog.Title,
		Text:    text,
		HTML:    html,
		Kind:    KindComment,
	}, nil
}

// SubscriptionConfirmation thanks a new newsletter subscriber.
func SubscriptionConfirmation(to string) Message {
	return Message{
		To:      to,
		Subject: "Subscription Confirmation",
		Text:    "Thank you for subscribing to our newsletter!",
		HTML:    "<b>Thank you for subscribing to our newsletter!</b>",
		Kind:    KindSubscription,
	}
}
