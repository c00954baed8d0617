package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/ataredge/tutorhub/internal/model"
)

var emailFuncs = template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}

var htmlTemplates = template.Must(template.New("email").Funcs(emailFuncs).Parse(`
{{define "message"}}<hr/><p>{{range $i, $line := lines .}}{{if $i}}<br/>{{end}}{{$line}}{{end}}</p>{{end}}

{{define "inquiry"}}<p>New enquiry for <strong>{{.TutorName}}</strong></p>
<p><strong>From:</strong> {{.Inquiry.FullName}} ({{.Inquiry.Relation}})</p>
<p><strong>Email:</strong> {{.Inquiry.Email}}<br/><strong>Mobile:</strong> {{.Inquiry.Mobile}}</p>
<p><strong>Year level:</strong> {{.Inquiry.YearLevel}} &nbsp; <strong>School:</strong> {{.Inquiry.School}}</p>
{{template "message" .Inquiry.Message}}{{end}}

{{define "inquiry_confirmation"}}<p>Thanks {{.Inquiry.FullName}},</p>
<p>We received your message and will connect you with <strong>{{.TutorName}}</strong> soon.</p>
{{template "inquiry" .}}{{end}}

{{define "contact"}}<p><strong>From:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
{{template "message" .Message}}{{end}}

{{define "contact_confirmation"}}<p>Thanks {{.Name}},</p>
<p>We received your message and will be in touch.</p>{{end}}

{{define "application"}}<p>New tutor application from <strong>{{.FullName}}</strong></p>
<p><strong>Email:</strong> {{.Email}}<br/><strong>Mobile:</strong> {{.Mobile}}</p>
<p><strong>ATAR:</strong> {{.ATAR}} &nbsp; <strong>High school:</strong> {{.HighSchool}} ({{.GraduationYear}})</p>
<p><strong>University:</strong> {{.University}} &nbsp; <strong>Degree:</strong> {{.Degree}}</p>
{{template "message" .Message}}{{end}}

{{define "application_confirmation"}}<p>Thanks {{.FullName}},</p>
<p>We received your application to join the team and will be in touch after we review it.</p>{{end}}
`))

func renderHTML(name string, data any) string {
	var buf bytes.Buffer
	err := htmlTemplates.ExecuteTemplate(&buf, name, data)
	if err != nil {
		// Text part still goes out.
		return ""
	}
	return strings.TrimSpace(buf.String())
}

type inquiryEmailData struct {
	TutorName string
	Inquiry   *model.Inquiry
}

func inquiryText(tutorName string, in *model.Inquiry) string {
	return fmt.Sprintf(`New enquiry for %s

From: %s (%s)
Email: %s
Mobile: %s
Year level: %s
School: %s

Message:
%s`, tutorName, in.FullName, in.Relation, in.Email, in.Mobile, in.YearLevel, in.School, in.Message)
}

func inquiryInternalEmailTemplate(tutorName string, in *model.Inquiry) (string, string, string) {
	subject := fmt.Sprintf("New enquiry for %s - %s", tutorName, in.FullName)
	return subject, inquiryText(tutorName, in), renderHTML("inquiry", inquiryEmailData{tutorName, in})
}

func inquiryConfirmationEmailTemplate(tutorName string, in *model.Inquiry) (string, string, string) {
	subject := fmt.Sprintf("We've received your enquiry for %s", tutorName)
	body := fmt.Sprintf(`Thanks %s,

We received your message and will connect you with %s soon.

%s`, in.FullName, tutorName, inquiryText(tutorName, in))

	return subject, body, renderHTML("inquiry_confirmation", inquiryEmailData{tutorName, in})
}

func contactInternalEmailTemplate(c *model.Contact) (string, string, string) {
	subject := fmt.Sprintf("Website contact: %s", c.Name)
	body := fmt.Sprintf(`From: %s
Email: %s
Phone: %s

%s`, c.Name, c.Email, c.Phone, c.Message)

	return subject, body, renderHTML("contact", c)
}

func contactConfirmationEmailTemplate(c *model.Contact, appName string) (string, string, string) {
	subject := "We received your message"
	body := fmt.Sprintf(`Thanks %s, we received your message and will be in touch.

The %s Team`, c.Name, appName)

	return subject, body, renderHTML("contact_confirmation", c)
}

func applicationInternalEmailTemplate(a *model.Application) (string, string, string) {
	subject := fmt.Sprintf("New tutor application: %s", a.FullName)
	body := fmt.Sprintf(`New tutor application from %s

Email: %s
Mobile: %s
ATAR: %s
High school: %s (%s)
University: %s
Degree: %s

Message:
%s`, a.FullName, a.Email, a.Mobile, a.ATAR, a.HighSchool, a.GraduationYear, a.University, a.Degree, a.Message)

	return subject, body, renderHTML("application", a)
}

func applicationConfirmationEmailTemplate(a *model.Application, appName string) (string, string, string) {
	subject := fmt.Sprintf("Your application to join %s", appName)
	body := fmt.Sprintf(`Thanks %s,

We received your application to join the team and will be in touch after we review it.

The %s Team`, a.FullName, appName)

	return subject, body, renderHTML("application_confirmation", a)
}
