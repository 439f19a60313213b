package notification

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

const dueDateFormat = "Jan 2, 2006"

type emailData struct {
	Name      string
	BookTitle string
	DueDate   string
}

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "loan_borrowed"}}
<p>Hi {{.Name}},</p>
<p>You borrowed <strong>{{.BookTitle}}</strong>.</p>
<p>It is due back on {{.DueDate}}.</p>
{{end}}

{{define "loan_renewed"}}
<p>Hi {{.Name}},</p>
<p>Your loan of <strong>{{.BookTitle}}</strong> was renewed.</p>
<p>The new due date is {{.DueDate}}.</p>
{{end}}

{{define "loan_returned"}}
<p>Hi {{.Name}},</p>
<p>You returned <strong>{{.BookTitle}}</strong>. Thanks!</p>
{{end}}
`))

var emailSubjects = map[string]string{
	"loan_borrowed": "Borrow confirmation: %s",
	"loan_renewed":  "Renewal confirmation: %s",
	"loan_returned": "Return confirmation: %s",
}

// renderEmail produces the subject and HTML body for a loan topic.
func renderEmail(topic, name, bookTitle string, dueAt time.Time) (subject, body string, err error) {
	subjectFormat, ok := emailSubjects[topic]
	if !ok {
		return "", "", fmt.Errorf("unknown notification topic: %s", topic)
	}

	data := emailData{
		Name:      name,
		BookTitle: bookTitle,
		DueDate:   dueAt.Format(dueDateFormat),
	}

	var b strings.Builder
	if err := emailTemplates.ExecuteTemplate(&b, topic, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s template: %w", topic, err)
	}

	return fmt.Sprintf(subjectFormat, bookTitle), b.String(), nil
}
