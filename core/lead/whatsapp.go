package lead

import (
	"fmt"
	"net/url"
	"strings"
)

// Placeholders rendered in transcripts for blank optional fields.
// Never the empty string: the receiving party sees every label.
const (
	placeholderNotProvided  = "Not provided"
	placeholderNotSpecified = "Not specified"
	placeholderNone         = "None"
)

// Transcript renders a submitted query as the fixed-order, labeled
// plain-text block sent along in the WhatsApp deep link.
func Transcript(q Query) string {
	b := new(strings.Builder)
	b.WriteString("Hi! I just submitted a query.\n\n")
	fmt.Fprintf(b, "Name: %s\n", q.Name)
	fmt.Fprintf(b, "Email: %s\n", q.Email)
	fmt.Fprintf(b, "Phone: %s\n", orPlaceholder(q.Phone, placeholderNotProvided))
	fmt.Fprintf(b, "Project Type: %s\n", q.ProjectType)
	fmt.Fprintf(b, "Education Level: %s\n", q.EducationLevel)
	fmt.Fprintf(b, "Field of Study: %s\n", orPlaceholder(q.FieldOfStudy, placeholderNotSpecified))
	fmt.Fprintf(b, "Deadline: %s\n", orPlaceholder(q.Deadline, placeholderNotSpecified))
	fmt.Fprintf(b, "Additional Details: %s", orPlaceholder(q.Message, placeholderNone))
	return b.String()
}

// DeepLink builds a wa.me URL that opens a chat with `number` pre-filled
// with `text`.
func DeepLink(number, text string) string {
	v := make(url.Values)
	v.Set("text", text)
	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + number,
		RawQuery: v.Encode(),
	}
	return u.String()
}

func orPlaceholder(val, placeholder string) string {
	if val == "" {
		return placeholder
	}
	return val
}
