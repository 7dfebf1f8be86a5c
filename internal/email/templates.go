package email

import (
	"bytes"
	"text/template"
	"time"
)

// RenewalItem is one line of the renewal digest.
type RenewalItem struct {
	ServiceName     string
	Cost            string
	BillingCadence  string
	NextBillingDate time.Time
	Manager         string
}

var renewalDigestTmpl = template.Must(template.New("renewal_digest").Parse(
	`The following subscriptions are approaching their next billing date:

{{range .Items}}  - {{.ServiceName}} ({{.Cost}}, {{.BillingCadence}}) renews on {{.NextBillingDate.Format "2006-01-02"}}{{if .Manager}}, managed by {{.Manager}}{{end}}
{{end}}
Review them in the dashboard before the charges land.
`))

// RenderRenewalDigest builds the plain-text body of the upcoming
// renewals notification.
func RenderRenewalDigest(items []RenewalItem) (string, error) {
	var buf bytes.Buffer
	err := renewalDigestTmpl.Execute(&buf, struct{ Items []RenewalItem }{Items: items})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
