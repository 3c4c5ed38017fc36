package mail

import (
	"fmt"
	"html/template"
	"strings"
)

func subject(n Notification) string {
	if n.NewUser {
		return fmt.Sprintf("A TechNexus Badge is Waiting for You: %s", n.BadgeName)
	}
	return fmt.Sprintf("You've Earned a TechNexus Community Badge: %s", n.BadgeName)
}

var bodyTemplate = template.Must(template.New("badge").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; background-color: #f0f9ff; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 16px; padding: 40px; text-align: center; border: 1px solid #e2e8f0;">
      <h1 style="color: #1a237e; margin-bottom: 8px;">{{if .NewUser}}Welcome to TechNexus!{{else}}Congratulations!{{end}}</h1>
      <p style="color: #64748b; font-size: 18px;">
        {{if .NewUser}}Someone issued an achievement badge to your email. Sign up now to claim your credential and join our community!{{else}}You've earned a new digital badge from the TechNexus Community.{{end}}
      </p>
      <div style="background: #f8fafc; padding: 20px; border-radius: 12px; margin: 30px 0; border-left: 4px solid #1890ff;">
        <h2 style="margin: 0; color: #1890ff;">{{.BadgeName}}</h2>
        <p style="margin: 5px 0 0 0; color: #475569;">Event: {{.EventName}}</p>
      </div>
      <a href="{{.ActionURL}}" style="display: inline-block; background: #1890ff; color: white; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: bold;">
        {{if .NewUser}}Join &amp; Claim Badge{{else}}View Your Achievement{{end}}
      </a>
      {{if .NewUser}}
      <p style="color: #94a3b8; font-size: 14px; margin-top: 20px;">
        Note: Please use this email address ({{.ToEmail}}) when signing up to automatically see your badge.
      </p>
      {{end}}
    </div>
  </body>
</html>`))

type bodyData struct {
	Notification
	ActionURL string
}

func htmlContent(appURL string, n Notification) string {
	action := n.BadgeLink
	if action == "" {
		action = appURL + "/dashboard"
	}
	if n.NewUser {
		action = appURL + "/auth/signup"
	}

	var sb strings.Builder
	bodyTemplate.Execute(&sb, bodyData{Notification: n, ActionURL: action})
	return sb.String()
}
