package mail

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// LinkEmail is the data both account emails render
type LinkEmail struct {
	Name     string
	Link     string
	SiteName string
}

func render(name string, data LinkEmail) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// VerificationMessage builds the email carrying the account activation link
func VerificationMessage(to string, data LinkEmail) (Message, error) {
	body, err := render("email_verification.html", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{to},
		Subject:  "Verify your email address",
		HTMLBody: body,
		Kind:     "email_verification",
	}, nil
}

// PasswordResetMessage builds the email carrying a password reset link
func PasswordResetMessage(to string, data LinkEmail) (Message, error) {
	body, err := render("password_reset.html", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{to},
		Subject:  "Password reset for " + data.SiteName,
		HTMLBody: body,
		Kind:     "password_reset",
	}, nil
}
