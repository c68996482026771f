package mailer

import (
	"fmt"
	"os"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailResponse struct {
	Status   int
	RespBody string
}

// SendResetPassword emails a password-reset link through SendGrid, with the
// body rendered by hermes.
func SendResetPassword(toEmail, fromEmail, token, appEnv string) (*EmailResponse, error) {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:3000"
	}
	resetURL := fmt.Sprintf("%s/password/reset?token=%s", appURL, token)

	h := hermes.Hermes{
		Product: hermes.Product{
			Name: "Chirp",
			Link: appURL,
		},
	}

	email := hermes.Email{
		Body: hermes.Body{
			Intros: []string{
				"You have received this email because a password reset request was received for your account.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to reset your password:",
					Button: hermes.Button{
						Color: "#1DA1F2",
						Text:  "Reset your password",
						Link:  resetURL,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required on your part.",
			},
		},
	}

	emailBody, err := h.GenerateHTML(email)
	if err != nil {
		return nil, err
	}

	from := mail.NewEmail("Chirp", fromEmail)
	subject := "Reset your Chirp password"
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, emailBody, emailBody)

	// Skip the network call outside production so local dev never needs a key.
	if appEnv != "production" {
		return &EmailResponse{Status: 200, RespBody: "skipped outside production"}, nil
	}

	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return nil, err
	}
	return &EmailResponse{Status: response.StatusCode, RespBody: response.Body}, nil
}
