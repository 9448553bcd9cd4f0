package service

import (
	"fmt"
	"net/url"

	"github.com/MKhiriev/go-task-keeper/models"
)

func welcomeMail(appName string, user models.User) models.Mail {
	return models.Mail{
		To:      user.Email,
		Subject: fmt.Sprintf("Welcome to %s!", appName),
		Text: fmt.Sprintf("Hello %s,\n\n"+
			"Welcome to %s! Your account has been successfully created.\n"+
			"You can now start organizing your tasks and boosting your productivity.\n\n"+
			"Best regards,\n%s Team\n",
			user.FullName(), appName, appName),
	}
}

func passwordResetMail(appName, resetURL, token string, user models.User, ttl string) models.Mail {
	link := resetURL + "?token=" + url.QueryEscape(token)
	return models.Mail{
		To:      user.Email,
		Subject: fmt.Sprintf("Password Reset - %s", appName),
		Text: fmt.Sprintf("Hello %s,\n\n"+
			"You requested a password reset for your %s account.\n"+
			"Reset your password here: %s\n\n"+
			"If you didn't request this, please ignore this email.\n"+
			"This link will expire in %s.\n\n"+
			"Best regards,\n%s Team\n",
			user.FullName(), appName, link, ttl, appName),
	}
}
