// Package service holds background helpers that sit between the API
// layer and external collaborators
package service

import (
	"driveshare/file-api/model"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// NewShareMailer returns the notification hook fired after a grant. The
// mail is best effort, a delivery failure never fails the grant itself.
// Recipients with an account can opt out via their notification setting.
func NewShareMailer(db *gorm.DB) func(recipientEmail, ownerName, fileName string) {
	return func(recipientEmail, ownerName, fileName string) {
		if !viper.GetBool("mail.enabled") {
			return
		}

		var recipient model.User

		err := db.Where("email = ?", recipientEmail).First(&recipient).Error
		if err == nil && !recipient.NotificationsEnabled {
			zap.L().Debug("Skipping share mail, notifications disabled",
				zap.String("recipient", recipientEmail))
			return
		}

		from := viper.GetString("mail.sender")

		m := gomail.NewMessage()
		m.SetHeader("From", from)
		m.SetHeader("To", recipientEmail)
		m.SetHeader("Subject", "A file has been shared with you")
		m.SetBody("text/html", fmt.Sprintf(
			"<h2>A file has been shared with you</h2>"+
				"<p>%v has shared the file \"%v\" with you.</p>"+
				"<p>You can access this file by logging into your account.</p>",
			ownerName, fileName))

		d := gomail.NewDialer(
			viper.GetString("mail.host"),
			viper.GetInt("mail.port"),
			from,
			viper.GetString("mail.password"),
		)

		if err := d.DialAndSend(m); err != nil {
			zap.L().Error("Failed to send share notification mail",
				zap.Error(err), zap.String("recipient", recipientEmail))
		}
	}
}
