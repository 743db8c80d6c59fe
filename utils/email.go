package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"
)

func SendEmail(to, subject, body string) error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("EMAIL_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	return d.DialAndSend(m)
}

// SendVerificationEmail mails the one-time code a new user needs to verify
// their address.
func SendVerificationEmail(to, name, otp string) error {
	subject := "Verify your SecureSpot account"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your verification code is:</p>
		<h2>%s</h2>
		<p>The code expires in 10 minutes.</p>
		<p>Best regards,</p>
		<p>The SecureSpot Team</p>
	`, name, otp)
	return SendEmail(to, subject, body)
}

// SendBookingReceipt mails a booking confirmation with the charged amount.
func SendBookingReceipt(to, name string, lockerID uint, start, end time.Time, amount float64) error {
	subject := fmt.Sprintf("Booking confirmed - Locker #%d", lockerID)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your locker booking is confirmed.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Locker:</strong> #%d</li>
			<li><strong>From:</strong> %s</li>
			<li><strong>Until:</strong> %s</li>
			<li><strong>Charged:</strong> $%.2f</li>
		</ul>
		<p>You can extend or cancel the booking from your dashboard.</p>
		<p>Best regards,</p>
		<p>The SecureSpot Team</p>
	`, name, lockerID,
		start.Format("2006-01-02 15:04:05"),
		end.Format("2006-01-02 15:04:05"),
		amount)
	return SendEmail(to, subject, body)
}
