package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/utils"
)

// NotificationService tells a worker an issue landed on their desk.
// Either client may be nil (unconfigured environment); sends are then
// skipped with a warning instead of failing the assignment.
type NotificationService struct {
	twilioClient   *twilio.RestClient
	sendgridClient *sendgrid.Client

	orgName         string
	fromPhone       string
	fromEmail       string
	sendgridSandbox bool
}

func NewNotificationService(
	twilioClient *twilio.RestClient,
	sendgridClient *sendgrid.Client,
	orgName, fromPhone, fromEmail string,
	sendgridSandbox bool,
) *NotificationService {
	return &NotificationService{
		twilioClient:    twilioClient,
		sendgridClient:  sendgridClient,
		orgName:         orgName,
		fromPhone:       fromPhone,
		fromEmail:       fromEmail,
		sendgridSandbox: sendgridSandbox,
	}
}

// NotifyAssignment sends the worker an SMS and an email about the issue.
// Failures are logged, never returned: notification is best-effort and the
// assignment itself already committed.
func (s *NotificationService) NotifyAssignment(worker *models.Worker, issue *models.PhoneIssue) {
	subject := fmt.Sprintf("%s: new %s issue assigned", s.orgName, issue.Kind.Label())
	body := fmt.Sprintf(
		"%s\n\nDescription: %s\nCaller phone: %s\nDue: %s",
		subject, issue.Description, issue.PhoneNumber, issue.DueDate.Format("Mon, Jan 2"),
	)

	if s.twilioClient != nil && worker.PhoneNumber != "" {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(worker.PhoneNumber)
		params.SetFrom(s.fromPhone)
		params.SetBody(body)
		if _, err := s.twilioClient.Api.CreateMessage(params); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to send assignment SMS to worker %s", worker.ID)
		}
	} else if s.twilioClient == nil {
		utils.Logger.Warnf("Twilio client is nil, skipping SMS to worker %s", worker.ID)
	}

	if s.sendgridClient != nil {
		from := mail.NewEmail(s.orgName, s.fromEmail)
		to := mail.NewEmail(worker.FullName(), worker.Email)
		msg := mail.NewSingleEmail(from, subject, to, body, "")
		if s.sendgridSandbox {
			ms := mail.NewMailSettings()
			ms.SetSandboxMode(mail.NewSetting(true))
			msg.MailSettings = ms
		}
		if _, err := s.sendgridClient.Send(msg); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to send assignment email to worker %s", worker.ID)
		}
	} else {
		utils.Logger.Warnf("SendGrid client is nil, skipping email to worker %s", worker.ID)
	}
}
