package service

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"storygeo/internal/i18n"
)

// sesAPI is the part of the SES client the email service uses
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// ProgressReport is the content of a parent progress email
type ProgressReport struct {
	ChildName        string
	AdventureTitle   string
	Score            int
	TotalScore       int
	Rank             int
	StoriesCompleted int
	Language         string
}

// EmailService sends parent progress emails via Amazon SES
type EmailService struct {
	client     sesAPI
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. An empty fromEmail gives a
// disabled service that logs and skips every send.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return newEmailServiceWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, debug), nil
}

func newEmailServiceWithClient(client sesAPI, fromEmail, fromName, appBaseURL string, debug bool) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendProgressReport tells a parent about a finished quiz. Labels are in the
// child's interface language.
func (s *EmailService) SendProgressReport(ctx context.Context, toEmail string, r ProgressReport) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): progress report to %s", toEmail)
		return nil
	}

	lang := r.Language
	subject := fmt.Sprintf("StoryGeo: %s finished %q", r.ChildName, r.AdventureTitle)
	points := i18n.FormatNumber(lang, r.Score)
	total := i18n.FormatNumber(lang, r.TotalScore)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #f59e0b; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #fffbeb; padding: 30px; border-radius: 0 0 5px 5px; }
		.stat { font-size: 18px; margin: 8px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p><strong>%s</strong> &middot; %s</p>
			<p class="stat">%s %s</p>
			<p class="stat">%s: %d</p>
			<p class="stat">%s: %d</p>
			<p class="stat">%s %s</p>
			<p><a href="%s">StoryGeo</a></p>
		</div>
		<div class="footer">
			<p>This is an automated email from StoryGeo. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`,
		html.EscapeString(i18n.T(lang, "parentDash")),
		html.EscapeString(r.ChildName), html.EscapeString(r.AdventureTitle),
		html.EscapeString(i18n.T(lang, "pointsEarned")), points,
		html.EscapeString(i18n.T(lang, "storiesCompleted")), r.StoriesCompleted,
		html.EscapeString(i18n.T(lang, "explorerRank")), r.Rank,
		total, html.EscapeString(i18n.T(lang, "points")),
		s.appBaseURL)

	textBody := fmt.Sprintf(`%s

%s - %s
%s %s
%s: %d
%s: %d
%s %s

---
This is an automated email from StoryGeo. Please do not reply.
`,
		i18n.T(lang, "parentDash"),
		r.ChildName, r.AdventureTitle,
		i18n.T(lang, "pointsEarned"), points,
		i18n.T(lang, "storiesCompleted"), r.StoriesCompleted,
		i18n.T(lang, "explorerRank"), r.Rank,
		total, i18n.T(lang, "points"))

	if s.debug {
		log.Printf("[DEBUG] Sending progress report: subject=%s, to=%s", subject, toEmail)
	}

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
