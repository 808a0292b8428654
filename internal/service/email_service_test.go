package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestEmailServiceDisabled(t *testing.T) {
	svc, err := NewEmailService("us-east-1", "", "", "", false)
	if err != nil {
		t.Fatalf("NewEmailService() error = %v", err)
	}
	if svc.IsEnabled() {
		t.Error("service without a sender should be disabled")
	}
	if err := svc.SendProgressReport(context.Background(), "parent@example.com", ProgressReport{}); err != nil {
		t.Errorf("disabled send returned %v", err)
	}
}

func TestSendProgressReport(t *testing.T) {
	ses := &fakeSES{}
	svc := newEmailServiceWithClient(ses, "stories@example.com", "StoryGeo", "https://storygeo.example.com", false)

	report := ProgressReport{
		ChildName:        "Aisha <3",
		AdventureTitle:   "The Great Pyramid Mystery",
		Score:            20,
		TotalScore:       250,
		Rank:             13,
		StoriesCompleted: 4,
		Language:         "ms",
	}
	if err := svc.SendProgressReport(context.Background(), "parent@example.com", report); err != nil {
		t.Fatalf("SendProgressReport() error = %v", err)
	}
	if len(ses.inputs) != 1 {
		t.Fatalf("sent %d emails", len(ses.inputs))
	}

	in := ses.inputs[0]
	if *in.FromEmailAddress != "StoryGeo <stories@example.com>" {
		t.Errorf("from = %q", *in.FromEmailAddress)
	}
	if in.Destination.ToAddresses[0] != "parent@example.com" {
		t.Errorf("to = %v", in.Destination.ToAddresses)
	}
	text := *in.Content.Simple.Body.Text.Data
	for _, want := range []string{"Cerita Selesai: 4", "Pangkat Penjelajah: 13", "250 mata pengembaraan!"} {
		if !strings.Contains(text, want) {
			t.Errorf("text body missing %q:\n%s", want, text)
		}
	}
	htmlBody := *in.Content.Simple.Body.Html.Data
	if strings.Contains(htmlBody, "Aisha <3") || !strings.Contains(htmlBody, "Aisha &lt;3") {
		t.Error("child name not escaped in html body")
	}
}

func TestSendProgressReportError(t *testing.T) {
	ses := &fakeSES{err: errors.New("throttled")}
	svc := newEmailServiceWithClient(ses, "stories@example.com", "", "", true)
	if err := svc.SendProgressReport(context.Background(), "parent@example.com", ProgressReport{Language: "en"}); err == nil {
		t.Error("expected error")
	}
}
