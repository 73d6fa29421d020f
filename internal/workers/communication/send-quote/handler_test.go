// internal/workers/communication/send-quote/handler_test.go
package sendquote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-inquiry-workers/internal/common/logger"
	"travel-inquiry-workers/internal/models"
)

type fakeSES struct {
	input *ses.SendRawEmailInput
	calls int
	err   error
}

func (f *fakeSES) SendRawEmail(_ context.Context, input *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error) {
	f.calls++
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendRawEmailOutput{MessageId: aws.String("ses-msg-1")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	calls int
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	f.calls++
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-msg-1")}, nil
}

func quoteInquiry() models.StructuredInquiry {
	return models.StructuredInquiry{
		InquiryID:      "INQ_1720000000_ab12cd34",
		Classification: models.Classification{Kind: models.KindSingleLeg},
		Customer: models.CustomerDetails{
			Name:  "Mark Henry",
			Email: "mark.henry@example.com",
			Phone: "+91 9876543210",
		},
		Location: models.LocationDetails{
			AllDestinations:    []string{"Bali"},
			DestinationCount:   1,
			PrimaryDestination: "Bali",
		},
	}
}

func TestHandler_Execute_SendsEmail(t *testing.T) {
	sesSvc := &fakeSES{}
	handler := NewHandler(LoadConfig(), sesSvc, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Inquiry:      quoteInquiry(),
		QuoteSummary: "Bali, 4 nights, water villa. Total: ₹2,40,000.",
	})
	require.NoError(t, err)

	assert.True(t, output.Success)
	assert.Equal(t, "ses-msg-1", output.EmailMessageID)
	assert.Empty(t, output.SMSMessageID)
	assert.NotEmpty(t, output.SentAt)

	require.Equal(t, 1, sesSvc.calls)
	require.NotNil(t, sesSvc.input)
	assert.Equal(t, []string{"mark.henry@example.com"}, sesSvc.input.Destinations)
	assert.Equal(t, "quotes@example.com", aws.ToString(sesSvc.input.Source))

	raw := string(sesSvc.input.RawMessage.Data)
	assert.Contains(t, raw, "To: mark.henry@example.com")
	assert.Contains(t, raw, "Subject: Your travel quote for Bali (INQ_1720000000_ab12cd34)")
	assert.Contains(t, raw, "Bali, 4 nights, water villa. Total: ₹2,40,000.")
	assert.Contains(t, raw, "multipart/mixed")
}

func TestHandler_Execute_AttachesQuoteDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake quote"), 0o644))

	sesSvc := &fakeSES{}
	handler := NewHandler(LoadConfig(), sesSvc, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		Inquiry:        quoteInquiry(),
		QuoteSummary:   "Quote attached.",
		AttachmentPath: path,
	})
	require.NoError(t, err)

	raw := string(sesSvc.input.RawMessage.Data)
	assert.Contains(t, raw, `attachment; filename="quote.pdf"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
}

func TestHandler_Execute_MissingAttachmentIsRenderFailure(t *testing.T) {
	sesSvc := &fakeSES{}
	handler := NewHandler(LoadConfig(), sesSvc, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Inquiry:        quoteInquiry(),
		AttachmentPath: "/nonexistent/quote.pdf",
	})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrRenderFailed)
	assert.Equal(t, 0, sesSvc.calls)
}

func TestHandler_Execute_MissingRecipientIsRenderFailure(t *testing.T) {
	sesSvc := &fakeSES{}
	handler := NewHandler(LoadConfig(), sesSvc, nil, logger.NewTestLogger(t))

	inquiry := quoteInquiry()
	inquiry.Customer.Email = ""

	output, err := handler.Execute(context.Background(), &Input{Inquiry: inquiry})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrRenderFailed)
}

func TestHandler_Execute_SESFailure(t *testing.T) {
	sesSvc := &fakeSES{err: errors.New("throttled")}
	handler := NewHandler(LoadConfig(), sesSvc, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Inquiry: quoteInquiry()})

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestHandler_Execute_UrgentModificationSendsSMS(t *testing.T) {
	config := LoadConfig()
	config.SMSEnabled = true

	sesSvc := &fakeSES{}
	snsSvc := &fakeSNS{}
	handler := NewHandler(config, sesSvc, snsSvc, logger.NewTestLogger(t))

	inquiry := quoteInquiry()
	inquiry.Classification.Kind = models.KindModification
	inquiry.Modification = &models.ModificationDetails{
		Changes:             []string{"Change travel dates"},
		RequiresQuoteUpdate: true,
		Urgency:             "high",
	}

	output, err := handler.Execute(context.Background(), &Input{Inquiry: inquiry})
	require.NoError(t, err)

	assert.Equal(t, "sns-msg-1", output.SMSMessageID)
	require.Equal(t, 1, snsSvc.calls)
	assert.Equal(t, "+91 9876543210", aws.ToString(snsSvc.input.PhoneNumber))
	assert.Contains(t, aws.ToString(snsSvc.input.Message), "INQ_1720000000_ab12cd34")
}

func TestHandler_Execute_NormalModificationSkipsSMS(t *testing.T) {
	config := LoadConfig()
	config.SMSEnabled = true

	snsSvc := &fakeSNS{}
	handler := NewHandler(config, &fakeSES{}, snsSvc, logger.NewTestLogger(t))

	inquiry := quoteInquiry()
	inquiry.Modification = &models.ModificationDetails{Urgency: "normal"}

	output, err := handler.Execute(context.Background(), &Input{Inquiry: inquiry})
	require.NoError(t, err)

	assert.Empty(t, output.SMSMessageID)
	assert.Equal(t, 0, snsSvc.calls)
}

func TestHandler_Execute_SMSDisabled(t *testing.T) {
	snsSvc := &fakeSNS{}
	handler := NewHandler(LoadConfig(), &fakeSES{}, snsSvc, logger.NewTestLogger(t))

	inquiry := quoteInquiry()
	inquiry.Modification = &models.ModificationDetails{Urgency: "high"}

	output, err := handler.Execute(context.Background(), &Input{Inquiry: inquiry})
	require.NoError(t, err)

	assert.Empty(t, output.SMSMessageID)
	assert.Equal(t, 0, snsSvc.calls)
}
