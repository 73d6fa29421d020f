// internal/workers/communication/send-quote/email.go
package sendquote

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// buildRawEmail assembles the full MIME message SES expects: headers,
// a text/plain quote body and an optional base64 attachment part.
func buildRawEmail(cfg *Config, recipient string, input *Input) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	subject := emailSubject(input)

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\n", cfg.FromEmail, recipient)
	if cfg.ReplyTo != "" {
		headers += fmt.Sprintf("Reply-To: %s\r\n", cfg.ReplyTo)
	}
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += fmt.Sprintf("Message-ID: <%s@travel-inquiry-workers>\r\n", uuid.NewString())
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	if _, err := fmt.Fprint(textPart, emailBody(input)); err != nil {
		return nil, fmt.Errorf("write text part: %w", err)
	}

	if input.AttachmentPath != "" {
		if err := writeAttachment(writer, input.AttachmentPath); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize message: %w", err)
	}

	return append([]byte(headers), buf.Bytes()...), nil
}

func emailSubject(input *Input) string {
	destination := input.Inquiry.Location.PrimaryDestination
	if destination == "" {
		return fmt.Sprintf("Your travel quote (%s)", input.Inquiry.InquiryID)
	}
	if input.Inquiry.Modification != nil {
		return fmt.Sprintf("Updated quote for your %s trip (%s)", destination, input.Inquiry.InquiryID)
	}
	return fmt.Sprintf("Your travel quote for %s (%s)", destination, input.Inquiry.InquiryID)
}

func emailBody(input *Input) string {
	if input.QuoteSummary != "" {
		return input.QuoteSummary
	}
	name := input.Inquiry.Customer.Name
	if name == "" || name == "Unknown" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s,\r\n\r\nPlease find your travel quote attached. Reference: %s.\r\n",
		name, input.Inquiry.InquiryID)
}

func writeAttachment(writer *multipart.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}

	filename := filepath.Base(path)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {fmt.Sprintf("application/octet-stream; name=%q", filename)},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", filename)},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return fmt.Errorf("create attachment part: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(content)
	// RFC 2045 line length limit.
	for len(encoded) > 76 {
		if _, err := fmt.Fprintf(part, "%s\r\n", encoded[:76]); err != nil {
			return fmt.Errorf("write attachment: %w", err)
		}
		encoded = encoded[76:]
	}
	if _, err := fmt.Fprintf(part, "%s\r\n", encoded); err != nil {
		return fmt.Errorf("write attachment: %w", err)
	}
	return nil
}
