package mailbox

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/bscott/mailsort/internal/engine"
	"github.com/emersion/go-message/mail"
)

var filenameRe = regexp.MustCompile(`filename="?([^";]+)"?`)

// parseAttachments extracts attachments from a raw RFC 5322 message body.
func parseAttachments(rawBody []byte) []engine.Attachment {
	var attachments []engine.Attachment
	reader, err := mail.CreateReader(bytes.NewReader(rawBody))
	if err != nil {
		return nil
	}
	defer reader.Close()

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		contentType := part.Header.Get("Content-Type")
		contentDisposition := part.Header.Get("Content-Disposition")

		if strings.Contains(contentDisposition, "attachment") ||
			(contentDisposition != "" && !strings.HasPrefix(contentType, "text/")) {
			filename := ""
			if matches := filenameRe.FindStringSubmatch(contentDisposition); len(matches) > 1 {
				filename = matches[1]
			}

			data, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}

			attachments = append(attachments, engine.Attachment{
				Filename:    filename,
				ContentType: contentType,
				Data:        data,
			})
		}
	}

	return attachments
}
