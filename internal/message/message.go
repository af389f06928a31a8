/*
Package message assembles transport-ready plain-text email messages.
*/
package message

import (
	"fmt"
	"strings"
	"time"
)

// Build serializes a plain-text message that an SMTP transport can send
// verbatim. to carries the mentor and mentee addresses in that order; the Cc
// header is omitted when cc is empty. No attachments, no HTML part.
func Build(from string, to []string, cc, subject, body string) []byte {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	if cc != "" {
		msg.WriteString(fmt.Sprintf("Cc: %s\r\n", cc))
	}
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	return []byte(msg.String())
}
