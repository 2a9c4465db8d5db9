package filter

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/mikey/spam-model-trainer/internal/core"
)

const maxMultipartDepth = 5

var headerDecoder = new(mime.WordDecoder)

// ParseEmail reads an RFC 5322 message and keeps its text content
func ParseEmail(r io.Reader) (*core.Email, error) {
	msg, err := mail.ReadMessage(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email: %w", err)
	}

	body, err := extractTextFromMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to read email body: %w", err)
	}

	email := &core.Email{
		From:    decodeHeader(msg.Header.Get("From")),
		Subject: decodeHeader(msg.Header.Get("Subject")),
		Body:    body,
		Headers: make(map[string][]string, len(msg.Header)),
	}
	if to := msg.Header.Get("To"); to != "" {
		if addrs, err := msg.Header.AddressList("To"); err == nil {
			for _, a := range addrs {
				email.To = append(email.To, a.Address)
			}
		} else {
			for _, a := range strings.Split(to, ",") {
				email.To = append(email.To, strings.TrimSpace(a))
			}
		}
	}
	for key, values := range msg.Header {
		email.Headers[key] = values
	}
	return email, nil
}

func decodeHeader(v string) string {
	decoded, err := headerDecoder.DecodeHeader(v)
	if err != nil {
		return v
	}
	return decoded
}

// extractTextFromMessage returns the text/plain content of a message. For
// multipart messages every text/plain part is concatenated, descending into
// nested multiparts; other parts are skipped.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	return extractText(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body, 0)
}

func extractText(contentType, transferEncoding string, body io.Reader, depth int) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		data, err := io.ReadAll(decodeCharset(params["charset"], decodeTransfer(transferEncoding, body)))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	boundary, ok := params["boundary"]
	if !ok || depth >= maxMultipartDepth {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	mr := multipart.NewReader(body, boundary)
	var text bytes.Buffer
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep what was read before a malformed part.
			if text.Len() > 0 {
				break
			}
			return "", err
		}

		partType := part.Header.Get("Content-Type")
		lower := strings.ToLower(partType)
		switch {
		case strings.HasPrefix(lower, "multipart/"):
			nested, err := extractText(partType, "", part, depth+1)
			if err != nil {
				continue
			}
			text.WriteString(nested)
		case partType == "" || strings.HasPrefix(lower, "text/plain"):
			var charset string
			if _, partParams, err := mime.ParseMediaType(partType); err == nil {
				charset = partParams["charset"]
			}
			data, err := io.ReadAll(decodeCharset(charset, decodeTransfer(part.Header.Get("Content-Transfer-Encoding"), part)))
			if err != nil {
				continue
			}
			text.Write(data)
			text.WriteString("\n")
		}
	}

	if text.Len() == 0 {
		return "", nil
	}
	return text.String(), nil
}

// decodeTransfer undoes base64 and quoted-printable transfer encodings.
// multipart.Reader strips the header of quoted-printable parts it already
// decoded, so those pass through unchanged.
func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// decodeCharset converts text in the given MIME charset to UTF-8. Unknown or
// missing charsets are passed through and left to UTF-8 sanitizing.
func decodeCharset(charset string, r io.Reader) io.Reader {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" {
		return r
	}
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil || enc == nil {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}
