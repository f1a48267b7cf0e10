package imapmail

import (
	"bytes"
	"encoding/base64"
	"io"

	"github.com/matta/jobmail/internal/message"

	gomessage "github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ParseRecord parses an RFC 5322 message into a Record.  Transfer
// encodings and known charsets are decoded; each leaf part's content is
// stored as UTF-8, base64url encoded.  Parts in an unknown charset are
// kept undecoded.
func ParseRecord(id string, raw []byte, log *zap.SugaredLogger) (*message.Record, error) {
	e, err := gomessage.Read(bytes.NewReader(raw))
	if err != nil && !recoverable(err) {
		return nil, errors.Wrapf(err, "parsing message %s", id)
	}
	if err != nil {
		log.Debugw("message body left undecoded", "id", id, "error", err)
	}

	rec := &message.Record{ID: id}
	fields := e.Header.Fields()
	for fields.Next() {
		rec.Headers = append(rec.Headers, message.Header{Name: fields.Key(), Value: fields.Value()})
	}
	rec.Payload, err = toPart(e, id, log)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing message %s", id)
	}
	return rec, nil
}

func recoverable(err error) bool {
	return gomessage.IsUnknownCharset(err) || gomessage.IsUnknownEncoding(err)
}

func toPart(e *gomessage.Entity, id string, log *zap.SugaredLogger) (*message.Part, error) {
	t, _, err := e.Header.ContentType()
	if err != nil || t == "" {
		t = "text/plain"
	}
	part := &message.Part{MimeType: t}

	if mr := e.MultipartReader(); mr != nil {
		for {
			child, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil && !recoverable(err) {
				return nil, err
			}
			if err != nil {
				log.Debugw("part left undecoded", "id", id, "error", err)
			}
			p, err := toPart(child, id, log)
			if err != nil {
				return nil, err
			}
			part.Parts = append(part.Parts, p)
		}
		return part, nil
	}

	b, err := io.ReadAll(e.Body)
	if err != nil {
		return nil, err
	}
	if len(b) > 0 {
		part.Data = base64.RawURLEncoding.EncodeToString(b)
	}
	return part, nil
}
