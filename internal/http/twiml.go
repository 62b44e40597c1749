package http

import (
	"bytes"
	"encoding/xml"
	"net/http"
)

const contentTypeXML = "application/xml"

var (
	twimlResponse = xml.Name{Local: "Response"}
	twimlMessage  = xml.Name{Local: "Message"}
)

// renderTwiML returns <Response><Message>text</Message></Response>. Markup
// characters are escaped; line breaks stay literal.
func renderTwiML(text string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	tokens := []xml.Token{
		xml.StartElement{Name: twimlResponse},
		xml.StartElement{Name: twimlMessage},
		xml.CharData(text),
		xml.EndElement{Name: twimlMessage},
		xml.EndElement{Name: twimlResponse},
	}
	for _, tok := range tokens {
		if err := enc.EncodeToken(tok); err != nil {
			return nil, err
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTwiML(w http.ResponseWriter, status int, doc []byte) {
	w.Header().Set("Content-Type", contentTypeXML)
	w.WriteHeader(status)
	_, _ = w.Write(doc)
}
