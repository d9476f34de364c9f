package services

import (
	"encoding/base64"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// VerificationURL derives the public verification URL for a certificate
// id. It depends on nothing but the origin and the id, so any holder of
// the id can re-derive it.
func VerificationURL(origin, id string) string {
	return strings.TrimRight(origin, "/") + "/verify/" + url.PathEscape(id)
}

// VerificationQR renders the verification URL as a scannable code and
// returns it as a PNG data URI suitable for an <img> tag.
func VerificationQR(verificationURL string) (string, error) {
	png, err := qrcode.Encode(verificationURL, qrcode.Medium, 220)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
