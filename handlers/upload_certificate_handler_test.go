package handlers

import (
	"encoding/base64"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newUploadTestApp(uploader *fakeUploader, maxPayload int) *fiber.App {
	app := fiber.New()
	h := &UploadCertificateHandler{Uploader: uploader, MaxPayloadBytes: maxPayload}
	app.Post("/api/uploadCertificate", h.UploadCertificate)
	return app
}

func TestUploadCertificateRejectsMissingFields(t *testing.T) {
	uploader := &fakeUploader{}
	app := newUploadTestApp(uploader, 0)

	resp := jsonRequest(t, app, "POST", "/api/uploadCertificate", map[string]string{
		"fileType": "image/png",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if uploader.calls != 0 {
		t.Error("no upload must be attempted for invalid input")
	}
}

func TestUploadCertificateRejectsInvalidFileType(t *testing.T) {
	uploader := &fakeUploader{}
	app := newUploadTestApp(uploader, 0)

	resp := jsonRequest(t, app, "POST", "/api/uploadCertificate", map[string]string{
		"certificateData": base64.StdEncoding.EncodeToString([]byte("artifact")),
		"fileType":        "image/jpeg",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if uploader.calls != 0 {
		t.Error("no upload must be attempted for an unsupported file type")
	}
}

func TestUploadCertificateRejectsInvalidBase64(t *testing.T) {
	uploader := &fakeUploader{}
	app := newUploadTestApp(uploader, 0)

	resp := jsonRequest(t, app, "POST", "/api/uploadCertificate", map[string]string{
		"certificateData": "not$$base64%%data",
		"fileType":        "image/png",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if uploader.calls != 0 {
		t.Error("no upload must be attempted for undecodable data")
	}
}

func TestUploadCertificateRejectsOversizedPayload(t *testing.T) {
	uploader := &fakeUploader{}
	app := newUploadTestApp(uploader, 64)

	big := make([]byte, 256)
	resp := jsonRequest(t, app, "POST", "/api/uploadCertificate", map[string]string{
		"certificateData": base64.StdEncoding.EncodeToString(big),
		"fileType":        "image/png",
	})
	if resp.StatusCode != fiber.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
	if uploader.calls != 0 {
		t.Error("oversized payloads must be rejected before any network call")
	}
}

func TestUploadCertificateSuccess(t *testing.T) {
	uploader := &fakeUploader{}
	app := newUploadTestApp(uploader, 0)

	resp := jsonRequest(t, app, "POST", "/api/uploadCertificate", map[string]string{
		"certificateData": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("artifact")),
		"fileType":        "image/png",
		"studentName":     "Bob",
		"courseTitle":     "Intro",
		"completionDate":  "2024-05-01",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success       bool   `json:"success"`
		TransactionID string `json:"transactionId"`
		URL           string `json:"url"`
		Message       string `json:"message"`
	}
	decodeJSON(t, resp, &body)
	if !body.Success || body.TransactionID != "tx-1" || body.URL == "" || body.Message == "" {
		t.Errorf("unexpected response body: %+v", body)
	}

	if string(uploader.lastData) != "artifact" {
		t.Error("data URL prefix must be stripped before decoding")
	}
	if uploader.lastMIME != "image/png" {
		t.Errorf("uploaded content type = %s", uploader.lastMIME)
	}

	for name, want := range map[string]string{
		"Type":           "Certificate",
		"Student":        "Bob",
		"Course":         "Intro",
		"CompletionDate": "2024-05-01",
	} {
		if got := uploader.tagValue(name); got != want {
			t.Errorf("tag %s = %q, want %q", name, got, want)
		}
	}
	if uploader.tagValue("UploadedAt") == "" {
		t.Error("UploadedAt tag missing")
	}
}
