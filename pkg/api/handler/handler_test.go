package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatpkg "github.com/infrazen/console/pkg/chat"
	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/inventory"
	"github.com/infrazen/console/pkg/reports"
)

type noopSender struct{}

func (noopSender) Send(context.Context, string, string) error { return nil }

type noopUploader struct{}

func (noopUploader) UploadImage(context.Context, domain.Attachment) (string, error) {
	return "img-1", nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestChatMessagesRoundTrip(t *testing.T) {
	session := chatpkg.NewSession("web", noopSender{}, noopUploader{})
	h := NewChat(session)

	body := bytes.NewBufferString(`{"text":"привет"}`)
	rec := httptest.NewRecorder()
	h.Messages(rec, httptest.NewRequest(http.MethodPost, "/api/chat/messages", body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Messages(rec, httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "true", string(env["success"]))
	assert.Contains(t, string(env["data"]), "привет")
}

func multipartBody(t *testing.T, filename, mime string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", mime)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestChatAttachmentRejectsBadMIME(t *testing.T) {
	session := chatpkg.NewSession("web", noopSender{}, noopUploader{})
	h := NewChat(session)

	body, contentType := multipartBody(t, "doc.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/chat/attachment", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Attachment(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestChatAttachmentAccepted(t *testing.T) {
	session := chatpkg.NewSession("web", noopSender{}, noopUploader{})
	h := NewChat(session)

	body, contentType := multipartBody(t, "shot.png", "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/api/chat/attachment", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Attachment(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	_, staged := session.PendingAttachment()
	assert.True(t, staged)
}

func TestInventoryToggleAndExport(t *testing.T) {
	inv := inventory.New([]domain.ResourceCard{
		{ID: "vm-1", Provider: "Selectel", Name: "web-1", MonthlyCost: 100, RAMMB: 1024},
	})
	h := NewInventory(inv)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/toggle", strings.NewReader(`{"provider":"Selectel"}`))
	h.Toggle(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"expanded":true`)

	rec = httptest.NewRecorder()
	h.Export(rec, httptest.NewRequest(http.MethodGet, "/api/inventory/export?format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\xEF\xBB\xBF")))
}

type stubReportsClient struct{}

func (stubReportsClient) List(context.Context) ([]domain.Report, error) { return nil, nil }
func (stubReportsClient) Create(_ context.Context, role string) (domain.Report, error) {
	return domain.Report{ID: "r1", Role: role, Status: domain.ReportStatusInProgress}, nil
}
func (stubReportsClient) Delete(context.Context, string) error { return nil }

func TestReportsDeleteFlow(t *testing.T) {
	panel := reports.NewPanel(stubReportsClient{}, []string{"cfo"}, []domain.Report{
		{ID: "r1", Role: "cfo", Status: domain.ReportStatusReady},
	})
	h := NewReports(panel)

	// Confirm without request is rejected.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports/delete", strings.NewReader(`{"id":"r1","step":"confirm"}`))
	h.Delete(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/reports/delete", strings.NewReader(`{"id":"r1","step":"request"}`))
	h.Delete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/reports/delete", strings.NewReader(`{"id":"r1","step":"confirm"}`))
	h.Delete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, panel.Reports())
}

func TestReportsPanelRendersReadyContent(t *testing.T) {
	panel := reports.NewPanel(stubReportsClient{}, []string{"cfo"}, []domain.Report{
		{ID: "r1", Role: "cfo", Status: domain.ReportStatusReady, Content: "# Итоги"},
	})
	h := NewReports(panel)

	rec := httptest.NewRecorder()
	h.Panel(rec, httptest.NewRequest(http.MethodGet, "/api/reports/panel", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "content_html")
	assert.Contains(t, rec.Body.String(), "Итоги")
}
