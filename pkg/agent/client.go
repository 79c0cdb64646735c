// Package agent talks to the external InfraZen agent service.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/logger"
)

type client struct {
	baseURL string
	hc      *http.Client
}

func NewClient(baseURL string) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
	}
}

type uploadResponse struct {
	ImageID string `json:"image_id"`
	Detail  string `json:"detail"`
}

// UploadImage posts the attachment as a multipart file and returns the
// server-issued image id.
func (c *client) UploadImage(ctx context.Context, a domain.Attachment) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, a.Name))
	h.Set("Content-Type", a.MIME)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("creating multipart part: %v", err)
	}
	if _, err := part.Write(a.Data); err != nil {
		return "", fmt.Errorf("writing multipart part: %v", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/upload", &body)
	if err != nil {
		return "", fmt.Errorf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %v", err)
	}
	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			slog.Error("closing body", logger.Err(closeErr))
		}
	}(resp.Body)

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("decoding upload response: %v", err)
	}

	if resp.StatusCode != http.StatusOK || ur.ImageID == "" {
		if ur.Detail != "" {
			return "", fmt.Errorf("upload rejected: %s", ur.Detail)
		}
		return "", fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	return ur.ImageID, nil
}
