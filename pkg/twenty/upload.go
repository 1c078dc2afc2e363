package twenty

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

// UploadImage fetches the image at imageURL and re-uploads it to the CRM
// using the GraphQL multipart request convention (operations, map, numbered
// file parts). It returns a server-relative path: signed URLs expire and
// must never be persisted, so the path is what goes into avatar fields.
//
// Any failure yields "" so the caller can fall back to the external URL; a
// failed upload never fails the surrounding operation.
func (c *httpClient) UploadImage(ctx context.Context, imageURL, filename string) string {
	if c.token == "" || c.baseURL == "" {
		zap.L().Warn("twenty: skipping image upload, client not configured")
		return ""
	}

	blob, ok := c.fetchImage(ctx, imageURL)
	if !ok {
		return ""
	}

	operations, err := json.Marshal(map[string]any{
		"query": mutationUploadImage,
		"variables": map[string]any{
			"file":       nil,
			"fileFolder": "PersonPicture",
		},
	})
	if err != nil {
		zap.L().Warn("twenty: marshal upload operations", zap.Error(err))
		return ""
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("operations", string(operations)); err != nil {
		zap.L().Warn("twenty: write operations part", zap.Error(err))
		return ""
	}
	if err := mw.WriteField("map", `{"0":["variables.file"]}`); err != nil {
		zap.L().Warn("twenty: write map part", zap.Error(err))
		return ""
	}
	part, err := mw.CreateFormFile("0", filename)
	if err != nil {
		zap.L().Warn("twenty: create file part", zap.Error(err))
		return ""
	}
	if _, err := part.Write(blob); err != nil {
		zap.L().Warn("twenty: write file part", zap.Error(err))
		return ""
	}
	if err := mw.Close(); err != nil {
		zap.L().Warn("twenty: close multipart writer", zap.Error(err))
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", &body)
	if err != nil {
		zap.L().Warn("twenty: create upload request", zap.Error(err))
		return ""
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Warn("twenty: upload request failed", zap.Error(err))
		return ""
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Warn("twenty: upload rejected", zap.Int("status", resp.StatusCode))
		return ""
	}

	var envelope struct {
		Data struct {
			UploadImage *struct {
				Path string `json:"path"`
			} `json:"uploadImage"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		zap.L().Warn("twenty: decode upload response", zap.Error(err))
		return ""
	}
	if len(envelope.Errors) > 0 {
		zap.L().Warn("twenty: upload returned errors", zap.String("message", envelope.Errors[0].Message))
		return ""
	}
	if envelope.Data.UploadImage == nil || envelope.Data.UploadImage.Path == "" {
		zap.L().Warn("twenty: upload succeeded but response had no path")
		return ""
	}
	return envelope.Data.UploadImage.Path
}

// fetchImage downloads the external image bytes.
func (c *httpClient) fetchImage(ctx context.Context, imageURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		zap.L().Warn("twenty: create image fetch request", zap.Error(err))
		return nil, false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().Warn("twenty: fetch image", zap.String("url", imageURL), zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Warn("twenty: fetch image status", zap.String("url", imageURL), zap.Int("status", resp.StatusCode))
		return nil, false
	}
	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		zap.L().Warn("twenty: read image body", zap.Error(err))
		return nil, false
	}
	return blob, true
}
