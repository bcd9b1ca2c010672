package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// OCRClient talks to the OCR sidecar that renders PDFs to images and runs
// text recognition on them (and on plain images).
type OCRClient struct {
	BaseURL string
	Client  *http.Client
}

func NewOCRClient(baseURL string) *OCRClient {
	return &OCRClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 120 * time.Second, // PDF rendering can be slow
		},
	}
}

type ocrRequest struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"` // base64 on the wire
}

type ocrResponse struct {
	Text string `json:"text"`
}

// ExtractText sends the file at path to the OCR service and returns the
// recognized text.
func (o *OCRClient) ExtractText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	reqBody := ocrRequest{
		Filename: filepath.Base(path),
		Content:  content,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/ocr", o.BaseURL)
	resp, err := o.Client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to call OCR service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OCR service error (status %d): %s", resp.StatusCode, string(body))
	}

	var ocrResp ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&ocrResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return ocrResp.Text, nil
}

// readPlainText decodes the file at path as UTF-8 text.
func readPlainText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if !utf8.Valid(content) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}

	return string(content), nil
}

// needsOCR reports whether the filename extension names a format that goes
// through the OCR backend. Anything else falls back to plain-text decode.
func needsOCR(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
