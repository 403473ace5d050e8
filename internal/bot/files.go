package bot

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/linguist/internal/export"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// downloadFile fetches an uploaded file from the Telegram file storage
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, b.config.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > b.config.MaxUploadBytes {
		return nil, errors.New("file exceeds upload limit")
	}
	return data, nil
}

// encodeDataURI embeds image bytes as a data URI
func encodeDataURI(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// decodeDataURI returns the bytes of a base64 data URI
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasPrefix(uri, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("not a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid data URI: %w", err)
	}
	return data, nil
}

// imageFile turns a stored image reference into an uploadable file
func imageFile(ref string) (tgbotapi.RequestFileData, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tgbotapi.FileURL(ref), nil
	}
	data, err := decodeDataURI(ref)
	if err != nil {
		return nil, err
	}
	return tgbotapi.FileBytes{Name: "card", Bytes: data}, nil
}

// handleExport sends the whole collection as a JSON backup
func (b *Bot) handleExport(chatID int64) error {
	b.snapMu.RLock()
	state := b.snapshot
	b.snapMu.RUnlock()

	var buf bytes.Buffer
	if err := export.Write(&buf, state, export.FormatJSON); err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "linguist.json", Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("💾 %d kosakata, %d grammar", len(state.Vocabs), len(state.Grammars))
	return b.sendMessage(doc)
}
