// Package codec кодирует снимок кэша в текст для хранения в KV хранилище.
// Основной формат: JSON -> DEFLATE -> base64 с префиксом версии.
// Старые (несжатые) снимки читаются как обычный JSON.
package codec

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iudanet/zapsync/internal/models"
)

// CompressedPrefix помечает сжатый формат снимка
const CompressedPrefix = "z1:"

// maxInflatedSize ограничивает размер распакованного снимка (защита от zip-бомб)
const maxInflatedSize = 64 << 20

// emptySnapshotText используется, если снимок не удалось сериализовать даже в JSON
const emptySnapshotText = `{"clientState":{"queries":[],"mutations":[]},"buster":"","timestamp":0}`

// Serialize кодирует снимок в текст. Сначала пытается сжать,
// при любой ошибке возвращает несжатый JSON. Никогда не возвращает ошибку.
func Serialize(snapshot *models.Snapshot) string {
	if snapshot == nil {
		return emptySnapshotText
	}

	plain, err := json.Marshal(snapshot)
	if err != nil {
		return emptySnapshotText
	}

	compressed, err := compress(plain)
	if err != nil {
		return string(plain)
	}

	return CompressedPrefix + compressed
}

// Deserialize декодирует текст в снимок. Порядок попыток:
// 1. сжатый формат (префикс z1:)
// 2. обычный JSON
// При неудаче возвращает nil. Никогда не паникует.
func Deserialize(text string) (snapshot *models.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			snapshot = nil
		}
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, CompressedPrefix) {
		if plain, err := decompress(strings.TrimPrefix(text, CompressedPrefix)); err == nil {
			if s, err := parse(plain); err == nil {
				return s
			}
		}
	}

	s, err := parse([]byte(text))
	if err != nil {
		return nil
	}
	return s
}

// IsCompressed сообщает, записан ли текст в сжатом формате
func IsCompressed(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), CompressedPrefix)
}

func compress(plain []byte) (string, error) {
	var buf bytes.Buffer

	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("failed to create flate writer: %w", err)
	}
	if _, err := w.Write(plain); err != nil {
		return "", fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to flush compressor: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decompress(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	r := flate.NewReader(bytes.NewReader(raw))
	defer func() {
		_ = r.Close()
	}()

	plain, err := io.ReadAll(io.LimitReader(r, maxInflatedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to inflate snapshot: %w", err)
	}
	if len(plain) > maxInflatedSize {
		return nil, fmt.Errorf("inflated snapshot exceeds %d bytes", maxInflatedSize)
	}

	return plain, nil
}

// parse разбирает JSON снимка. Принимается только JSON объект:
// `null`, массивы и скаляры считаются повреждёнными данными.
func parse(data []byte) (*models.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("snapshot is not a JSON object")
	}

	var s models.Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &s, nil
}
