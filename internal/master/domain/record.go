// Package domain defines the master secret's persisted form and its errors.
package domain

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	cryptoDomain "github.com/allisson/cmf/internal/crypto/domain"
)

// RecordTag prefixes the first line of every master file.
const RecordTag = "#1.0#"

const fieldSeparator = "::"

// PersistedMasterRecord is the on-disk form of the master secret.
//
// The file has two lines:
//
//	#1.0# 2026-10-17T09:12:44Z
//	base64( base64(salt) "::" base64(iv) "::" base64(ciphertext) )
//
// Only the tag prefix of line 1 is significant; the date is informational.
type PersistedMasterRecord struct {
	CreatedAt time.Time
	Result    cryptoDomain.EncryptionResult
}

// Encode renders the record in its two-line file format.
func (r *PersistedMasterRecord) Encode() []byte {
	inner := strings.Join([]string{
		base64.StdEncoding.EncodeToString(r.Result.Salt),
		base64.StdEncoding.EncodeToString(r.Result.IV),
		base64.StdEncoding.EncodeToString(r.Result.Ciphertext),
	}, fieldSeparator)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s\n", RecordTag, r.CreatedAt.UTC().Format(time.RFC3339))
	buf.WriteString(base64.StdEncoding.EncodeToString([]byte(inner)))
	buf.WriteByte('\n')
	return buf.Bytes()
}

// ParseRecord parses the file format produced by Encode. Windows line endings
// and trailing blank lines are tolerated.
func ParseRecord(data []byte) (*PersistedMasterRecord, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 2 {
		return nil, fmt.Errorf("%w: expected 2 lines, got %d", ErrInvalidRecord, len(lines))
	}

	tagLine := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(tagLine, RecordTag) {
		return nil, fmt.Errorf("%w: missing %s tag", ErrInvalidRecord, RecordTag)
	}

	record := &PersistedMasterRecord{}
	if date := strings.TrimSpace(strings.TrimPrefix(tagLine, RecordTag)); date != "" {
		if createdAt, err := time.Parse(time.RFC3339, date); err == nil {
			record.CreatedAt = createdAt
		}
	}

	inner, err := base64.StdEncoding.DecodeString(strings.TrimSpace(lines[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	parts := strings.Split(string(inner), fieldSeparator)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 fields, got %d", ErrInvalidRecord, len(parts))
	}

	decoded := make([][]byte, len(parts))
	for i, part := range parts {
		decoded[i], err = base64.StdEncoding.DecodeString(part)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %v", ErrInvalidRecord, i, err)
		}
	}
	if len(decoded[0]) == 0 || len(decoded[1]) == 0 || len(decoded[2]) == 0 {
		return nil, fmt.Errorf("%w: empty field", ErrInvalidRecord)
	}

	record.Result = cryptoDomain.EncryptionResult{
		Salt:       decoded[0],
		IV:         decoded[1],
		Ciphertext: decoded[2],
	}
	return record, nil
}
