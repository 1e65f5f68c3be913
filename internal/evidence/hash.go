package evidence

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// Canonical returns the stable serialization of p that Hash digests:
//
//	{"assessmentId":…,"funnelSlug":…,"answers":{…},"hasUploadedDocuments":…,"hasWearableData":…}
//
// Answers are written in ascending key order and absent flags as false, so
// the output depends only on the pack's values. Valid packs produce plain
// JSON. Values JSON cannot carry get tokens no JSON value produces: NaN,
// Infinity and -Infinity for non-finite numbers, and \xNN for each byte of a
// string that is not valid UTF-8. An unset Answer is written as null.
func Canonical(p Pack) []byte {
	keys := make([]string, 0, len(p.Answers))
	for k := range p.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString(`{"assessmentId":`)
	writeString(&buf, p.AssessmentID)
	buf.WriteString(`,"funnelSlug":`)
	writeString(&buf, p.FunnelSlug)
	buf.WriteString(`,"answers":{`)
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, k)
		buf.WriteByte(':')
		writeAnswer(&buf, p.Answers[k])
	}
	buf.WriteString(`},"hasUploadedDocuments":`)
	writeBool(&buf, p.UploadedDocuments())
	buf.WriteString(`,"hasWearableData":`)
	writeBool(&buf, p.WearableData())
	buf.WriteByte('}')
	return buf.Bytes()
}

// Hash returns the lowercase hex SHA-256 of Canonical(p).
func Hash(p Pack) string {
	sum := sha256.Sum256(Canonical(p))
	return hex.EncodeToString(sum[:])
}

// VerifyHash reports whether hash matches the pack's current hash.
func VerifyHash(p Pack, hash string) bool {
	want := Hash(p)
	got := strings.ToLower(strings.TrimSpace(hash))
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func writeAnswer(buf *bytes.Buffer, a Answer) {
	switch a.kind {
	case kindNumber:
		switch {
		case math.IsNaN(a.num):
			buf.WriteString("NaN")
		case math.IsInf(a.num, 1):
			buf.WriteString("Infinity")
		case math.IsInf(a.num, -1):
			buf.WriteString("-Infinity")
		default:
			b, _ := json.Marshal(a.num)
			buf.Write(b)
		}
	case kindText:
		writeString(buf, a.text)
	case kindBool:
		writeBool(buf, a.b)
	default:
		buf.WriteString("null")
	}
}

// writeString writes s as a JSON string. Invalid UTF-8 bytes are written as
// \xNN, which cannot collide with an escaped backslash (\\).
func writeString(buf *bytes.Buffer, s string) {
	if utf8.ValidString(s) {
		b, _ := marshalString(s)
		buf.Write(b)
		return
	}
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != utf8.RuneError || size != 1 {
			i += size
			continue
		}
		writeSegment(buf, s[start:i])
		fmt.Fprintf(buf, `\x%02x`, s[i])
		i++
		start = i
	}
	writeSegment(buf, s[start:])
	buf.WriteByte('"')
}

// writeSegment writes valid UTF-8 s as the body of a JSON string.
func writeSegment(buf *bytes.Buffer, s string) {
	if s == "" {
		return
	}
	b, _ := marshalString(s)
	buf.Write(b[1 : len(b)-1])
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteString("true")
		return
	}
	buf.WriteString("false")
}

// marshalString encodes s as a JSON string without HTML escaping.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
