// Package parser turns logcat output lines into records.
package parser

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vburojevic/rogcat/internal/domain"
)

var (
	// 01-02 15:04:05.678  1234  5678 I ActivityManager: message
	// 2025-01-02 15:04:05.678  1234  5678 I ActivityManager: message (-v year)
	threadtimeRe = regexp.MustCompile(`^((?:\d{4}-)?\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d+)\s+(\d+)\s+(\d+)\s+([VTDIWEFA])\s+(.*?)\s*:(?:\s(.*))?$`)
	// I/ActivityManager( 1234): message
	briefRe = regexp.MustCompile(`^([VTDIWEFA])/(.*?)\(\s*(\d+)\):(?:\s(.*))?$`)
)

// Parser parses raw lines into records
type Parser struct{}

// NewParser creates a new line parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts a line into a record. ok is false when the line matched no
// known format; the record then only carries the message.
func (p *Parser) Parse(line string) (rec domain.Record, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	rec.Raw = line

	if strings.HasPrefix(line, "{") && gjson.Valid(line) {
		return parseJSON(line), true
	}
	if m := threadtimeRe.FindStringSubmatch(line); m != nil {
		rec.Timestamp = m[1]
		rec.Process = m[2]
		rec.Thread = m[3]
		rec.Level = domain.ParseLevel(m[4])
		rec.Tag = m[5]
		rec.Message = m[6]
		return rec, true
	}
	if m := briefRe.FindStringSubmatch(line); m != nil {
		rec.Level = domain.ParseLevel(m[1])
		rec.Tag = strings.TrimSpace(m[2])
		rec.Process = m[3]
		rec.Message = m[4]
		return rec, true
	}

	rec.Message = line
	return rec, false
}

// parseJSON reads a record written by the json output format
func parseJSON(line string) domain.Record {
	r := gjson.Parse(line)
	return domain.Record{
		Timestamp: r.Get("timestamp").String(),
		Level:     domain.ParseLevel(r.Get("level").String()),
		Tag:       r.Get("tag").String(),
		Process:   r.Get("process").String(),
		Thread:    r.Get("thread").String(),
		Message:   r.Get("message").String(),
		Raw:       line,
	}
}
