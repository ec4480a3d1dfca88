package sinks

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashenkeep/voxelserver/logging"
)

func TestConsoleSinkIncludesCategoryAndTrace(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{})

	err := sink.Write(logging.Event{
		Type:     "conn.login_success",
		Category: logging.CategoryConnection,
		Actor:    logging.EntityRef{ID: "p1", Kind: logging.EntityKindParticipant},
		Severity: logging.SeverityInfo,
		TraceID:  "p1",
	})

	assert.NoError(t, err)
	line := buf.String()
	assert.True(t, strings.Contains(line, "[connection]"))
	assert.True(t, strings.Contains(line, "trace=p1"))
	assert.True(t, strings.Contains(line, "actor=participant:p1"))
}

func TestConsoleSinkOmitsCategoryAndTraceWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{})

	err := sink.Write(logging.Event{Type: "conn.shutdown", Actor: logging.EntityRef{Kind: logging.EntityKindSystem}})

	assert.NoError(t, err)
	line := buf.String()
	assert.False(t, strings.Contains(line, "trace="))
	assert.False(t, strings.Contains(line, "["+logging.CategoryConnection+"]"))
}
