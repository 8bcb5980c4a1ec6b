package buddy

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerRespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{std: log.New(&buf, "", 0), minLvl: LevelWarning}

	l.Infof("should not appear")
	assert.Empty(t, buf.String())

	l.Warnf("heads up %d", 1)
	assert.Contains(t, buf.String(), "[WARNING] heads up 1")

	buf.Reset()
	l.Errorf("boom")
	assert.Contains(t, buf.String(), "[ERROR] boom")
}

func TestLoggerNilReceiverIsNoop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Infof("anything") })
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	orig := logger
	defer func() { logger = orig }()

	SetLogger(nil)
	assert.Same(t, orig, logger)

	replacement := NewLogger(LevelError)
	SetLogger(replacement)
	assert.Same(t, replacement, logger)
}
