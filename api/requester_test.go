package api

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wykop-sdk/wykop-go/debug"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	previous := slog.Default()
	var buf bytes.Buffer
	debug.SetupLoggerTo(&buf, true)
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestLogRequest_OnlyWhenDebugEnabled(t *testing.T) {
	buf := captureLogs(t)
	data := map[string]string{"login": "m__b", "password": "hunter2"}

	logRequest(context.Background(), "POST", "http://a.wykop.pl/user/login/", data, signedHeaders(), nil)
	assert.Empty(t, buf.String())

	ctx := debug.WithDebug(context.Background(), true)
	logRequest(ctx, "POST", "http://a.wykop.pl/user/login/", data, signedHeaders(),
		map[string]File{"embed": NewFile("a.png", strings.NewReader(""))})

	out := buf.String()
	assert.Contains(t, out, "wykop request")
	assert.Contains(t, out, "user/login")
	assert.Contains(t, out, "m__b")
	assert.Contains(t, out, "embed")
	assert.NotContains(t, out, "hunter2")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "kot.png", fileName(NewFile("/var/tmp/kot.png", strings.NewReader(""))))
	assert.Equal(t, "kot.png", fileName(NewFile("kot.png", strings.NewReader(""))))
}

func TestLogRequest_RedactsUserKeyInURL(t *testing.T) {
	buf := captureLogs(t)
	ctx := debug.WithDebug(context.Background(), true)
	url := "http://a.wykop.pl/entries/add/appkey,123456app,format,json,output,,userkey,sekretnyklucz"

	logRequest(ctx, "POST", url, map[string]string{"userkey": "sekretnyklucz", "body": "hej"}, signedHeaders(), nil)
	logResponse(ctx, "POST", url, 200, time.Now())

	out := buf.String()
	assert.Contains(t, out, "entries/add")
	assert.Contains(t, out, "hej")
	assert.NotContains(t, out, "sekretnyklucz")
}
