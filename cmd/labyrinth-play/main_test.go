package main

import (
	"context"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-level", "2", "-lang", "en", "-mute"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, options{level: 2, lang: "en", mute: true}, o)

	o, err = parseFlags(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, o.level)
	assert.Equal(t, "fr", o.lang)

	_, err = parseFlags([]string{"-h"}, io.Discard)
	assert.ErrorIs(t, err, flag.ErrHelp)

	_, err = parseFlags([]string{"-level", "hard"}, io.Discard)
	assert.Error(t, err)
}

func TestNotifyDropsMessageAfterCancel(t *testing.T) {
	out := make(chan string)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan bool)
	go func() { done <- notify(ctx, out, "lost") }()

	select {
	case delivered := <-done:
		assert.False(t, delivered)
	case <-time.After(time.Second):
		t.Fatal("notify blocked on a loop that has returned")
	}
}

func TestNotifyDelivers(t *testing.T) {
	out := make(chan string, 1)
	assert.True(t, notify(context.Background(), out, "hello"))
	assert.Equal(t, "hello", <-out)
}
